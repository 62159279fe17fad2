package faucet_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zarc/internal/domain"
	"zarc/internal/faucet"
)

const addr = "GDWLONM4CVSOJQXE4SJ2AP7C5G2APVC3Y3LXIHQCW2DH6CACQEZ4AOUG"

func TestFund(t *testing.T) {
	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.URL.Query().Get("addr")
		_, _ = w.Write([]byte(`{"hash":"abc"}`))
	}))
	defer srv.Close()

	require.NoError(t, faucet.NewHTTP(srv.URL, srv.Client()).Fund(context.Background(), addr))
	assert.Equal(t, addr, got)
}

func TestFund_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   error
	}{
		{
			name:   "already funded by op code",
			status: http.StatusBadRequest,
			body:   `{"title":"Transaction Failed","extras":{"result_codes":{"transaction":"tx_failed","operations":["op_already_exists"]}}}`,
			want:   domain.ErrAlreadyFunded,
		},
		{
			name:   "already funded by detail",
			status: http.StatusBadRequest,
			body:   `{"title":"Bad Request","detail":"createAccountAlreadyExist (AAAAAAAAAGT/////AAAAAQAAAAAAAAAA/////AAAAAA=)"}`,
			want:   domain.ErrAlreadyFunded,
		},
		{name: "other bad request", status: http.StatusBadRequest, body: `{"title":"Bad Request"}`, want: domain.ErrUnavailable},
		{name: "server error", status: http.StatusBadGateway, body: "", want: domain.ErrUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			err := faucet.NewHTTP(srv.URL, srv.Client()).Fund(context.Background(), addr)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestFund_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	err := faucet.NewHTTP(url, nil).Fund(context.Background(), addr)
	assert.ErrorIs(t, err, domain.ErrUnavailable)
	assert.Equal(t, domain.KindNetwork, domain.KindOf(err))
}

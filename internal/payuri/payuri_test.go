package payuri_test

import (
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zarc/internal/domain"
	"zarc/internal/payuri"
)

const (
	issuer = "GD3N4XVQIDMTIHULEIT4LKXCAEWD54AONDUUT6P65K3SPION3DBMLR3F"
	dest   = "GDWLONM4CVSOJQXE4SJ2AP7C5G2APVC3Y3LXIHQCW2DH6CACQEZ4AOUG"
)

var zarc = domain.Asset{Code: "ZARC", Issuer: issuer, Decimals: 7}

func TestBuildParse(t *testing.T) {
	req := payuri.ForAsset(dest, "125.50", zarc)
	req.Message = "invoice 7"

	uri, err := payuri.Build(req)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(uri, "web+stellar:pay?"))
	assert.Contains(t, uri, "destination="+dest)
	assert.Contains(t, uri, "asset_code=ZARC")
	assert.Contains(t, uri, "msg=invoice+7")

	got, err := payuri.Parse(uri)
	require.NoError(t, err)
	assert.Equal(t, req, got)
}

func TestBuild_Rejects(t *testing.T) {
	tests := map[string]payuri.PayRequest{
		"bad destination":  {Destination: "GABC", Amount: "1"},
		"zero amount":      {Destination: dest, Amount: "0"},
		"negative amount":  {Destination: dest, Amount: "-1"},
		"issuer only":      {Destination: dest, Amount: "1", AssetIssuer: issuer},
		"bad asset issuer": {Destination: dest, Amount: "1", AssetCode: "ZARC", AssetIssuer: "GXYZ"},
	}
	for name, req := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := payuri.Build(req)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestParse_Rejects(t *testing.T) {
	for _, uri := range []string{
		"https://example.com/pay?destination=" + dest,
		"web+stellar:tx?xdr=AAAA",
		"web+stellar:pay?amount=5",
	} {
		_, err := payuri.Parse(uri)
		assert.ErrorIs(t, err, domain.ErrInvalidInput, uri)
	}
}

func TestRender(t *testing.T) {
	uri, err := payuri.Build(payuri.ForAsset(dest, "10", zarc))
	require.NoError(t, err)

	art, err := payuri.RenderTerminal(uri)
	require.NoError(t, err)
	assert.Greater(t, strings.Count(art, "\n"), 10)

	path := filepath.Join(t.TempDir(), "req.png")
	require.NoError(t, payuri.WritePNG(uri, path, 256))
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, 256, img.Bounds().Dx())
}

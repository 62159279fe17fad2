package faucet

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/rotisserie/eris"

	"zarc/internal/domain"
)

type HTTP struct {
	Base string
	HTTP *http.Client
}

func NewHTTP(base string, client *http.Client) *HTTP {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTP{Base: base, HTTP: client}
}

var _ domain.Faucet = (*HTTP)(nil)

// problem is the subset of the faucet's error body we inspect.
type problem struct {
	Title  string `json:"title"`
	Detail string `json:"detail"`
	Extras struct {
		ResultCodes struct {
			Operations []string `json:"operations"`
		} `json:"result_codes"`
	} `json:"extras"`
}

func (p problem) alreadyExists() bool {
	for _, c := range p.Extras.ResultCodes.Operations {
		if c == "op_already_exists" {
			return true
		}
	}
	return strings.Contains(p.Detail, "createAccountAlreadyExist")
}

// Fund asks the faucet to create and fund address.
func (c *HTTP) Fund(ctx context.Context, address string) error {
	u := c.Base + "?addr=" + url.QueryEscape(address)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return eris.Wrapf(domain.ErrInvalidInput, "faucet url %q: %v", c.Base, err)
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return eris.Wrapf(domain.ErrUnavailable, "faucet get %s: %v", c.Base, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 == 2 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	var p problem
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if json.Unmarshal(body, &p) == nil && resp.StatusCode == http.StatusBadRequest && p.alreadyExists() {
		return eris.Wrapf(domain.ErrAlreadyFunded, "account %s", address)
	}
	return eris.Wrapf(domain.ErrUnavailable, "faucet get %s: %s", c.Base, resp.Status)
}

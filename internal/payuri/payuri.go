// Package payuri builds and parses SEP-7 payment request URIs and renders them
// as QR codes.
package payuri

import (
	"net/url"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/skip2/go-qrcode"

	"zarc/internal/amount"
	"zarc/internal/domain"
	"zarc/internal/keys"
)

const prefix = "web+stellar:pay?"

// PayRequest asks a payer to send Amount of an asset to Destination.
type PayRequest struct {
	Destination string
	Amount      string
	AssetCode   string
	AssetIssuer string
	Message     string // optional, shown by the payer's wallet
}

func (r PayRequest) validate() error {
	if !keys.ValidAddress(r.Destination) {
		return eris.Wrapf(domain.ErrInvalidInput, "destination %q is not a valid address", r.Destination)
	}
	if _, err := amount.Parse(r.Amount); err != nil {
		return eris.Wrapf(domain.ErrInvalidInput, "amount %q: %v", r.Amount, err)
	}
	if (r.AssetCode == "") != (r.AssetIssuer == "") {
		return eris.Wrap(domain.ErrInvalidInput, "asset code and issuer must be given together")
	}
	if r.AssetIssuer != "" && !keys.ValidAddress(r.AssetIssuer) {
		return eris.Wrapf(domain.ErrInvalidInput, "asset issuer %q is not a valid address", r.AssetIssuer)
	}
	return nil
}

// ForAsset returns a request for amt of asset paid to destination.
func ForAsset(destination, amt string, asset domain.Asset) PayRequest {
	return PayRequest{Destination: destination, Amount: amt, AssetCode: asset.Code, AssetIssuer: asset.Issuer}
}

// Build encodes r as a web+stellar:pay URI.
func Build(r PayRequest) (string, error) {
	if err := r.validate(); err != nil {
		return "", err
	}
	q := url.Values{}
	q.Set("destination", r.Destination)
	q.Set("amount", r.Amount)
	if r.AssetCode != "" {
		q.Set("asset_code", r.AssetCode)
		q.Set("asset_issuer", r.AssetIssuer)
	}
	if r.Message != "" {
		q.Set("msg", r.Message)
	}
	return prefix + q.Encode(), nil
}

// Parse decodes a URI produced by Build or another SEP-7 wallet.
func Parse(uri string) (PayRequest, error) {
	rest, ok := strings.CutPrefix(strings.TrimSpace(uri), prefix)
	if !ok {
		return PayRequest{}, eris.Wrap(domain.ErrInvalidInput, "not a web+stellar:pay URI")
	}
	q, err := url.ParseQuery(rest)
	if err != nil {
		return PayRequest{}, eris.Wrapf(domain.ErrInvalidInput, "query: %v", err)
	}
	r := PayRequest{
		Destination: q.Get("destination"),
		Amount:      q.Get("amount"),
		AssetCode:   q.Get("asset_code"),
		AssetIssuer: q.Get("asset_issuer"),
		Message:     q.Get("msg"),
	}
	if err := r.validate(); err != nil {
		return PayRequest{}, err
	}
	return r, nil
}

// RenderTerminal draws uri as a QR code using half-block characters.
func RenderTerminal(uri string) (string, error) {
	q, err := qrcode.New(uri, qrcode.Medium)
	if err != nil {
		return "", eris.Wrap(err, "encode qr")
	}
	return q.ToSmallString(false), nil
}

// WritePNG writes uri as a size x size PNG QR code to path.
func WritePNG(uri, path string, size int) error {
	if err := qrcode.WriteFile(uri, qrcode.Medium, size, path); err != nil {
		return eris.Wrapf(err, "write qr %s", path)
	}
	return nil
}

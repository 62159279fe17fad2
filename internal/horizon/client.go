package horizon

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/stellar/go/clients/horizonclient"
	"github.com/stellar/go/txnbuild"

	"zarc/internal/domain"
	"zarc/internal/keys"
)

// Client talks to one Horizon instance on one network.
type Client struct {
	url        string
	passphrase string
	http       *http.Client
	now        func() time.Time
}

// New returns a Client. A nil httpClient means http.DefaultClient.
func New(horizonURL, passphrase string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{url: horizonURL, passphrase: passphrase, http: httpClient, now: time.Now}
}

var _ domain.Ledger = (*Client)(nil)

// sdk returns an SDK client whose requests carry ctx.
func (c *Client) sdk(ctx context.Context) *horizonclient.Client {
	return &horizonclient.Client{
		HorizonURL: c.url,
		HTTP:       ctxHTTP{ctx: ctx, c: c.http},
		AppName:    "zarc",
	}
}

// LoadAccount fetches address from Horizon.
func (c *Client) LoadAccount(ctx context.Context, address string) (domain.AccountState, error) {
	if err := ctx.Err(); err != nil {
		return domain.AccountState{}, eris.Wrap(domain.ErrUnavailable, err.Error())
	}
	acct, err := c.sdk(ctx).AccountDetail(horizonclient.AccountRequest{AccountID: address})
	if err != nil {
		return domain.AccountState{}, classifyLoad(address, err)
	}
	seq, err := acct.GetSequenceNumber()
	if err != nil {
		return domain.AccountState{}, eris.Wrapf(err, "account %s: sequence", address)
	}

	st := domain.AccountState{Address: acct.AccountID, Sequence: seq}
	if st.Address == "" {
		st.Address = address
	}
	for _, b := range acct.Balances {
		bal := domain.Balance{AssetCode: b.Code, AssetIssuer: b.Issuer, Amount: b.Balance}
		if b.Type == "native" {
			bal.AssetCode = domain.NativeCode
		}
		st.Balances = append(st.Balances, bal)
	}
	return st, nil
}

// Sign builds req with txnbuild and signs it for the configured network.
func (c *Client) Sign(req domain.TransactionRequest, signer domain.Signer) (domain.SignedTransaction, error) {
	kp, err := keys.Full(signer)
	if err != nil {
		return domain.SignedTransaction{}, err
	}
	if err := req.Validate(); err != nil {
		return domain.SignedTransaction{}, eris.Wrap(domain.ErrInvalidInput, err.Error())
	}

	ops := make([]txnbuild.Operation, 0, len(req.Operations))
	for i, op := range req.Operations {
		o, err := toSDK(op)
		if err != nil {
			return domain.SignedTransaction{}, eris.Wrapf(domain.ErrInvalidInput, "operation %d: %v", i+1, err)
		}
		ops = append(ops, o)
	}

	timeout := int64(req.Timeout / time.Second)
	if timeout < 1 {
		timeout = 1
	}
	params := txnbuild.TransactionParams{
		SourceAccount:        &txnbuild.SimpleAccount{AccountID: req.Source.Address, Sequence: req.Source.Sequence},
		IncrementSequenceNum: true,
		Operations:           ops,
		BaseFee:              req.BaseFee,
		Preconditions:        txnbuild.Preconditions{TimeBounds: txnbuild.NewTimeout(timeout)},
	}
	if req.Memo != nil {
		params.Memo = txnbuild.MemoHash(*req.Memo)
	}

	tx, err := txnbuild.NewTransaction(params)
	if err != nil {
		return domain.SignedTransaction{}, eris.Wrapf(domain.ErrInvalidInput, "build transaction: %v", err)
	}
	if tx, err = tx.Sign(c.passphrase, kp); err != nil {
		return domain.SignedTransaction{}, eris.Wrapf(domain.ErrInvalidCredentials, "sign transaction: %v", err)
	}
	hash, err := tx.HashHex(c.passphrase)
	if err != nil {
		return domain.SignedTransaction{}, eris.Wrap(err, "hash transaction")
	}
	env, err := tx.Base64()
	if err != nil {
		return domain.SignedTransaction{}, eris.Wrap(err, "encode transaction")
	}
	return domain.SignedTransaction{
		Hash:     hash,
		Envelope: env,
		Expires:  c.now().Add(time.Duration(timeout) * time.Second),
		Request:  req,
	}, nil
}

func toSDK(op domain.Operation) (txnbuild.Operation, error) {
	switch o := op.(type) {
	case domain.PaymentOp:
		return &txnbuild.Payment{
			Destination: o.Destination,
			Amount:      o.Amount,
			Asset:       txnbuild.CreditAsset{Code: o.Asset.Code, Issuer: o.Asset.Issuer},
		}, nil
	case domain.ChangeTrustOp:
		line, err := txnbuild.CreditAsset{Code: o.Asset.Code, Issuer: o.Asset.Issuer}.ToChangeTrustAsset()
		if err != nil {
			return nil, err
		}
		return &txnbuild.ChangeTrust{Line: line, Limit: o.Limit}, nil
	default:
		return nil, eris.Errorf("unsupported operation %T", op)
	}
}

// Submit posts the envelope once. It never retries.
func (c *Client) Submit(ctx context.Context, tx domain.SignedTransaction) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", eris.Wrap(domain.ErrUnavailable, err.Error())
	}
	resp, err := c.sdk(ctx).SubmitTransactionXDR(tx.Envelope)
	if err != nil {
		return "", classifySubmit(err)
	}
	if resp.Hash == "" {
		return tx.Hash, nil
	}
	return resp.Hash, nil
}

// ctxHTTP binds a context to every request the SDK sends.
type ctxHTTP struct {
	ctx context.Context
	c   *http.Client
}

var _ horizonclient.HTTP = ctxHTTP{}

func (h ctxHTTP) Do(req *http.Request) (*http.Response, error) {
	return h.c.Do(req.WithContext(h.ctx))
}

func (h ctxHTTP) Get(u string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(h.ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	return h.c.Do(req)
}

func (h ctxHTTP) PostForm(u string, data url.Values) (*http.Response, error) {
	req, err := http.NewRequestWithContext(h.ctx, http.MethodPost, u, strings.NewReader(data.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return h.c.Do(req)
}

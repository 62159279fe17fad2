package wallet

import (
	"context"
	"errors"

	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"

	"zarc/internal/amount"
	"zarc/internal/batch"
	"zarc/internal/domain"
	"zarc/internal/keys"
	"zarc/internal/payuri"
)

// DefaultTrustLimit is the trustline limit used when Config.TrustLimit is empty.
const DefaultTrustLimit = "1000000000"

// Config holds the per-network settings shared by every operation.
type Config struct {
	Asset      domain.Asset
	TrustLimit string
	Tx         batch.Options // fee and timeout for trustline transactions
}

// Wallet is a newly created keypair. Secret is shown to the user once and is
// not retained.
type Wallet struct {
	Address string
	Secret  string
	TrustTx string
}

// Balances is what Balance reports for one account.
type Balances struct {
	Address string
	Asset   string // balance in Config.Asset, "0" without a trustline
	Trusted bool
	Native  string
}

// Service implements the wallet operations over a ledger and faucet.
type Service struct {
	ledger    domain.Ledger
	faucet    domain.Faucet
	submitter *batch.Submitter
	cfg       Config
	log       zerolog.Logger
}

// New returns a wallet service. Payments go through submitter.
func New(ledger domain.Ledger, faucet domain.Faucet, submitter *batch.Submitter, cfg Config, log zerolog.Logger) *Service {
	if cfg.TrustLimit == "" {
		cfg.TrustLimit = DefaultTrustLimit
	}
	if cfg.Tx.BaseFee == 0 {
		cfg.Tx.BaseFee = batch.DefaultBaseFee
	}
	return &Service{ledger: ledger, faucet: faucet, submitter: submitter, cfg: cfg, log: log}
}

// Create generates a keypair, funds it from the faucet and opens a trustline
// to the configured asset.
//
// When funding succeeds but the trustline fails, the returned Wallet still
// carries the address and secret so the user can retry with Trust.
func (s *Service) Create(ctx context.Context) (Wallet, error) {
	signer, err := keys.Generate()
	if err != nil {
		return Wallet{}, err
	}
	defer signer.Wipe()
	w := Wallet{Address: signer.Address, Secret: string(signer.Seed())}
	log := s.log.With().Str("address", signer.Address).Logger()

	if err := s.faucet.Fund(ctx, signer.Address); err != nil {
		return Wallet{}, err
	}
	log.Info().Msg("account funded")

	if w.TrustTx, err = s.trust(ctx, signer); err != nil {
		return w, err
	}
	log.Info().Str("tx", w.TrustTx).Str("asset", s.cfg.Asset.Code).Msg("trustline established")
	return w, nil
}

// Fund asks the faucet to create address.
func (s *Service) Fund(ctx context.Context, address string) error {
	if !keys.ValidAddress(address) {
		return eris.Wrapf(domain.ErrInvalidInput, "address %q is not valid", address)
	}
	return s.faucet.Fund(ctx, address)
}

// Trust opens a trustline for the configured asset from the account secret
// controls. It returns "" when the trustline already exists.
func (s *Service) Trust(ctx context.Context, secret string) (string, error) {
	signer, err := keys.FromSecret(secret)
	if err != nil {
		return "", err
	}
	defer signer.Wipe()
	return s.trust(ctx, signer)
}

func (s *Service) trust(ctx context.Context, signer domain.Signer) (string, error) {
	acct, err := s.ledger.LoadAccount(ctx, signer.Address)
	if err != nil {
		return "", err
	}
	if _, ok := acct.BalanceOf(s.cfg.Asset); ok {
		s.log.Debug().Str("address", signer.Address).Msg("trustline already present")
		return "", nil
	}
	tx, err := s.ledger.Sign(domain.TransactionRequest{
		Source:     acct,
		Operations: []domain.Operation{domain.ChangeTrustOp{Asset: s.cfg.Asset, Limit: s.cfg.TrustLimit}},
		BaseFee:    s.cfg.Tx.BaseFee,
		Timeout:    s.cfg.Tx.Timeout,
	}, signer)
	if err != nil {
		return "", err
	}
	return s.ledger.Submit(ctx, tx)
}

// Balance reports the asset and native balances of address.
func (s *Service) Balance(ctx context.Context, address string) (Balances, error) {
	if !keys.ValidAddress(address) {
		return Balances{}, eris.Wrapf(domain.ErrInvalidInput, "address %q is not valid", address)
	}
	acct, err := s.ledger.LoadAccount(ctx, address)
	if err != nil {
		return Balances{}, err
	}
	b := Balances{Address: address}
	b.Asset, b.Trusted = acct.BalanceOf(s.cfg.Asset)
	b.Native, _ = acct.BalanceOf(domain.Asset{Code: domain.NativeCode})
	return b, nil
}

// Send pays amt to destination as a batch of one.
func (s *Service) Send(ctx context.Context, secret, destination, amt string, progress func(batch.Status)) (batch.Receipt, error) {
	if !keys.ValidAddress(destination) {
		return batch.Receipt{}, eris.Wrapf(domain.ErrInvalidInput, "destination %q is not valid", destination)
	}
	if err := amount.Validate(amt, s.cfg.Asset.Decimals); err != nil {
		return batch.Receipt{}, eris.Wrapf(domain.ErrInvalidInput, "amount %q: %v", amt, err)
	}
	return s.submitter.Submit(ctx, batch.Request{
		Secret:   secret,
		Batch:    domain.RecipientBatch{{Destination: destination, Amount: amt, Line: 1}},
		Progress: progress,
	})
}

// Request returns a payment request URI for amt paid to address.
func (s *Service) Request(address, amt string) (string, error) {
	return payuri.Build(payuri.ForAsset(address, amt, s.cfg.Asset))
}

// Disburse submits a recipient list.
func (s *Service) Disburse(ctx context.Context, req batch.Request) (batch.Receipt, error) {
	return s.submitter.Submit(ctx, req)
}

// IsFunded reports whether err means the faucet had already created the
// account.
func IsFunded(err error) bool { return errors.Is(err, domain.ErrAlreadyFunded) }

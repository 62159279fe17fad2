package app

import (
	"net/http"

	"github.com/rs/zerolog"

	"zarc/internal/batch"
	"zarc/internal/domain"
	"zarc/internal/faucet"
	"zarc/internal/horizon"
	"zarc/internal/ledger/memledger"
	"zarc/internal/services/wallet"
)

// DemoGrant is the asset balance every account starts with on the memory ledger.
const DemoGrant = "100000"

// Wire bundles the ledger, faucet and services for the CLI.
type Wire struct {
	Config    Config
	Log       zerolog.Logger
	Ledger    domain.Ledger
	Faucet    domain.Faucet
	Submitter *batch.Submitter
	Wallet    *wallet.Service
	HTTP      *http.Client
}

// NewWire constructs the dependency graph from cfg. A nil httpClient gets one
// with cfg's HTTP timeout.
func NewWire(cfg Config, log zerolog.Logger, httpClient *http.Client) (*Wire, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.HTTPTimeout()}
	}
	asset := cfg.Asset()

	var (
		ledger domain.Ledger
		fc     domain.Faucet
	)
	switch cfg.Ledger {
	case LedgerMemory:
		ml := memledger.New(cfg.NetworkPassphrase, memledger.WithGenesis(asset, DemoGrant))
		ledger, fc = ml, ml
		log.Warn().Msg("using the in-memory ledger; nothing is sent to the network")
	default:
		ledger = horizon.New(cfg.HorizonURL, cfg.NetworkPassphrase, httpClient)
		fc = faucet.NewHTTP(cfg.FaucetURL, httpClient)
	}

	w := &Wire{Config: cfg, Log: log, Ledger: ledger, Faucet: fc, HTTP: httpClient}
	w.Submitter = w.submitter()
	w.Wallet = wallet.New(ledger, fc, w.Submitter, wallet.Config{
		Asset:      asset,
		TrustLimit: cfg.TrustLimit,
		Tx:         w.txOptions(),
	}, log.With().Str("component", "wallet").Logger())
	return w, nil
}

func (w *Wire) txOptions() batch.Options {
	return batch.Options{BaseFee: w.Config.BaseFee, Timeout: w.Config.TxTimeout(), Memo: w.Config.BatchMemo}
}

func (w *Wire) submitter(extra ...batch.Option) *batch.Submitter {
	review, block, _ := w.Config.thresholds() // checked by Validate
	opts := append([]batch.Option{
		batch.WithPolicy(batch.ThresholdPolicy{ReviewAbove: review, BlockAbove: block}),
		batch.WithLogger(w.Log.With().Str("component", "batch").Logger()),
	}, extra...)
	return batch.NewSubmitter(w.Ledger, w.Config.Asset(), w.txOptions(), opts...)
}

// Strict returns a submitter like w.Submitter that also validates every
// destination address while parsing.
func (w *Wire) Strict() *batch.Submitter { return w.submitter(batch.WithStrictAddresses()) }

package app

import (
	"regexp"
	"time"

	jlconfig "github.com/JeremyLoy/config"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stellar/go/network"

	"zarc/internal/amount"
	"zarc/internal/domain"
	"zarc/internal/keys"
)

const (
	LedgerHorizon = "horizon"
	LedgerMemory  = "memory"
)

// Config holds runtime wiring options for building the app. Fields map to
// ZARC_* environment variables.
type Config struct {
	HorizonURL        string `config:"ZARC_HORIZON_URL"`
	FaucetURL         string `config:"ZARC_FAUCET_URL"`
	NetworkPassphrase string `config:"ZARC_NETWORK_PASSPHRASE"`

	AssetCode     string `config:"ZARC_ASSET_CODE"`
	AssetIssuer   string `config:"ZARC_ASSET_ISSUER"`
	AssetDecimals int    `config:"ZARC_ASSET_DECIMALS"`
	TrustLimit    string `config:"ZARC_TRUST_LIMIT"`

	TxTimeoutSeconds int   `config:"ZARC_TX_TIMEOUT_SECONDS"`
	BaseFee          int64 `config:"ZARC_BASE_FEE"`
	BatchMemo        bool  `config:"ZARC_BATCH_MEMO"`

	// ReviewThreshold flags batches whose total exceeds it. BlockThreshold,
	// when set, refuses them outright.
	ReviewThreshold string `config:"ZARC_REVIEW_THRESHOLD"`
	BlockThreshold  string `config:"ZARC_BLOCK_THRESHOLD"`

	HTTPTimeoutSeconds int    `config:"ZARC_HTTP_TIMEOUT_SECONDS"`
	Ledger             string `config:"ZARC_LEDGER"` // horizon or memory
	LogLevel           string `config:"ZARC_LOG_LEVEL"`
}

// DefaultConfig targets the public test network.
func DefaultConfig() Config {
	return Config{
		HorizonURL:         "https://horizon-testnet.stellar.org",
		FaucetURL:          "https://friendbot.stellar.org",
		NetworkPassphrase:  network.TestNetworkPassphrase,
		AssetCode:          "ZARC",
		AssetIssuer:        "GD3N4XVQIDMTIHULEIT4LKXCAEWD54AONDUUT6P65K3SPION3DBMLR3F",
		AssetDecimals:      int(amount.LedgerDecimals),
		TrustLimit:         "1000000000",
		TxTimeoutSeconds:   30,
		BaseFee:            100,
		BatchMemo:          true,
		ReviewThreshold:    "10000",
		HTTPTimeoutSeconds: 20,
		Ledger:             LedgerHorizon,
		LogLevel:           "info",
	}
}

// LoadConfig starts from DefaultConfig and applies file (when non-empty) and
// then the environment. Only keys present override defaults.
func LoadConfig(file string) (Config, error) {
	cfg := DefaultConfig()
	b := jlconfig.FromEnv()
	if file != "" {
		b = jlconfig.From(file).FromEnv()
	}
	if err := b.To(&cfg); err != nil {
		return Config{}, eris.Wrap(err, "load config")
	}
	return cfg, nil
}

var assetCode = regexp.MustCompile(`^[A-Za-z0-9]{1,12}$`)

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	switch {
	case !assetCode.MatchString(c.AssetCode):
		return eris.Errorf("config: asset code %q must be 1-12 letters or digits", c.AssetCode)
	case !keys.ValidAddress(c.AssetIssuer):
		return eris.Errorf("config: asset issuer %q is not a valid account address", c.AssetIssuer)
	case c.AssetDecimals < 0 || c.AssetDecimals > int(amount.LedgerDecimals):
		return eris.Errorf("config: asset decimals %d outside 0..%d", c.AssetDecimals, amount.LedgerDecimals)
	case c.TxTimeoutSeconds <= 0:
		return eris.New("config: transaction timeout must be positive")
	case c.BaseFee <= 0:
		return eris.New("config: base fee must be positive")
	case c.HTTPTimeoutSeconds <= 0:
		return eris.New("config: http timeout must be positive")
	case c.Ledger != LedgerHorizon && c.Ledger != LedgerMemory:
		return eris.Errorf("config: ledger %q must be %s or %s", c.Ledger, LedgerHorizon, LedgerMemory)
	case c.Ledger == LedgerHorizon && (c.HorizonURL == "" || c.NetworkPassphrase == ""):
		return eris.New("config: horizon ledger needs a URL and network passphrase")
	}
	if c.TrustLimit != "" {
		if err := amount.Validate(c.TrustLimit, amount.LedgerDecimals); err != nil {
			return eris.Wrap(err, "config: trust limit")
		}
	}
	if _, _, err := c.thresholds(); err != nil {
		return err
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return eris.Wrapf(err, "config: log level %q", c.LogLevel)
	}
	return nil
}

// Asset returns the configured asset.
func (c Config) Asset() domain.Asset {
	return domain.Asset{Code: c.AssetCode, Issuer: c.AssetIssuer, Decimals: int32(c.AssetDecimals)}
}

func (c Config) TxTimeout() time.Duration { return time.Duration(c.TxTimeoutSeconds) * time.Second }

func (c Config) HTTPTimeout() time.Duration {
	return time.Duration(c.HTTPTimeoutSeconds) * time.Second
}

// thresholds parses ReviewThreshold and BlockThreshold. Empty means none.
func (c Config) thresholds() (review, block decimal.Decimal, err error) {
	parse := func(name, s string) (decimal.Decimal, error) {
		if s == "" {
			return decimal.Zero, nil
		}
		d, err := amount.Parse(s)
		if err != nil {
			return decimal.Zero, eris.Wrapf(err, "config: %s threshold %q", name, s)
		}
		return d, nil
	}
	if review, err = parse("review", c.ReviewThreshold); err != nil {
		return
	}
	block, err = parse("block", c.BlockThreshold)
	return
}

package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"zarc/internal/app"
	"zarc/internal/batch"
)

var (
	configFile string
	secret     string
	wire       *app.Wire

	ledgerKind string
	horizonURL string
	faucetURL  string
	logLevel   string
)

// Execute runs the CLI and prints any failure to stderr.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	root := newRootCmd()
	err := root.ExecuteContext(ctx)
	if err != nil {
		fmt.Fprintln(root.ErrOrStderr(), "Error:", message(err))
	}
	return err
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "zarc",
		Short:         "ZARC wallet and batch disbursement CLI for the Stellar test network",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.LoadConfig(configFile)
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			if flags.Changed("ledger") {
				cfg.Ledger = ledgerKind
			}
			if flags.Changed("horizon-url") {
				cfg.HorizonURL = horizonURL
			}
			if flags.Changed("faucet-url") {
				cfg.FaucetURL = faucetURL
			}
			if flags.Changed("log-level") {
				cfg.LogLevel = logLevel
			}
			if secret == "" {
				secret = os.Getenv("ZARC_SECRET")
			}

			log := app.NewLogger(cmd.ErrOrStderr(), cfg.LogLevel)
			wire, err = app.NewWire(cfg, log, nil)
			return err
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&configFile, "config", "", "KEY=value file with ZARC_* settings")
	pf.StringVarP(&secret, "secret", "s", "", "signer secret seed (default $ZARC_SECRET)")
	pf.StringVar(&ledgerKind, "ledger", app.LedgerHorizon, "ledger backend: horizon or memory")
	pf.StringVar(&horizonURL, "horizon-url", "", "Horizon base URL")
	pf.StringVar(&faucetURL, "faucet-url", "", "faucet base URL")
	pf.StringVar(&logLevel, "log-level", "info", "log level")

	root.AddCommand(
		createWalletCmd(),
		fundCmd(),
		trustCmd(),
		balanceCmd(),
		sendCmd(),
		requestCmd(),
		disburseCmd(),
	)
	return root
}

// message prefers the human text of a submission failure.
func message(err error) string {
	var f *batch.Failure
	if errors.As(err, &f) {
		return f.Message()
	}
	return err.Error()
}

// progressTo prints every non-terminal failure status; Execute reports the
// failure itself.
func progressTo(w io.Writer) func(batch.Status) {
	return func(st batch.Status) {
		if st.State == batch.StateFailed {
			return
		}
		fmt.Fprintln(w, st.Message)
	}
}

func printReceipt(w io.Writer, r batch.Receipt) {
	fmt.Fprintf(w, "Transaction: %s\n", r.TransactionID)
	fmt.Fprintf(w, "Payments:    %d\n", r.Payments)
	fmt.Fprintf(w, "Digest:      %s\n", r.Digest)
	if r.Compliance.Verdict == batch.Flag {
		fmt.Fprintf(w, "Flagged for review: %s\n", r.Compliance.Reason)
	}
}

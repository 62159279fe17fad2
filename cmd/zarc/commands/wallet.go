package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"zarc/internal/services/wallet"
)

// create-wallet: new keypair, funded and trusting the asset.
func createWalletCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "create-wallet",
		Short: "Generate, fund and trust a new account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := wire.Wallet.Create(cmd.Context())
			out := cmd.OutOrStdout()
			if w.Address != "" {
				fmt.Fprintf(out, "Address: %s\n", w.Address)
				fmt.Fprintf(out, "Secret:  %s\n", w.Secret)
				fmt.Fprintln(out, "The secret is shown once. Store it somewhere safe.")
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Trustline for %s established in %s\n", wire.Config.AssetCode, w.TrustTx)
			return nil
		},
	}
}

func fundCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fund <address>",
		Short: "Create an account through the faucet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			err := wire.Wallet.Fund(cmd.Context(), args[0])
			switch {
			case wallet.IsFunded(err):
				fmt.Fprintf(cmd.OutOrStdout(), "%s is already funded\n", args[0])
				return nil
			case err != nil:
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Funded %s\n", args[0])
			return nil
		},
	}
}

func trustCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "trust",
		Short: "Open a trustline to the asset for --secret",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tx, err := wire.Wallet.Trust(cmd.Context(), secret)
			if err != nil {
				return err
			}
			if tx == "" {
				fmt.Fprintf(cmd.OutOrStdout(), "Trustline for %s already present\n", wire.Config.AssetCode)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Trustline for %s established in %s\n", wire.Config.AssetCode, tx)
			return nil
		},
	}
}

func balanceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "balance <address>",
		Short: "Show asset and native balances",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := wire.Wallet.Balance(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s: %s\n", wire.Config.AssetCode, b.Asset)
			if !b.Trusted {
				fmt.Fprintf(out, "  (no trustline; run zarc trust)\n")
			}
			fmt.Fprintf(out, "XLM:  %s\n", b.Native)
			return nil
		},
	}
}

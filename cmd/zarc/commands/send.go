package commands

import (
	"github.com/spf13/cobra"
)

// send <destination> <amount>: pay one destination from --secret.
func sendCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "send <destination> <amount>",
		Short: "Send the asset to one destination",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := wire.Wallet.Send(cmd.Context(), secret, args[0], args[1], progressTo(cmd.ErrOrStderr()))
			if err != nil {
				return err
			}
			printReceipt(cmd.OutOrStdout(), r)
			return nil
		},
	}
}

package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"zarc/internal/keys"
	"zarc/internal/payuri"
)

// request <amount>: print a payment request for --address, or the account
// --secret controls.
func requestCmd() *cobra.Command {
	var (
		address string
		pngPath string
		size    int
		noQR    bool
	)
	cmd := &cobra.Command{
		Use:   "request <amount>",
		Short: "Print a payment request URI and QR code",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if address == "" {
				s, err := keys.FromSecret(secret)
				if err != nil {
					return fmt.Errorf("--address or --secret required: %w", err)
				}
				address = s.Address
				s.Wipe()
			}
			uri, err := wire.Wallet.Request(address, args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, uri)
			if pngPath != "" {
				if err := payuri.WritePNG(uri, pngPath, size); err != nil {
					return err
				}
				fmt.Fprintf(out, "QR code written to %s\n", pngPath)
			}
			if noQR {
				return nil
			}
			art, err := payuri.RenderTerminal(uri)
			if err != nil {
				return err
			}
			fmt.Fprint(out, art)
			return nil
		},
	}
	cmd.Flags().StringVar(&address, "address", "", "receiving address (default: account of --secret)")
	cmd.Flags().StringVar(&pngPath, "png", "", "also write the QR code as a PNG")
	cmd.Flags().IntVar(&size, "size", 256, "PNG size in pixels")
	cmd.Flags().BoolVar(&noQR, "no-qr", false, "print only the URI")
	return cmd
}

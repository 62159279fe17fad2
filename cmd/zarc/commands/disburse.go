package commands

import (
	"io"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"zarc/internal/batch"
)

// disburse: pay every "<address>,<amount>" line in one atomic transaction.
func disburseCmd() *cobra.Command {
	var (
		file   string
		strict bool
	)
	cmd := &cobra.Command{
		Use:   "disburse",
		Short: "Pay a recipient list from --file (or stdin) in one transaction",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				raw []byte
				err error
			)
			if file == "" || file == "-" {
				raw, err = io.ReadAll(cmd.InOrStdin())
			} else {
				raw, err = os.ReadFile(file)
			}
			if err != nil {
				return eris.Wrap(err, "read recipients")
			}

			submit := wire.Wallet.Disburse
			if strict {
				submit = wire.Strict().Submit
			}
			r, err := submit(cmd.Context(), batch.Request{
				Secret:     secret,
				Recipients: string(raw),
				Progress:   progressTo(cmd.ErrOrStderr()),
			})
			if err != nil {
				return err
			}
			printReceipt(cmd.OutOrStdout(), r)
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "recipient list, one <address>,<amount> per line (default stdin)")
	cmd.Flags().BoolVar(&strict, "strict", false, "reject destinations that are not valid account addresses while parsing")
	return cmd
}

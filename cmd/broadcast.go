package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

// BroadcastCmd returns the broadcast command
func BroadcastCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "broadcast [raw-tx-hex]",
		Short: "Broadcast a signed transaction",
		Long: `Broadcast a signed raw transaction, e.g. one made with transfer --encode-only.
The primary provider is tried first, then the fallback once.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rawTxFile, _ := cmd.Flags().GetString("raw-tx-file")

			var rawTx string
			switch {
			case len(args) == 1:
				rawTx = args[0]
			case rawTxFile != "":
				data, err := os.ReadFile(rawTxFile)
				if err != nil {
					return fmt.Errorf("error reading raw transaction file: %v", err)
				}
				rawTx = string(data)
			default:
				return fmt.Errorf("a raw transaction or --raw-tx-file is required")
			}
			rawTx = strings.TrimSpace(rawTx)

			env, err := newWalletEnv(cmd.Context())
			if err != nil {
				return err
			}
			defer env.close()

			txid, err := env.engine.Broadcast(cmd.Context(), rawTx)
			if err != nil {
				return fmt.Errorf("error broadcasting transaction: %v", err)
			}
			fmt.Printf("Transaction ID: %s\n", txid)
			if link := env.engine.LinkToInfo(txid); link != "" {
				fmt.Printf("Track your transaction: %s\n", link)
			}
			return nil
		},
	}

	cmd.Flags().String("raw-tx-file", "", "File containing the raw transaction hex")
	return cmd
}

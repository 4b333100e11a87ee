package cmd

import (
	"fmt"

	"github.com/bitcoinrtx/MultiCurrencyWallet/wallet"
	"github.com/spf13/cobra"
)

// HistoryCmd returns the history command
func HistoryCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "history <address>",
		Short: "List the transactions of an address",
		Long: `List the transactions of an address with their direction and value.
Pass the login flags to mark transactions of your own addresses as editable.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := newWalletEnv(cmd.Context())
			if err != nil {
				return err
			}
			defer env.close()

			var ids *wallet.Identities
			if hasLoginFlags(cmd) {
				result, err := login(cmd, env.engine)
				if err != nil {
					return err
				}
				ids = result.Identities
			}

			records, err := env.engine.ListTransactions(cmd.Context(), ids, args[0])
			if err != nil {
				return fmt.Errorf("failed to fetch history: %v", err)
			}

			if jsonOutput {
				return printJSON(records)
			}
			if len(records) == 0 {
				fmt.Printf("No transactions found for address %s\n", args[0])
				return nil
			}

			fmt.Printf("Transactions of %s\n", args[0])
			fmt.Println("===============================================")
			for _, r := range records {
				direction := directionLabel(r)
				when := "pending"
				if !r.Time.IsZero() {
					when = r.Time.Local().Format("2006-01-02 15:04:05")
				}
				fmt.Printf("%s  %-8s %s BTC  %d conf  %s\n", r.ID, direction, r.Value.StringFixed(8), r.Confirmations, when)
			}
			if len(records) > 0 && records[0].Reduced {
				fmt.Println("\nDetailed history is unavailable, showing coins created at this address without direction.")
			}
			return nil
		},
	}

	addLoginFlags(cmd)
	cmd.Flags().BoolVarP(&jsonOutput, "json", "j", false, "Output in JSON format")

	return cmd
}

// directionLabel names the direction of r. Reduced records carry none, so
// they show as a coin rather than a guess.
func directionLabel(r wallet.TxRecord) string {
	if r.Reduced || r.Direction == "" {
		return "coin"
	}
	return string(r.Direction)
}

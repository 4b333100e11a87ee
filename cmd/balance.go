package cmd

import (
	"fmt"

	"github.com/bitcoinrtx/MultiCurrencyWallet/wallet"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// BalanceCmd returns the balance command
func BalanceCmd() *cobra.Command {
	var jsonOutput bool
	var strict bool

	cmd := &cobra.Command{
		Use:   "balance <address>",
		Short: "Show the balance of an address",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := newWalletEnv(cmd.Context())
			if err != nil {
				return err
			}
			defer env.close()

			address := args[0]
			var b wallet.Balance
			if strict {
				fetched, err := env.engine.FetchBalance(cmd.Context(), address)
				if err != nil {
					return fmt.Errorf("failed to fetch balance: %v", err)
				}
				b = *fetched
			} else {
				b = env.engine.GetBalance(cmd.Context(), address)
			}

			if jsonOutput {
				return printJSON(b)
			}

			fmt.Printf("Address:     %s\n", b.Address)
			if b.Status == wallet.BalanceUnknown {
				yellow := color.New(color.FgYellow).SprintFunc()
				fmt.Println(yellow(fmt.Sprintf("Balance:     unknown (%v)", b.Err)))
				return nil
			}
			fmt.Printf("Balance:     %s BTC\n", b.Confirmed.StringFixed(8))
			fmt.Printf("Unconfirmed: %s BTC\n", b.Unconfirmed.StringFixed(8))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&jsonOutput, "json", "j", false, "Output in JSON format")
	cmd.Flags().BoolVar(&strict, "strict", false, "Fail instead of reporting an unknown balance")

	return cmd
}

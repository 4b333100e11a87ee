package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// CheckWithdrawCmd returns the check-withdraw command
func CheckWithdrawCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "check-withdraw <script-address>",
		Short: "Show the latest withdrawal from a script address",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := newWalletEnv(cmd.Context())
			if err != nil {
				return err
			}
			defer env.close()

			w, err := env.engine.CheckWithdraw(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("failed to check withdrawals: %v", err)
			}

			if jsonOutput {
				return printJSON(w)
			}
			if w == nil {
				fmt.Printf("No withdrawal from %s yet\n", args[0])
				return nil
			}
			fmt.Printf("Transaction: %s\n", w.TxID)
			fmt.Printf("To:          %s\n", w.Address)
			fmt.Printf("Amount:      %s BTC\n", w.Amount.StringFixed(8))
			if link := env.engine.LinkToInfo(w.TxID); link != "" {
				fmt.Printf("Explorer:    %s\n", link)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&jsonOutput, "json", "j", false, "Output in JSON format")
	return cmd
}

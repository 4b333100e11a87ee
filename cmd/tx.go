package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// TxCmd returns the tx command
func TxCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "tx <txid>",
		Short: "Show the details of a transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := newWalletEnv(cmd.Context())
			if err != nil {
				return err
			}
			defer env.close()

			detail, err := env.engine.GetTransactionDetail(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("failed to fetch transaction: %v", err)
			}
			link := env.engine.LinkToInfo(detail.ID)

			if jsonOutput {
				return printJSON(struct {
					Detail any    `json:"detail"`
					Link   string `json:"link,omitempty"`
				}{detail, link})
			}

			fmt.Printf("Transaction:   %s\n", detail.ID)
			fmt.Printf("From:          %s\n", detail.SenderAddress)
			fmt.Printf("To:            %s\n", detail.ReceiverAddress)
			fmt.Printf("Amount:        %s BTC\n", detail.Amount.StringFixed(8))
			fmt.Printf("Miner Fee:     %s BTC\n", detail.MinerFee.StringFixed(8))
			if !detail.AdminFee.IsZero() {
				fmt.Printf("Service Fee:   %s BTC\n", detail.AdminFee.StringFixed(8))
			}
			if !detail.AfterBalance.IsZero() {
				fmt.Printf("After Balance: %s BTC\n", detail.AfterBalance.StringFixed(8))
			}
			fmt.Printf("Confirmations: %d\n", detail.Confirmations)
			if link != "" {
				fmt.Printf("Explorer:      %s\n", link)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&jsonOutput, "json", "j", false, "Output in JSON format")
	return cmd
}

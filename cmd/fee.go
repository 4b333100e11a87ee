package cmd

import (
	"fmt"

	"github.com/bitcoinrtx/MultiCurrencyWallet/util"
	"github.com/bitcoinrtx/MultiCurrencyWallet/wallet"
	"github.com/spf13/cobra"
)

// FeeCmd returns the fee command
func FeeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fee",
		Short: "Get current recommended Bitcoin transaction fees",
		Long: `Get current recommended Bitcoin transaction fees from the configured fee API.
The fees are reported in satoshis per vbyte for different confirmation time targets.
With --amount the service fee charged on a send of that amount is shown too.`,
		Args: cobra.NoArgs,
		RunE: runFee,
	}

	cmd.Flags().StringP("amount", "a", "", "Amount to quote the service fee for (with unit e.g., 0.01btc, 10000sat)")
	cmd.Flags().String("fee-preference", "normal", "Fee preference for the quote (fastest, fast, normal, economic, minimum)")
	cmd.Flags().BoolP("json", "j", false, "Output in JSON format")

	return cmd
}

func runFee(cmd *cobra.Command, args []string) error {
	amountStr, _ := cmd.Flags().GetString("amount")
	preference, _ := cmd.Flags().GetString("fee-preference")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	speed, err := wallet.ParseSpeed(preference)
	if err != nil {
		return err
	}

	env, err := newWalletEnv(cmd.Context())
	if err != nil {
		return err
	}
	defer env.close()

	fees, err := env.fees.Recommendation(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to fetch fee recommendations: %v", err)
	}

	var quote *wallet.FeeQuote
	if amountStr != "" {
		amount, err := util.ParseAmount(amountStr)
		if err != nil {
			return err
		}
		q, err := env.engine.QuoteFees(cmd.Context(), amount, nil, speed, 1)
		if err != nil {
			return err
		}
		quote = &q
	}

	if jsonOutput {
		return printJSON(map[string]any{
			"recommended": fees,
			"quote":       quote,
		})
	}

	fmt.Println("Current Recommended Bitcoin Transaction Fees")
	fmt.Println("===========================================")
	fmt.Printf("Fastest  (≈10min): %d sat/vB - aim for confirmation within 1-2 blocks\n", fees.FastestFee)
	fmt.Printf("Fast     (≈30min): %d sat/vB - aim for confirmation within ~3 blocks\n", fees.HalfHourFee)
	fmt.Printf("Standard (≈1hour): %d sat/vB - aim for confirmation within ~6 blocks\n", fees.HourFee)
	fmt.Printf("Economy  (≈1 day): %d sat/vB - aim for confirmation within ~144 blocks\n", fees.EconomyFee)
	fmt.Printf("Minimum          : %d sat/vB - minimum relay fee\n", fees.MinimumFee)

	if quote != nil {
		fmt.Println()
		fmt.Printf("Quote for %s (%s, ~%d bytes):\n", amountStr, speed, wallet.TypicalTxSize())
		fmt.Printf("Network Fee: %s BTC\n", util.FormatBTC(quote.NetworkFee))
		fmt.Printf("Service Fee: %s BTC\n", util.FormatBTC(quote.ServiceFee))
		fmt.Printf("Total Fees:  %s BTC\n", util.FormatBTC(quote.Total()))
	}
	return nil
}

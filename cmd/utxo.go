package cmd

import (
	"fmt"

	"github.com/bitcoinrtx/MultiCurrencyWallet/util"
	"github.com/bitcoinrtx/MultiCurrencyWallet/wallet"
	"github.com/spf13/cobra"
)

// UtxoCmd returns the utxo command
func UtxoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "utxo <address>",
		Short: "List unspent transaction outputs for an address",
		Long:  `List all unspent transaction outputs (UTXOs) for a specified Bitcoin address.`,
		Args:  cobra.ExactArgs(1),
		RunE:  runUtxo,
	}

	cmd.Flags().BoolP("verbose", "V", false, "Show detailed information for each UTXO")
	cmd.Flags().Int64P("min-confirmations", "c", 0, "Minimum confirmations required")
	cmd.Flags().BoolP("json", "j", false, "Output in JSON format")
	cmd.Flags().Bool("show-script", false, "Show script information for each UTXO")

	return cmd
}

func runUtxo(cmd *cobra.Command, args []string) error {
	address := args[0]
	verbose, _ := cmd.Flags().GetBool("verbose")
	minConfirmations, _ := cmd.Flags().GetInt64("min-confirmations")
	jsonOutput, _ := cmd.Flags().GetBool("json")
	showScript, _ := cmd.Flags().GetBool("show-script")

	env, err := newWalletEnv(cmd.Context())
	if err != nil {
		return err
	}
	defer env.close()

	all, err := env.engine.FetchUnspents(cmd.Context(), address)
	if err != nil {
		return fmt.Errorf("failed to fetch UTXOs: %v", err)
	}
	var utxos []wallet.Unspent
	for _, u := range all {
		if u.Confirmations >= minConfirmations {
			utxos = append(utxos, u)
		}
	}

	if len(utxos) == 0 {
		fmt.Printf("No unspent transaction outputs found for address %s\n", address)
		return nil
	}

	if jsonOutput {
		return printJSON(utxos)
	}

	fmt.Printf("Unspent Transaction Outputs for %s\n", address)
	fmt.Println("===============================================")

	for i, utxo := range utxos {
		fmt.Printf("%d. TxID: %s\n", i+1, utxo.TxID)
		fmt.Printf("   Vout: %d\n", utxo.Vout)
		fmt.Printf("   Amount: %s BTC (%d satoshis)\n", util.FormatBTC(utxo.Value), int64(utxo.Value))

		if verbose {
			fmt.Printf("   Confirmations: %d\n", utxo.Confirmations)
			fmt.Printf("   BlockHeight: %d\n", utxo.Height)
		}
		if showScript {
			fmt.Printf("   Script: %s\n", utxo.ScriptHex())
		}

		fmt.Println()
	}

	total := wallet.TotalValue(utxos)
	fmt.Printf("Total: %s BTC (%d satoshis) in %d UTXOs\n", util.FormatBTC(total), int64(total), len(utxos))
	return nil
}

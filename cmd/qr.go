package cmd

import (
	"fmt"

	"github.com/bitcoinrtx/MultiCurrencyWallet/util"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// QRCmd returns the cobra command for QR code generation.
func QRCmd() *cobra.Command {
	var amountStr string
	var label string
	var fgColor string
	var outFile string

	cmd := &cobra.Command{
		Use:   "qr <address>",
		Short: "Display QR code for a Bitcoin address",
		Long: `Display a QR code of the given Bitcoin address in the console. With --amount
or --label the code holds a BIP21 payment URI instead of the bare address.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			address := args[0]
			params, err := networkParams()
			if err != nil {
				return err
			}
			if err := util.ValidateBitcoinAddress(address, params); err != nil {
				return err
			}

			var amount btcutil.Amount
			if amountStr != "" {
				if amount, err = parseSatoshis(amountStr); err != nil {
					return err
				}
			}

			data := address
			if amount > 0 || label != "" {
				data = util.PaymentURI(address, amount, label)
			}

			if outFile != "" {
				if err := util.SaveQRCodeToFile(data, outFile, 256); err != nil {
					return fmt.Errorf("error saving QR code: %v", err)
				}
				fmt.Printf("QR code saved to %s\n", outFile)
				return nil
			}

			util.DisplayColoredQRCodeInConsole(data, "", fgColor)
			green := color.New(color.FgGreen).SprintFunc()
			fmt.Println(green(data))
			return nil
		},
	}

	cmd.Flags().StringVarP(&amountStr, "amount", "a", "", "Requested amount (with unit e.g., 0.01btc, 10000sat)")
	cmd.Flags().StringVarP(&label, "label", "l", "", "Payment label")
	cmd.Flags().StringVar(&fgColor, "color", "white", "QR code color (black, red, green, yellow, blue, magenta, cyan, white)")
	cmd.Flags().StringVarP(&outFile, "output", "o", "", "Write a PNG to this file instead of the console")
	return cmd
}

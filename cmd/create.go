package cmd

import (
	"fmt"

	"github.com/bitcoinrtx/MultiCurrencyWallet/util"
	"github.com/bitcoinrtx/MultiCurrencyWallet/wallet"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// CreateCmd returns the create command
func CreateCmd() *cobra.Command {
	var index uint32
	var path string
	var showQR bool
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new Bitcoin wallet",
		Long: `Generate a new 12 word BIP39 mnemonic and derive its legacy (P2PKH) wallet.
Nothing is stored: write the mnemonic down, it is the only way to restore the wallet.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			params, err := networkParams()
			if err != nil {
				return err
			}

			mnemonic, err := wallet.GenerateMnemonic()
			if err != nil {
				return fmt.Errorf("error generating mnemonic: %v", err)
			}
			id, err := wallet.WalletFromMnemonic(mnemonic, index, path, params)
			if err != nil {
				return fmt.Errorf("error deriving wallet: %v", err)
			}

			if jsonOutput {
				return printJSON(map[string]string{
					"mnemonic":       mnemonic,
					"privateKey":     id.PrivateKey.String(),
					"address":        id.Address,
					"derivationPath": id.DerivationPath,
					"network":        params.Name,
				})
			}

			red := color.New(color.FgRed, color.Bold).SprintFunc()
			green := color.New(color.FgGreen).SprintFunc()
			fmt.Println(red("Keep the mnemonic and private key secret. Anyone holding them controls the funds."))
			fmt.Println()
			fmt.Printf("Mnemonic:        %s\n", mnemonic)
			fmt.Printf("Private Key:     %s\n", id.PrivateKey.String())
			fmt.Printf("Derivation Path: %s\n", id.DerivationPath)
			fmt.Printf("Network:         %s\n", params.Name)
			fmt.Printf("Address:         %s\n", green(id.Address))

			if showQR {
				fmt.Println()
				util.DisplayColoredQRCodeInConsole(id.Address, "Address QR Code:", "green")
			}
			return nil
		},
	}

	cmd.Flags().Uint32VarP(&index, "index", "i", 0, "Address index on the BIP44 account")
	cmd.Flags().StringVar(&path, "path", "", "Custom derivation path (overrides --index)")
	cmd.Flags().BoolVar(&showQR, "qr", false, "Display the address as a QR code")
	cmd.Flags().BoolVarP(&jsonOutput, "json", "j", false, "Output in JSON format")

	return cmd
}

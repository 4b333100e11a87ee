package cmd

import (
	"fmt"

	"github.com/bitcoinrtx/MultiCurrencyWallet/util"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// GetAddressCmd returns the address command
func GetAddressCmd() *cobra.Command {
	var showQR bool
	var showPrivateKey bool
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "address",
		Short: "Show the addresses of a wallet",
		Long: `Log in with a private key and/or mnemonic and show every address of the session,
its public key and whether funds still have to be swept to the mnemonic wallet.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := newWalletEnv(cmd.Context())
			if err != nil {
				return err
			}
			defer env.close()

			result, err := login(cmd, env.engine)
			if err != nil {
				return err
			}
			ids := result.Identities

			if jsonOutput {
				out := map[string]any{
					"addresses":   ids.Addresses(),
					"publicKey":   ids.MainPublicKey(),
					"swept":       ids.IsSwept(),
					"sweepReady":  result.SweepReady,
					"sweepTarget": ids.SweepTarget(),
				}
				if showPrivateKey {
					out["privateKey"] = ids.Primary.PrivateKey.String()
					if ids.Mnemonic != nil {
						out["mnemonicKey"] = ids.Mnemonic.PrivateKey.String()
					}
				}
				return printJSON(out)
			}

			green := color.New(color.FgGreen).SprintFunc()
			fmt.Printf("Network:    %s\n", env.engine.Params().Name)
			fmt.Printf("Public Key: %s\n", ids.MainPublicKey())
			fmt.Printf("Address:    %s (%s)\n", green(ids.Primary.Address), ids.Primary.Origin)
			if ids.Primary.DerivationPath != "" {
				fmt.Printf("Path:       %s\n", ids.Primary.DerivationPath)
			}
			if !ids.IsSwept() {
				fmt.Printf("Mnemonic:   %s (%s)\n", green(ids.Mnemonic.Address), ids.Mnemonic.DerivationPath)
				yellow := color.New(color.FgYellow).SprintFunc()
				fmt.Println(yellow("Funds on the primary address have not been swept yet. Run `sweep` to move them."))
			}
			if showPrivateKey {
				fmt.Printf("Private Key: %s\n", ids.Primary.PrivateKey.String())
				if ids.Mnemonic != nil && !ids.IsSwept() {
					fmt.Printf("Mnemonic Key: %s\n", ids.Mnemonic.PrivateKey.String())
				}
			}

			if showQR {
				fmt.Println()
				util.DisplayColoredQRCodeInConsole(ids.Addresses()[0], "Address QR Code:", "green")
			}
			return nil
		},
	}

	addLoginFlags(cmd)
	cmd.Flags().BoolVar(&showQR, "qr", false, "Display the receiving address as a QR code")
	cmd.Flags().BoolVar(&showPrivateKey, "show-private-key", false, "Also print the private keys")
	cmd.Flags().BoolVarP(&jsonOutput, "json", "j", false, "Output in JSON format")

	return cmd
}

package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/bitcoinrtx/MultiCurrencyWallet/wallet"
	"github.com/spf13/cobra"
)

// SignMessageCmd creates the message signing command
func SignMessageCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sign-message",
		Short: "Sign a Bitcoin message",
		Long: `Sign a text message with a WIF private key. The base64 signature can be
checked with bitcoin-cli verifymessage.`,
		Args: cobra.NoArgs,
		RunE: runSignMessage,
	}

	cmd.Flags().StringP("data", "d", "", "Message to sign")
	cmd.Flags().String("data-file", "", "Path to file containing message to sign")
	cmd.Flags().String("wif", "", "WIF private key to sign with (prompted when omitted)")
	cmd.MarkFlagsMutuallyExclusive("data", "data-file")

	return cmd
}

func runSignMessage(cmd *cobra.Command, args []string) error {
	message, _ := cmd.Flags().GetString("data")
	dataFile, _ := cmd.Flags().GetString("data-file")
	wif, _ := cmd.Flags().GetString("wif")

	if dataFile != "" {
		data, err := os.ReadFile(dataFile)
		if err != nil {
			return fmt.Errorf("error reading message file: %v", err)
		}
		message = strings.TrimRight(string(data), "\r\n")
	}
	if message == "" {
		return fmt.Errorf("either --data or --data-file must be specified")
	}

	if wif == "" {
		var err error
		wif, err = readSecret("Please Enter \033[1;31mWIF\033[0m Private Key: ")
		if err != nil {
			return err
		}
	}

	signature, err := wallet.SignMessage(message, wif)
	if err != nil {
		return err
	}

	params, err := networkParams()
	if err == nil {
		if id, err := wallet.Authenticate(wif, params); err == nil {
			fmt.Printf("Address:   %s\n", id.Address)
		}
	}
	fmt.Printf("Message:   %s\n", message)
	fmt.Printf("Signature: %s\n", signature)
	return nil
}

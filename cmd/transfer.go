package cmd

import (
	"fmt"

	"github.com/bitcoinrtx/MultiCurrencyWallet/util"
	"github.com/bitcoinrtx/MultiCurrencyWallet/wallet"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// TransferBTCCmd creates the BTC transfer command
func TransferBTCCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "transfer",
		Short: "Transfer BTC to another address",
		Long: `Transfer Bitcoin to another Bitcoin address. Every unspent output of the
sending address is spent; change above the dust limit returns to it.`,
		Args: cobra.NoArgs,
		RunE: runTransferBTC,
	}

	cmd.Flags().StringP("amount", "a", "", "Amount of BTC to transfer (with unit e.g., 1.0btc, 10000sat)")
	cmd.Flags().StringP("to", "t", "", "Destination Bitcoin address")
	cmd.Flags().String("from", "", "Address to send from (defaults to the primary wallet)")
	cmd.Flags().String("fee", "", "Network fee (with unit e.g., 2000sat), overrides the estimate")
	cmd.Flags().String("fee-preference", "normal", "Fee preference when estimating (fastest, fast, normal, economic, minimum)")
	cmd.Flags().BoolP("yes", "y", false, "Automatically confirm the transaction")
	cmd.Flags().Bool("encode-only", false, "Only encode and sign the transaction, do not broadcast")
	addLoginFlags(cmd)

	cmd.MarkFlagRequired("amount")
	cmd.MarkFlagRequired("to")

	return cmd
}

func runTransferBTC(cmd *cobra.Command, args []string) error {
	amountStr, _ := cmd.Flags().GetString("amount")
	toAddress, _ := cmd.Flags().GetString("to")
	fromAddress, _ := cmd.Flags().GetString("from")
	feeStr, _ := cmd.Flags().GetString("fee")
	preference, _ := cmd.Flags().GetString("fee-preference")
	autoConfirm, _ := cmd.Flags().GetBool("yes")
	encodeOnly, _ := cmd.Flags().GetBool("encode-only")

	amount, err := util.ParseAmount(amountStr)
	if err != nil {
		return err
	}
	speed, err := wallet.ParseSpeed(preference)
	if err != nil {
		return err
	}
	var feeOverride *btcutil.Amount
	if feeStr != "" {
		fee, err := parseSatoshis(feeStr)
		if err != nil {
			return fmt.Errorf("invalid --fee: %v", err)
		}
		feeOverride = &fee
	}

	env, err := newWalletEnv(cmd.Context())
	if err != nil {
		return err
	}
	defer env.close()

	if err := util.ValidateBitcoinAddress(toAddress, env.engine.Params()); err != nil {
		return fmt.Errorf("invalid destination address: %v", err)
	}

	result, err := login(cmd, env.engine)
	if err != nil {
		return err
	}
	if fromAddress == "" {
		fromAddress = result.Identities.Primary.Address
	}

	req := wallet.TxRequest{
		From:        fromAddress,
		To:          toAddress,
		Amount:      amount,
		FeeOverride: feeOverride,
		Speed:       speed,
	}
	return signAndSubmit(cmd, env, result.Identities, req, autoConfirm, encodeOnly)
}

// signAndSubmit builds req, shows it, and broadcasts it once confirmed.
func signAndSubmit(cmd *cobra.Command, env *walletEnv, ids *wallet.Identities, req wallet.TxRequest, autoConfirm, encodeOnly bool) error {
	signed, err := env.engine.BuildAndSign(cmd.Context(), ids, req)
	if err != nil {
		return fmt.Errorf("failed to build transaction: %v", err)
	}

	if encodeOnly {
		fmt.Printf("Raw Transaction: %s\n", signed.Hex)
		return nil
	}

	fmt.Println("Transaction Details:")
	fmt.Printf("From: %s\n", req.From)
	for _, out := range signed.Outputs {
		switch out.Kind {
		case wallet.OutputDestination:
			fmt.Printf("To: %s\n", out.Address)
			fmt.Printf("Amount: %s BTC (%d satoshis)\n", util.FormatBTC(out.Value), int64(out.Value))
		case wallet.OutputChange:
			fmt.Printf("Change: %s BTC (%d satoshis) to %s\n", util.FormatBTC(out.Value), int64(out.Value), out.Address)
		case wallet.OutputServiceFee:
			fmt.Printf("Service Fee: %s BTC (%d satoshis) to %s\n", util.FormatBTC(out.Value), int64(out.Value), out.Address)
		}
	}
	fmt.Printf("Network Fee: %s BTC (%d satoshis)\n", util.FormatBTC(signed.Fees.NetworkFee), int64(signed.Fees.NetworkFee))
	fmt.Printf("Inputs: %d\n", len(signed.Inputs))
	fmt.Printf("Transaction ID: %s\n", signed.TxID)

	if !autoConfirm && !confirm("Confirm transaction?") {
		fmt.Println("Transaction cancelled.")
		return nil
	}

	fmt.Println("Broadcasting transaction...")
	res, err := env.engine.Submit(cmd.Context(), signed)
	if err != nil {
		fmt.Printf("Raw Transaction: %s\n", signed.Hex)
		fmt.Println("You can manually broadcast the transaction hex above.")
		return fmt.Errorf("error broadcasting transaction: %v", err)
	}

	green := color.New(color.FgGreen).SprintFunc()
	fmt.Println(green("Transaction successfully broadcast!"))
	fmt.Printf("Transaction ID: %s\n", res.TxID)
	if link := env.engine.LinkToInfo(res.TxID); link != "" {
		fmt.Printf("Track your transaction: %s\n", link)
	}
	return nil
}

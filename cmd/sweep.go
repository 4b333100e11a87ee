package cmd

import (
	"fmt"

	"github.com/bitcoinrtx/MultiCurrencyWallet/wallet"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/spf13/cobra"
)

// SweepCmd returns the sweep command
func SweepCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Move the primary wallet's funds to the mnemonic wallet",
		Long: `Spend every unspent output of the primary (imported) wallet into the wallet
derived from the mnemonic. Requires --wif together with --mnemonic or --mnemonic-key.`,
		Args: cobra.NoArgs,
		RunE: runSweep,
	}

	cmd.Flags().String("fee", "", "Network fee (with unit e.g., 2000sat), overrides the estimate")
	cmd.Flags().String("fee-preference", "normal", "Fee preference when estimating (fastest, fast, normal, economic, minimum)")
	cmd.Flags().BoolP("yes", "y", false, "Automatically confirm the transaction")
	cmd.Flags().Bool("encode-only", false, "Only encode and sign the transaction, do not broadcast")
	addLoginFlags(cmd)

	return cmd
}

func runSweep(cmd *cobra.Command, args []string) error {
	feeStr, _ := cmd.Flags().GetString("fee")
	preference, _ := cmd.Flags().GetString("fee-preference")
	autoConfirm, _ := cmd.Flags().GetBool("yes")
	encodeOnly, _ := cmd.Flags().GetBool("encode-only")

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

	result, err := login(cmd, env.engine)
	if err != nil {
		return err
	}
	if result.Identities.IsSwept() {
		fmt.Println("Nothing to sweep: the wallet already uses its mnemonic address.")
		return nil
	}

	req, err := env.engine.SweepRequest(cmd.Context(), result.Identities, feeOverride, speed)
	if err != nil {
		return err
	}
	fmt.Printf("Sweeping %s BTC from %s to %s\n", req.Amount.StringFixed(8), req.From, req.To)
	return signAndSubmit(cmd, env, result.Identities, req, autoConfirm, encodeOnly)
}

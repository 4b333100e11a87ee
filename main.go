package main

import (
	"fmt"
	"os"
	"os/signal"

	"github.com/bitcoinrtx/MultiCurrencyWallet/cmd"
	"github.com/bitcoinrtx/MultiCurrencyWallet/logger"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"
)

// Set by ldflags during build
var version = "0.1.0"

func main() {
	rootCmd := &cobra.Command{
		Use:   "btc-wallet",
		Short: "Bitcoin CLI Wallet - a non-custodial wallet for Bitcoin",
		Long: `A non-custodial command-line wallet for Bitcoin. Keys never leave this machine;
balances, history and broadcasts go through public explorer APIs.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Help()
		},
	}

	rootCmd.PersistentFlags().BoolP("version", "v", false, "Show version information")
	rootCmd.PersistentFlags().Bool("testnet", false, "Use Bitcoin testnet instead of the configured network")
	rootCmd.PersistentPreRunE = func(c *cobra.Command, args []string) error {
		if versionFlag, _ := c.Flags().GetBool("version"); versionFlag {
			fmt.Printf("btc-wallet version %s\n", version)
			os.Exit(0)
		}
		if err := cmd.InitConfig(); err != nil {
			return err
		}
		if testnet, _ := c.Flags().GetBool("testnet"); testnet {
			viper.Set("network", "testnet")
		}
		return logger.Init(viper.GetString("log.env"), viper.GetString("log.level"))
	}

	rootCmd.AddCommand(cmd.ConfigCmd())
	rootCmd.AddCommand(cmd.CreateCmd())
	rootCmd.AddCommand(cmd.GetAddressCmd())
	rootCmd.AddCommand(cmd.BalanceCmd())
	rootCmd.AddCommand(cmd.UtxoCmd())
	rootCmd.AddCommand(cmd.FeeCmd())
	rootCmd.AddCommand(cmd.TransferBTCCmd())
	rootCmd.AddCommand(cmd.SweepCmd())
	rootCmd.AddCommand(cmd.BroadcastCmd())
	rootCmd.AddCommand(cmd.HistoryCmd())
	rootCmd.AddCommand(cmd.TxCmd())
	rootCmd.AddCommand(cmd.SignMessageCmd())
	rootCmd.AddCommand(cmd.CheckWithdrawCmd())
	rootCmd.AddCommand(cmd.QRCmd())

	// Restore the terminal if Ctrl+C lands inside a hidden prompt
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		oldState, err := term.GetState(fd)
		if err != nil {
			fmt.Printf("\nError getting terminal state: %v\n", err)
			os.Exit(1)
		}
		defer term.Restore(fd, oldState)
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt)
		go func() {
			<-c
			term.Restore(fd, oldState)
			fmt.Println("Ctrl+C pressed, exiting...")
			os.Exit(130)
		}()
	}

	err := rootCmd.Execute()
	if werr := cmd.WriteMetrics(); werr != nil {
		fmt.Fprintf(os.Stderr, "Error writing metrics: %v\n", werr)
	}
	logger.Sync()
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

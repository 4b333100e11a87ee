package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/bitcoinrtx/MultiCurrencyWallet/logger"
	"github.com/bitcoinrtx/MultiCurrencyWallet/metrics"
	"github.com/bitcoinrtx/MultiCurrencyWallet/provider"
	"github.com/bitcoinrtx/MultiCurrencyWallet/util"
	"github.com/bitcoinrtx/MultiCurrencyWallet/wallet"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/fatih/color"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"golang.org/x/term"
)

const cachePrefix = "btc-wallet:"

// walletMetrics collects counters for the whole process run.
var walletMetrics = metrics.New()

// WriteMetrics dumps the collected counters to metrics.textfile, if set.
func WriteMetrics() error {
	return walletMetrics.WriteTextfile(viper.GetString(keyMetricsTextfile))
}

// walletEnv is the engine and its collaborators built from the config.
type walletEnv struct {
	engine *wallet.Engine
	fees   *wallet.MempoolFeeEstimator
	close  func()
}

func networkParams() (*chaincfg.Params, error) {
	return util.NetworkParamsByName(viper.GetString(keyNetwork))
}

// configURL returns the configured value of key or the network default.
func configURL(key string, params *chaincfg.Params, mainnet, testnet string) string {
	if u := viper.GetString(key); u != "" {
		return u
	}
	if util.IsTestnet(params) {
		return testnet
	}
	return mainnet
}

func adminFeePolicy(params *chaincfg.Params) (*wallet.AdminFeePolicy, error) {
	address := viper.GetString(keyAdminFeeAddress)
	if address == "" {
		return nil, nil
	}
	if err := util.ValidateBitcoinAddress(address, params); err != nil {
		return nil, fmt.Errorf("invalid %s: %v", keyAdminFeeAddress, err)
	}
	percent := decimal.Zero
	if p := viper.GetString(keyAdminFeePercent); p != "" {
		var err error
		percent, err = decimal.NewFromString(p)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %v", keyAdminFeePercent, err)
		}
	}
	return &wallet.AdminFeePolicy{
		Percent: percent,
		Minimum: btcutil.Amount(viper.GetInt64(keyAdminFeeMin)),
		Address: address,
	}, nil
}

func newResponseCache(ctx context.Context) (provider.ResponseCache, func(), error) {
	redisURL := viper.GetString(keyRedisURL)
	if redisURL == "" {
		ttl := viper.GetDuration(keyCacheTTL)
		return provider.NewMemoryCache(ttl, 2*ttl), func() {}, nil
	}
	rc, err := provider.NewRedisCacheFromURL(ctx, redisURL, cachePrefix)
	if err != nil {
		return nil, nil, fmt.Errorf("error connecting to redis cache: %v", err)
	}
	return rc, func() { _ = rc.Close() }, nil
}

// newWalletEnv wires the engine from the configuration.
func newWalletEnv(ctx context.Context) (*walletEnv, error) {
	params, err := networkParams()
	if err != nil {
		return nil, err
	}
	policy, err := adminFeePolicy(params)
	if err != nil {
		return nil, err
	}
	cache, closeCache, err := newResponseCache(ctx)
	if err != nil {
		return nil, err
	}

	log := logger.Named("wallet")
	timeout := viper.GetDuration(keyTimeout)
	clientOpts := func(extra ...provider.ClientOption) []provider.ClientOption {
		return append([]provider.ClientOption{
			provider.WithTimeout(timeout),
			provider.WithCache(cache),
			provider.WithLogger(logger.Named("provider")),
			provider.WithMetrics(walletMetrics),
		}, extra...)
	}

	coarse := provider.NewClient("bitcore",
		configURL(keyCoarseURL, params, util.DEFAULT_COARSE_API_URL, util.DEFAULT_COARSE_TESTNET_API_URL),
		clientOpts()...)
	rich := provider.NewClient("blockcypher",
		configURL(keyRichURL, params, util.DEFAULT_RICH_API_URL, util.DEFAULT_RICH_TESTNET_API_URL),
		clientOpts(provider.WithQuery("token", viper.GetString(keyRichToken)))...)
	feeProvider := provider.NewClient("mempool",
		configURL(keyFeeURL, params, util.DEFAULT_FEE_API_URL, util.DEFAULT_FEE_TESTNET_API_URL),
		clientOpts()...)

	fees := wallet.NewMempoolFeeEstimator(feeProvider, log)
	engine := wallet.NewEngine(params, coarse, rich,
		wallet.WithFeeEstimator(fees),
		wallet.WithAdminFee(policy),
		wallet.WithExplorerURL(configURL(keyExplorerURL, params, util.DEFAULT_EXPLORER_URL, util.DEFAULT_EXPLORER_TESTNET_URL)),
		wallet.WithCacheTTL(viper.GetDuration(keyCacheTTL)),
		wallet.WithLogger(log),
		wallet.WithMetrics(walletMetrics),
	)

	log.Debug("wallet engine ready",
		zap.String("network", params.Name),
		zap.Bool("admin_fee", engine.AdminFee() != nil),
		zap.Bool("redis_cache", viper.GetString(keyRedisURL) != ""))
	return &walletEnv{engine: engine, fees: fees, close: closeCache}, nil
}

// addLoginFlags registers the key context flags of commands that sign.
func addLoginFlags(cmd *cobra.Command) {
	cmd.Flags().String("wif", "", "WIF private key of the primary wallet (prompted when omitted)")
	cmd.Flags().String("mnemonic", "", "BIP39 mnemonic, or - if it was declined")
	cmd.Flags().String("mnemonic-key", "", "WIF previously derived from the mnemonic")
}

func hasLoginFlags(cmd *cobra.Command) bool {
	for _, name := range []string{"wif", "mnemonic", "mnemonic-key"} {
		if cmd.Flags().Changed(name) {
			return true
		}
	}
	return false
}

// login authenticates from the login flags, prompting for a key on a
// terminal when none were given.
func login(cmd *cobra.Command, engine *wallet.Engine) (*wallet.LoginResult, error) {
	wif, _ := cmd.Flags().GetString("wif")
	mnemonic, _ := cmd.Flags().GetString("mnemonic")
	mnemonicKey, _ := cmd.Flags().GetString("mnemonic-key")

	if wif == "" && mnemonic == "" && term.IsTerminal(int(os.Stdin.Fd())) {
		var err error
		wif, err = readSecret("Please Enter \033[1;31mWIF\033[0m Private Key (empty to use a mnemonic): ")
		if err != nil {
			return nil, err
		}
		if wif == "" {
			mnemonic, err = readSecret("Please Enter \033[1;31mMnemonic\033[0m (empty to generate one): ")
			if err != nil {
				return nil, err
			}
		}
	}

	result, err := engine.Login(wallet.LoginParams{PrivateKey: wif, Mnemonic: mnemonic, MnemonicKey: mnemonicKey})
	if err != nil {
		return nil, err
	}
	if result.GeneratedMnemonic != "" {
		yellow := color.New(color.FgYellow, color.Bold).SprintFunc()
		fmt.Println(yellow("A new mnemonic was generated. Write it down, it is the only way to restore this wallet:"))
		fmt.Println(yellow(result.GeneratedMnemonic))
		fmt.Println()
	}
	return result, nil
}

// readSecret reads a line from the terminal without echo.
func readSecret(prompt string) (string, error) {
	fmt.Print(prompt)
	secret, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("error reading input: %v", err)
	}
	return strings.TrimSpace(string(secret)), nil
}

// confirm asks a y/N question.
func confirm(prompt string) bool {
	fmt.Print(prompt + " (y/N): ")
	var response string
	fmt.Scanln(&response)
	return strings.EqualFold(response, "y") || strings.EqualFold(response, "yes")
}

func printJSON(v any) error {
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to format JSON output: %v", err)
	}
	fmt.Println(string(jsonData))
	return nil
}

// parseSatoshis parses an amount with an optional unit into satoshis.
func parseSatoshis(s string) (btcutil.Amount, error) {
	amount, err := util.ParseAmount(s)
	if err != nil {
		return 0, err
	}
	return util.ToSubunits(amount), nil
}

package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/bitcoinrtx/MultiCurrencyWallet/util"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Configuration keys
const (
	keyNetwork         = "network"
	keyCoarseURL       = "providers.coarse.url"
	keyRichURL         = "providers.rich.url"
	keyRichToken       = "providers.rich.token"
	keyFeeURL          = "providers.fee.url"
	keyTimeout         = "providers.timeout"
	keyCacheTTL        = "cache.ttl"
	keyRedisURL        = "cache.redis_url"
	keyAdminFeePercent = "admin_fee.percent"
	keyAdminFeeMin     = "admin_fee.min"
	keyAdminFeeAddress = "admin_fee.address"
	keyExplorerURL     = "explorer.url"
	keyLogEnv          = "log.env"
	keyLogLevel        = "log.level"
	keyMetricsTextfile = "metrics.textfile"
)

// knownKeys are the keys `config set` accepts.
var knownKeys = []string{
	keyNetwork, keyCoarseURL, keyRichURL, keyRichToken, keyFeeURL, keyTimeout,
	keyCacheTTL, keyRedisURL, keyAdminFeePercent, keyAdminFeeMin, keyAdminFeeAddress,
	keyExplorerURL, keyLogEnv, keyLogLevel, keyMetricsTextfile,
}

func configPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, util.ConfigDir, util.ConfigFile)
}

// InitConfig loads ~/.btc-wallet/config.json and BTC_WALLET_* variables.
// A missing config file is not an error.
func InitConfig() error {
	path := configPath()
	viper.SetConfigFile(path)
	viper.SetConfigType("json")
	viper.SetEnvPrefix(util.EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetDefault(keyNetwork, "mainnet")
	viper.SetDefault(keyTimeout, 15*time.Second)
	viper.SetDefault(keyCacheTTL, 5*time.Second)
	viper.SetDefault(keyLogEnv, "development")
	viper.SetDefault(keyLogLevel, "warn")

	if err := viper.ReadInConfig(); err != nil {
		if _, statErr := os.Stat(path); os.IsNotExist(statErr) {
			return nil
		}
		return fmt.Errorf("error reading config %s: %v", path, err)
	}
	return nil
}

// ConfigCmd returns the config command
func ConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage wallet configuration",
		Long:  fmt.Sprintf("Read and write settings in ~/%s/%s.", util.ConfigDir, util.ConfigFile),
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := strings.ToLower(args[0])
			if !isKnownKey(key) {
				return fmt.Errorf("unknown config key %q, known keys: %s", key, strings.Join(knownKeys, ", "))
			}
			if key == keyNetwork {
				if _, err := util.NetworkParamsByName(args[1]); err != nil {
					return err
				}
			}
			viper.Set(key, args[1])
			if err := writeConfig(); err != nil {
				return err
			}
			fmt.Printf("%s = %s\n", key, args[1])
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "get <key>",
		Short: "Show a configuration value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := strings.ToLower(args[0])
			if !viper.IsSet(key) {
				return fmt.Errorf("%s is not set", key)
			}
			fmt.Println(viper.Get(key))
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "Show every configuration value",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			keys := viper.AllKeys()
			sort.Strings(keys)
			settings := make(map[string]any, len(keys))
			for _, k := range keys {
				settings[k] = viper.Get(k)
			}
			jsonData, err := json.MarshalIndent(settings, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to format JSON output: %v", err)
			}
			fmt.Println(string(jsonData))
			return nil
		},
	})

	return cmd
}

func isKnownKey(key string) bool {
	for _, k := range knownKeys {
		if k == key {
			return true
		}
	}
	return false
}

func writeConfig() error {
	path := configPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("error creating config directory: %v", err)
	}
	if err := viper.WriteConfigAs(path); err != nil {
		return fmt.Errorf("error writing config: %v", err)
	}
	return nil
}

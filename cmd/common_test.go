package cmd

import (
	"testing"

	"github.com/bitcoinrtx/MultiCurrencyWallet/util"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigURL(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	assert.Equal(t, util.DEFAULT_COARSE_API_URL,
		configURL(keyCoarseURL, &chaincfg.MainNetParams, util.DEFAULT_COARSE_API_URL, util.DEFAULT_COARSE_TESTNET_API_URL))
	assert.Equal(t, util.DEFAULT_COARSE_TESTNET_API_URL,
		configURL(keyCoarseURL, &chaincfg.TestNet3Params, util.DEFAULT_COARSE_API_URL, util.DEFAULT_COARSE_TESTNET_API_URL))

	viper.Set(keyCoarseURL, "http://localhost:3000/api/BTC/regtest")
	assert.Equal(t, "http://localhost:3000/api/BTC/regtest",
		configURL(keyCoarseURL, &chaincfg.MainNetParams, util.DEFAULT_COARSE_API_URL, util.DEFAULT_COARSE_TESTNET_API_URL))
}

func TestAdminFeePolicy(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	policy, err := adminFeePolicy(&chaincfg.MainNetParams)
	require.NoError(t, err)
	assert.Nil(t, policy)

	viper.Set(keyAdminFeeAddress, "1BgGZ9tcN4rm9KBzDn7KprQz87SZ26SAMH")
	viper.Set(keyAdminFeePercent, "0.5")
	viper.Set(keyAdminFeeMin, 5000)
	policy, err = adminFeePolicy(&chaincfg.MainNetParams)
	require.NoError(t, err)
	require.NotNil(t, policy)
	assert.Equal(t, "0.5", policy.Percent.String())
	assert.Equal(t, btcutil.Amount(5000), policy.Minimum)

	// mainnet address on testnet
	_, err = adminFeePolicy(&chaincfg.TestNet3Params)
	assert.Error(t, err)

	viper.Set(keyAdminFeePercent, "lots")
	_, err = adminFeePolicy(&chaincfg.MainNetParams)
	assert.Error(t, err)
}

func TestParseSatoshis(t *testing.T) {
	sats, err := parseSatoshis("2000sat")
	require.NoError(t, err)
	assert.Equal(t, btcutil.Amount(2000), sats)

	sats, err = parseSatoshis("0.0001")
	require.NoError(t, err)
	assert.Equal(t, btcutil.Amount(10000), sats)

	_, err = parseSatoshis("0.5sat")
	assert.Error(t, err)
}

func TestIsKnownKey(t *testing.T) {
	assert.True(t, isKnownKey(keyRedisURL))
	assert.False(t, isKnownKey("rpc"))
}

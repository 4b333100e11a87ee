package wallet

import (
	"strings"
	"testing"

	"github.com/btcsuite/btcd/btcutil/hdkeychain"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tyler-smith/go-bip39"
)

func TestGenerateMnemonic(t *testing.T) {
	words, err := GenerateMnemonic()
	require.NoError(t, err)
	assert.Len(t, strings.Fields(words), 12)
	assert.True(t, ValidateMnemonic(words))

	other, err := GenerateMnemonic()
	require.NoError(t, err)
	assert.NotEqual(t, words, other)
}

func TestValidateMnemonic(t *testing.T) {
	assert.True(t, ValidateMnemonic(abandonMnemonic))
	assert.True(t, ValidateMnemonic("  ABANDON abandon abandon abandon abandon abandon\tabandon abandon abandon abandon abandon about "))
	assert.False(t, ValidateMnemonic("abandon abandon abandon"))
	assert.False(t, ValidateMnemonic(strings.Replace(abandonMnemonic, "about", "abandon", 1)))
	assert.Equal(t, abandonMnemonic, NormalizeMnemonic(" Abandon  abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon ABOUT"))
}

func TestWalletFromMnemonic(t *testing.T) {
	id, err := WalletFromMnemonic(abandonMnemonic, 0, "", testParams)
	require.NoError(t, err)
	assert.Equal(t, "1LqBGSKuX5yYUonjxT5qGfpUsXKYYWeabA", id.Address)
	assert.Equal(t, "m/44'/0'/0'/0/0", id.DerivationPath)
	assert.Equal(t, OriginMnemonic, id.Origin)
	assert.True(t, id.PrivateKey.CompressPubKey)

	// explicit path equals index
	byPath, err := WalletFromMnemonic(abandonMnemonic, 7, "m/44'/0'/0'/0/0", testParams)
	require.NoError(t, err)
	assert.Equal(t, id.Address, byPath.Address)

	second, err := WalletFromMnemonic(abandonMnemonic, 1, "", testParams)
	require.NoError(t, err)
	assert.NotEqual(t, id.Address, second.Address)

	testnet, err := WalletFromMnemonic(abandonMnemonic, 0, "", &chaincfg.TestNet3Params)
	require.NoError(t, err)
	assert.Equal(t, "m/44'/1'/0'/0/0", testnet.DerivationPath)
	assert.Contains(t, "mn", testnet.Address[:1])

	_, err = WalletFromMnemonic("abandon abandon", 0, "", testParams)
	assert.ErrorIs(t, err, ErrInvalidMnemonic)
}

func TestSweepKeyFromMnemonic(t *testing.T) {
	wif, err := SweepKeyFromMnemonic(abandonMnemonic, "", testParams)
	require.NoError(t, err)

	id, err := Authenticate(wif, testParams)
	require.NoError(t, err)
	assert.Equal(t, "1LqBGSKuX5yYUonjxT5qGfpUsXKYYWeabA", id.Address)
}

func TestDeriveKeyFromPath(t *testing.T) {
	seed := bip39.NewSeed(abandonMnemonic, "")
	master, err := hdkeychain.NewMaster(seed, testParams)
	require.NoError(t, err)

	apostrophe, err := DeriveKeyFromPath(master, "m/44'/0'/0'/0/0")
	require.NoError(t, err)
	h, err := DeriveKeyFromPath(master, "m/44h/0h/0h/0/0")
	require.NoError(t, err)
	assert.Equal(t, apostrophe.String(), h.String())

	root, err := DeriveKeyFromPath(master, "m")
	require.NoError(t, err)
	assert.Equal(t, master.String(), root.String())

	for _, bad := range []string{"m/44'/x/0", "m/44'//0", "m/4294967296"} {
		_, err := DeriveKeyFromPath(master, bad)
		assert.Error(t, err, bad)
	}
}

package wallet

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/btcutil/hdkeychain"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/tyler-smith/go-bip39"
)

// BIP44Purpose is the derivation purpose of legacy P2PKH wallets.
const BIP44Purpose = uint32(44)

// mnemonicEntropyBits yields a 12 word phrase.
const mnemonicEntropyBits = 128

// GenerateMnemonic creates a fresh 12 word BIP39 phrase.
func GenerateMnemonic() (string, error) {
	entropy, err := bip39.NewEntropy(mnemonicEntropyBits)
	if err != nil {
		return "", fmt.Errorf("wallet: generating entropy: %w", err)
	}
	return bip39.NewMnemonic(entropy)
}

// NormalizeMnemonic lower-cases a phrase and collapses its whitespace.
func NormalizeMnemonic(words string) string {
	return strings.Join(strings.Fields(strings.ToLower(words)), " ")
}

// ValidateMnemonic reports whether words form a valid BIP39 phrase after
// normalization.
func ValidateMnemonic(words string) bool {
	return bip39.IsMnemonicValid(NormalizeMnemonic(words))
}

// DerivationPath returns the BIP44 path of the wallet at index.
func DerivationPath(params *chaincfg.Params, index uint32) string {
	return fmt.Sprintf("m/%d'/%d'/0'/0/%d", BIP44Purpose, params.HDCoinType, index)
}

// WalletFromMnemonic derives the identity at index, or at path when path is
// not empty.
func WalletFromMnemonic(words string, index uint32, path string, params *chaincfg.Params) (*Identity, error) {
	normalized := NormalizeMnemonic(words)
	seed, err := bip39.NewSeedWithErrorChecking(normalized, "")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMnemonic, err)
	}

	masterKey, err := hdkeychain.NewMaster(seed, params)
	if err != nil {
		return nil, fmt.Errorf("wallet: creating master key: %w", err)
	}

	if path == "" {
		path = DerivationPath(params, index)
	}
	extendedKey, err := DeriveKeyFromPath(masterKey, path)
	if err != nil {
		return nil, err
	}

	privateKey, err := extendedKey.ECPrivKey()
	if err != nil {
		return nil, fmt.Errorf("wallet: extracting private key: %w", err)
	}

	wif, err := btcutil.NewWIF(privateKey, params, true)
	if err != nil {
		return nil, fmt.Errorf("wallet: encoding private key: %w", err)
	}
	return NewIdentity(wif, OriginMnemonic, path, params)
}

// SweepKeyFromMnemonic returns the WIF of the mnemonic wallet funds should
// be swept to. The caller persists it as the session's mnemonic key.
func SweepKeyFromMnemonic(words, path string, params *chaincfg.Params) (string, error) {
	id, err := WalletFromMnemonic(words, 0, path, params)
	if err != nil {
		return "", err
	}
	return id.PrivateKey.String(), nil
}

// DeriveKeyFromPath walks an "m/44'/0'/0'/0/0" style path. Hardened
// components end in ' or h.
func DeriveKeyFromPath(masterKey *hdkeychain.ExtendedKey, path string) (*hdkeychain.ExtendedKey, error) {
	path = strings.TrimPrefix(strings.TrimSpace(path), "m/")
	if path == "" || path == "m" {
		return masterKey, nil
	}

	currentKey := masterKey
	for _, part := range strings.Split(path, "/") {
		hardened := strings.HasSuffix(part, "'") || strings.HasSuffix(part, "h")
		idx, err := strconv.ParseUint(strings.TrimRight(part, "'h"), 10, 31)
		if err != nil {
			return nil, fmt.Errorf("wallet: invalid path component %q: %w", part, err)
		}

		childIdx := uint32(idx)
		if hardened {
			childIdx += hdkeychain.HardenedKeyStart
		}

		currentKey, err = currentKey.Derive(childIdx)
		if err != nil {
			return nil, fmt.Errorf("wallet: deriving key at %s: %w", part, err)
		}
	}

	return currentKey, nil
}

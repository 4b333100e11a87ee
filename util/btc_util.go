package util

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/txscript"
)

// DustThreshold is the change value at or below which no change output is
// created. The remainder goes to miners.
const DustThreshold = btcutil.Amount(546)

// Script size constants for different address types
const (
	// P2PKHPkScriptSize is the size of a P2PKH output script
	P2PKHPkScriptSize = 25
	// P2WPKHPkScriptSize is the size of a native P2WPKH output script
	P2WPKHPkScriptSize = 22
)

// GetNetworkParams returns the appropriate network parameters based on testnet flag
func GetNetworkParams(useTestnet bool) *chaincfg.Params {
	if useTestnet {
		return &chaincfg.TestNet3Params
	}
	return &chaincfg.MainNetParams
}

// NetworkParamsByName maps a configured network name to chain parameters.
func NetworkParamsByName(name string) (*chaincfg.Params, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "mainnet", "main", "bitcoin":
		return &chaincfg.MainNetParams, nil
	case "testnet", "testnet3", "test":
		return &chaincfg.TestNet3Params, nil
	default:
		return nil, fmt.Errorf("unknown network %q", name)
	}
}

// IsTestnet reports whether params describe a test network.
func IsTestnet(params *chaincfg.Params) bool {
	return params.Net != chaincfg.MainNetParams.Net
}

// ValidateBitcoinAddress validates a Bitcoin address format against network parameters
func ValidateBitcoinAddress(address string, params *chaincfg.Params) error {
	addr, err := btcutil.DecodeAddress(address, params)
	if err != nil {
		return fmt.Errorf("invalid Bitcoin address: %v", err)
	}
	if !addr.IsForNet(params) {
		return fmt.Errorf("invalid Bitcoin address: %s is not for %s", address, params.Name)
	}
	return nil
}

// AddressIsCorrect reports whether address decodes for the given network.
func AddressIsCorrect(address string, params *chaincfg.Params) bool {
	return ValidateBitcoinAddress(address, params) == nil
}

// PayToAddress builds the output script paying to address.
func PayToAddress(address string, params *chaincfg.Params) ([]byte, error) {
	addr, err := btcutil.DecodeAddress(address, params)
	if err != nil {
		return nil, fmt.Errorf("invalid address %s: %v", address, err)
	}
	if !addr.IsForNet(params) {
		return nil, fmt.Errorf("address %s is not for %s", address, params.Name)
	}
	script, err := txscript.PayToAddrScript(addr)
	if err != nil {
		return nil, fmt.Errorf("failed to create output script: %v", err)
	}
	return script, nil
}

// AddressFromScript returns the single address an output script pays to.
// Scripts without exactly one standard address return an empty string.
func AddressFromScript(script []byte, params *chaincfg.Params) string {
	_, addrs, _, err := txscript.ExtractPkScriptAddrs(script, params)
	if err != nil || len(addrs) != 1 {
		return ""
	}
	return addrs[0].EncodeAddress()
}

// AddressFromScriptHex is AddressFromScript for a hex encoded script.
func AddressFromScriptHex(scriptHex string, params *chaincfg.Params) string {
	script, err := hex.DecodeString(scriptHex)
	if err != nil {
		return ""
	}
	return AddressFromScript(script, params)
}

// P2PKHAddress derives the legacy pay-to-pubkey-hash address of a public key.
func P2PKHAddress(pubKey *btcec.PublicKey, compressed bool, params *chaincfg.Params) (string, error) {
	serialized := pubKey.SerializeUncompressed()
	if compressed {
		serialized = pubKey.SerializeCompressed()
	}
	addr, err := btcutil.NewAddressPubKeyHash(btcutil.Hash160(serialized), params)
	if err != nil {
		return "", fmt.Errorf("failed to create P2PKH address: %v", err)
	}
	return addr.EncodeAddress(), nil
}

// SameAddress compares two addresses case-insensitively.
func SameAddress(a, b string) bool {
	return a != "" && strings.EqualFold(a, b)
}

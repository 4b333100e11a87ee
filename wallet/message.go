package wallet

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/btcec/v2/ecdsa"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
)

const messageMagic = "Bitcoin Signed Message:\n"

// MessageHash is the double SHA256 of a message in the Bitcoin signed
// message format.
func MessageHash(message string) []byte {
	var buf bytes.Buffer
	// WriteVarString only fails on writer errors, which bytes.Buffer never returns
	_ = wire.WriteVarString(&buf, 0, messageMagic)
	_ = wire.WriteVarString(&buf, 0, message)
	return chainhash.DoubleHashB(buf.Bytes())
}

// SignMessage signs message with a WIF key and returns the base64 compact
// signature, verifiable with bitcoin-cli verifymessage. Keys of any network
// are accepted.
func SignMessage(message, privateKey string) (string, error) {
	wif, err := btcutil.DecodeWIF(strings.TrimSpace(privateKey))
	if err != nil {
		return "", fmt.Errorf("wallet: decoding private key: %w", err)
	}
	sig := ecdsa.SignCompact(wif.PrivKey, MessageHash(message), wif.CompressPubKey)
	return base64.StdEncoding.EncodeToString(sig), nil
}

package wallet

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/bitcoinrtx/MultiCurrencyWallet/util"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
)

// Origin records how an identity's key came to exist.
type Origin string

const (
	OriginImported Origin = "imported"
	OriginMnemonic Origin = "mnemonic"
)

// Identity is one spendable key and its P2PKH address.
type Identity struct {
	Address        string
	PublicKey      []byte
	PrivateKey     *btcutil.WIF
	Origin         Origin
	DerivationPath string
}

// NewIdentity derives the public key and address of wif. The key must
// belong to params' network.
func NewIdentity(wif *btcutil.WIF, origin Origin, path string, params *chaincfg.Params) (*Identity, error) {
	if !wif.IsForNet(params) {
		return nil, fmt.Errorf("wallet: private key is not for %s", params.Name)
	}

	address, err := util.P2PKHAddress(wif.PrivKey.PubKey(), wif.CompressPubKey, params)
	if err != nil {
		return nil, err
	}

	return &Identity{
		Address:        address,
		PublicKey:      wif.SerializePubKey(),
		PrivateKey:     wif,
		Origin:         origin,
		DerivationPath: path,
	}, nil
}

// Authenticate builds an imported identity from a WIF encoded private key.
func Authenticate(privateKey string, params *chaincfg.Params) (*Identity, error) {
	wif, err := btcutil.DecodeWIF(strings.TrimSpace(privateKey))
	if err != nil {
		return nil, fmt.Errorf("wallet: decoding private key: %w", err)
	}
	return NewIdentity(wif, OriginImported, "", params)
}

// Identities are the keys authenticated for one session. They are set once
// at login and only read afterwards.
type Identities struct {
	Primary  *Identity
	Mnemonic *Identity
}

// ResolvePrivateKey returns the key of the first identity whose address
// matches, checking the primary identity first.
func (ids *Identities) ResolvePrivateKey(address string) (*btcutil.WIF, error) {
	id, ok := ids.ByAddress(address)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSigner, address)
	}
	return id.PrivateKey, nil
}

// ByAddress finds the identity for address, case-insensitively.
func (ids *Identities) ByAddress(address string) (*Identity, bool) {
	if ids == nil {
		return nil, false
	}
	for _, id := range []*Identity{ids.Primary, ids.Mnemonic} {
		if id != nil && util.SameAddress(id.Address, address) {
			return id, true
		}
	}
	return nil, false
}

// Owns reports whether address belongs to this session.
func (ids *Identities) Owns(address string) bool {
	_, ok := ids.ByAddress(address)
	return ok
}

// Addresses lists the session's distinct addresses, the mnemonic wallet
// first when it differs from the primary one.
func (ids *Identities) Addresses() []string {
	if ids == nil || ids.Primary == nil {
		return nil
	}
	var out []string
	if ids.Mnemonic != nil && !util.SameAddress(ids.Mnemonic.Address, ids.Primary.Address) {
		out = append(out, ids.Mnemonic.Address)
	}
	return append(out, ids.Primary.Address)
}

// MainPublicKey is the primary identity's public key in hex.
func (ids *Identities) MainPublicKey() string {
	if ids == nil || ids.Primary == nil {
		return ""
	}
	return hex.EncodeToString(ids.Primary.PublicKey)
}

package wallet

import (
	"context"
	"encoding/hex"
	"fmt"
	"net/url"
	"time"

	"github.com/bitcoinrtx/MultiCurrencyWallet/provider"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

// Unspent is a spendable output owned by Address.
type Unspent struct {
	Address       string         `json:"address"`
	TxID          string         `json:"txid"`
	Vout          uint32         `json:"vout"`
	Value         btcutil.Amount `json:"value"`
	Confirmations int64          `json:"confirmations"`
	Height        int64          `json:"height"`
	Script        []byte         `json:"-"`
}

// ScriptHex is the locking script in hex.
func (u Unspent) ScriptHex() string {
	return hex.EncodeToString(u.Script)
}

// bitcoreCoin is one entry of GET /address/{addr}?unspent=true.
type bitcoreCoin struct {
	Address       string `json:"address"`
	MintTxid      string `json:"mintTxid"`
	MintIndex     uint32 `json:"mintIndex"`
	MintHeight    int64  `json:"mintHeight"`
	Value         int64  `json:"value"`
	Script        string `json:"script"`
	Confirmations int64  `json:"confirmations"`
}

// FetchUnspents lists address's unspent outputs, reusing a response for a
// few seconds.
func (e *Engine) FetchUnspents(ctx context.Context, address string) ([]Unspent, error) {
	return e.fetchUnspents(ctx, address, e.cacheTTL)
}

func (e *Engine) fetchUnspents(ctx context.Context, address string, ttl time.Duration) ([]Unspent, error) {
	var coins []bitcoreCoin
	path := fmt.Sprintf("/address/%s?unspent=true", url.PathEscape(address))
	opts := provider.Options{CheckStatus: provider.IsArray, CacheTTL: ttl}
	if err := e.coarse.Get(ctx, path, opts, &coins); err != nil {
		return nil, unavailable(e.coarse, err)
	}

	unspents := make([]Unspent, 0, len(coins))
	for _, c := range coins {
		if _, err := chainhash.NewHashFromStr(c.MintTxid); err != nil {
			return nil, fmt.Errorf("%w: %s: bad txid %q", ErrProviderUnavailable, e.coarse.Name(), c.MintTxid)
		}
		script, err := hex.DecodeString(c.Script)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: bad script for %s:%d", ErrProviderUnavailable, e.coarse.Name(), c.MintTxid, c.MintIndex)
		}
		owner := c.Address
		if owner == "" {
			owner = address
		}
		unspents = append(unspents, Unspent{
			Address:       owner,
			TxID:          c.MintTxid,
			Vout:          c.MintIndex,
			Value:         btcutil.Amount(c.Value),
			Confirmations: c.Confirmations,
			Height:        c.MintHeight,
			Script:        script,
		})
	}
	return unspents, nil
}

// TotalValue sums the value of unspents.
func TotalValue(unspents []Unspent) btcutil.Amount {
	var total btcutil.Amount
	for _, u := range unspents {
		total += u.Value
	}
	return total
}

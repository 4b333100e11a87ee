package wallet

import (
	"context"
	"net/url"

	"github.com/bitcoinrtx/MultiCurrencyWallet/provider"
	"github.com/shopspring/decimal"
)

// Withdrawal is the most recent spend from a script address.
type Withdrawal struct {
	Address string          `json:"address"`
	TxID    string          `json:"txid"`
	Amount  decimal.Decimal `json:"amount"`
}

type insightTxs struct {
	Txs []struct {
		Txid     string          `json:"txid"`
		ValueOut decimal.Decimal `json:"valueOut"`
		Vout     []struct {
			ScriptPubKey struct {
				Addresses []string `json:"addresses"`
			} `json:"scriptPubKey"`
		} `json:"vout"`
	} `json:"txs"`
}

// CheckWithdraw reports the latest withdrawal from scriptAddress. A script
// address with only its funding transaction has none and returns nil.
func (e *Engine) CheckWithdraw(ctx context.Context, scriptAddress string) (*Withdrawal, error) {
	var resp insightTxs
	path := "/txs/?address=" + url.QueryEscape(scriptAddress)
	if err := e.coarse.Get(ctx, path, provider.Options{CheckStatus: provider.HasField("txs")}, &resp); err != nil {
		return nil, unavailable(e.coarse, err)
	}

	if len(resp.Txs) <= 1 || len(resp.Txs[0].Vout) == 0 {
		return nil, nil
	}
	latest := resp.Txs[0]
	addresses := latest.Vout[0].ScriptPubKey.Addresses
	if len(addresses) == 0 {
		return nil, nil
	}
	return &Withdrawal{
		Address: addresses[0],
		TxID:    latest.Txid,
		Amount:  latest.ValueOut,
	}, nil
}

package wallet

import (
	"context"
	"fmt"
	"net/url"

	"github.com/bitcoinrtx/MultiCurrencyWallet/provider"
	"github.com/bitcoinrtx/MultiCurrencyWallet/util"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/shopspring/decimal"
)

// TxDetail is a single transaction as shown to the user.
type TxDetail struct {
	ID              string          `json:"id"`
	Amount          decimal.Decimal `json:"amount"`
	AfterBalance    decimal.Decimal `json:"afterBalance"`
	MinerFee        decimal.Decimal `json:"minerFee"`
	AdminFee        decimal.Decimal `json:"adminFee"`
	SenderAddress   string          `json:"senderAddress"`
	ReceiverAddress string          `json:"receiverAddress"`
	Confirmations   int64           `json:"confirmations"`
	Confirmed       bool            `json:"confirmed"`
}

type bitcoreTx struct {
	Txid          string `json:"txid"`
	Fee           int64  `json:"fee"`
	Confirmations int64  `json:"confirmations"`
}

type bitcoreCoinRef struct {
	Address string `json:"address"`
	Value   int64  `json:"value"`
}

type bitcoreTxCoins struct {
	Inputs  []bitcoreCoinRef `json:"inputs"`
	Outputs []bitcoreCoinRef `json:"outputs"`
}

// GetTransactionDetail resolves fee, counterparties and amounts of txid.
// The first output is taken as the transfer. The admin fee is the first
// output at the fee address whose value differs from the transfer, so a
// change output of the same value is misread as a fee.
func (e *Engine) GetTransactionDetail(ctx context.Context, txid string) (*TxDetail, error) {
	var tx bitcoreTx
	base := "/tx/" + url.PathEscape(txid)
	if err := e.coarse.Get(ctx, base, provider.Options{CheckStatus: provider.HasField("fee"), CacheTTL: e.cacheTTL}, &tx); err != nil {
		return nil, unavailable(e.coarse, err)
	}

	var coins bitcoreTxCoins
	if err := e.coarse.Get(ctx, base+"/coins", provider.Options{CheckStatus: provider.HasField("outputs"), CacheTTL: e.cacheTTL}, &coins); err != nil {
		return nil, fmt.Errorf("%w: coins of %s: %w", ErrReconciliation, txid, err)
	}
	if len(coins.Inputs) == 0 || len(coins.Outputs) == 0 {
		return nil, fmt.Errorf("%w: %s has no coin level inputs or outputs", ErrReconciliation, txid)
	}

	amount := coins.Outputs[0].Value
	detail := &TxDetail{
		ID:              txid,
		Amount:          util.ToDecimal(btcutil.Amount(amount)),
		MinerFee:        util.ToDecimal(btcutil.Amount(tx.Fee)),
		AdminFee:        decimal.Zero,
		AfterBalance:    decimal.Zero,
		SenderAddress:   coins.Inputs[0].Address,
		ReceiverAddress: coins.Outputs[0].Address,
		Confirmations:   tx.Confirmations,
		Confirmed:       tx.Confirmations > 0,
	}
	if len(coins.Inputs) > 1 {
		detail.AfterBalance = util.ToDecimal(btcutil.Amount(coins.Inputs[1].Value))
	}

	if e.policy != nil {
		for _, out := range coins.Outputs {
			if util.SameAddress(out.Address, e.policy.Address) && out.Value != amount {
				detail.AdminFee = util.ToDecimal(btcutil.Amount(out.Value))
				break
			}
		}
	}
	return detail, nil
}

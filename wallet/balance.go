package wallet

import (
	"context"
	"fmt"
	"net/url"

	"github.com/bitcoinrtx/MultiCurrencyWallet/provider"
	"github.com/bitcoinrtx/MultiCurrencyWallet/util"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// BalanceStatus separates a fetched zero from an unknown balance.
type BalanceStatus string

const (
	BalanceFetched BalanceStatus = "fetched"
	BalanceUnknown BalanceStatus = "unknown"
)

// Balance of one address. When Status is BalanceUnknown the amounts are
// zero and Err holds the cause.
type Balance struct {
	Address     string          `json:"address"`
	Confirmed   decimal.Decimal `json:"balance"`
	Unconfirmed decimal.Decimal `json:"unconfirmedBalance"`
	Status      BalanceStatus   `json:"status"`
	Err         error           `json:"-"`
}

// FetchBalance queries the coarse provider and fails on any provider error.
func (e *Engine) FetchBalance(ctx context.Context, address string) (*Balance, error) {
	var resp struct {
		Balance     int64 `json:"balance"`
		Unconfirmed int64 `json:"unconfirmed"`
	}
	path := fmt.Sprintf("/address/%s/balance", url.PathEscape(address))
	opts := provider.Options{CheckStatus: provider.HasField("balance"), CacheTTL: e.cacheTTL}
	if err := e.coarse.Get(ctx, path, opts, &resp); err != nil {
		return nil, unavailable(e.coarse, err)
	}
	return &Balance{
		Address:     address,
		Confirmed:   util.ToDecimal(btcutil.Amount(resp.Balance)),
		Unconfirmed: util.ToDecimal(btcutil.Amount(resp.Unconfirmed)),
		Status:      BalanceFetched,
	}, nil
}

// GetBalance never fails: a provider error yields BalanceUnknown.
func (e *Engine) GetBalance(ctx context.Context, address string) Balance {
	b, err := e.FetchBalance(ctx, address)
	if err != nil {
		e.log.Warn("balance unknown", zap.String("address", address), zap.Error(err))
		return Balance{
			Address:     address,
			Confirmed:   decimal.Zero,
			Unconfirmed: decimal.Zero,
			Status:      BalanceUnknown,
			Err:         err,
		}
	}
	return *b
}

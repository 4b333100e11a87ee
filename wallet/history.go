package wallet

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/bitcoinrtx/MultiCurrencyWallet/provider"
	"github.com/bitcoinrtx/MultiCurrencyWallet/util"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Direction of a transaction relative to the queried address.
type Direction string

const (
	DirectionIn   Direction = "in"
	DirectionOut  Direction = "out"
	DirectionSelf Direction = "self"
)

// TxRecord is one history entry. Reduced records come from a provider that
// cannot tell direction; their Direction is empty and Value is what the
// address received in that transaction.
type TxRecord struct {
	ID            string          `json:"id"`
	Address       string          `json:"address"`
	Direction     Direction       `json:"direction,omitempty"`
	Value         decimal.Decimal `json:"value"`
	Confirmations int64           `json:"confirmations"`
	Time          time.Time       `json:"time"`
	CanEdit       bool            `json:"canEdit"`
	Reduced       bool            `json:"reduced,omitempty"`
}

// cypherAddressFull is GET /addrs/{addr}/full.
type cypherAddressFull struct {
	Txs []cypherTx `json:"txs"`
}

type cypherTx struct {
	Hash          string `json:"hash"`
	Fees          int64  `json:"fees"`
	Confirmations int64  `json:"confirmations"`
	Confirmed     string `json:"confirmed"`
	Received      string `json:"received"`
	Inputs        []struct {
		Addresses []string `json:"addresses"`
	} `json:"inputs"`
	Outputs []struct {
		Script    string   `json:"script"`
		Value     int64    `json:"value"`
		Addresses []string `json:"addresses"`
	} `json:"outputs"`
}

// ListTransactions returns address's history from the rich provider, or
// reduced records from the coarse one when that fails.
func (e *Engine) ListTransactions(ctx context.Context, ids *Identities, address string) ([]TxRecord, error) {
	chain := Chain[[]TxRecord]{
		Steps: []Step[[]TxRecord]{
			{Name: e.rich.Name(), Run: func(ctx context.Context) ([]TxRecord, error) {
				return e.richHistory(ctx, ids, address)
			}},
			{Name: e.coarse.Name(), Run: func(ctx context.Context) ([]TxRecord, error) {
				return e.coarseHistory(ctx, ids, address)
			}},
		},
		OnFailure: func(name string, err error) {
			e.log.Warn("history fetch failed", zap.String("provider", name), zap.String("address", address), zap.Error(err))
		},
	}

	records, _, err := chain.Run(ctx)
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (e *Engine) richHistory(ctx context.Context, ids *Identities, address string) ([]TxRecord, error) {
	var resp cypherAddressFull
	path := fmt.Sprintf("/addrs/%s/full", url.PathEscape(address))
	opts := provider.Options{CheckStatus: provider.HasField("txs"), CacheTTL: e.cacheTTL}
	if err := e.rich.Get(ctx, path, opts, &resp); err != nil {
		return nil, unavailable(e.rich, err)
	}

	canEdit := ids.Owns(address)
	records := make([]TxRecord, 0, len(resp.Txs))
	for _, tx := range resp.Txs {
		record, err := e.reconcile(tx, address)
		if err != nil {
			return nil, err
		}
		record.CanEdit = canEdit
		records = append(records, record)
	}
	return records, nil
}

// reconcile infers direction: in unless the first input is address; self
// when outgoing and every output returns to address.
func (e *Engine) reconcile(tx cypherTx, address string) (TxRecord, error) {
	outputAddrs := make([]string, len(tx.Outputs))
	for i, out := range tx.Outputs {
		outputAddrs[i] = util.AddressFromScriptHex(out.Script, e.params)
		if outputAddrs[i] == "" && len(out.Addresses) == 1 {
			outputAddrs[i] = out.Addresses[0]
		}
	}

	direction := DirectionIn
	if len(tx.Inputs) > 0 && len(tx.Inputs[0].Addresses) > 0 && util.SameAddress(tx.Inputs[0].Addresses[0], address) {
		direction = DirectionOut
	}

	if direction == DirectionOut && len(outputAddrs) > 0 {
		self := true
		for _, a := range outputAddrs {
			if !util.SameAddress(a, address) {
				self = false
				break
			}
		}
		if self {
			direction = DirectionSelf
		}
	}

	record := TxRecord{
		ID:            tx.Hash,
		Address:       address,
		Direction:     direction,
		Confirmations: tx.Confirmations,
		Time:          txTime(tx),
	}

	if direction == DirectionSelf {
		record.Value = util.ToDecimal(btcutil.Amount(tx.Fees))
		return record, nil
	}

	for i, a := range outputAddrs {
		mine := util.SameAddress(a, address)
		if (direction == DirectionIn && mine) || (direction == DirectionOut && !mine) {
			record.Value = util.ToDecimal(btcutil.Amount(tx.Outputs[i].Value))
			return record, nil
		}
	}
	return TxRecord{}, fmt.Errorf("%w: %s has no %s output for %s", ErrReconciliation, tx.Hash, direction, address)
}

func txTime(tx cypherTx) time.Time {
	stamp := tx.Received
	if tx.Confirmations > 0 && tx.Confirmed != "" {
		stamp = tx.Confirmed
	}
	t, err := time.Parse(time.RFC3339Nano, stamp)
	if err != nil {
		return time.Time{}
	}
	return t
}

// bitcoreAddressCoin is one entry of GET /address/{addr}/txs.
type bitcoreAddressCoin struct {
	MintTxid      string `json:"mintTxid"`
	Value         int64  `json:"value"`
	Confirmations int64  `json:"confirmations"`
}

// coarseHistory yields reduced records: the provider lists coins, not
// transactions, so no direction can be inferred.
func (e *Engine) coarseHistory(ctx context.Context, ids *Identities, address string) ([]TxRecord, error) {
	var coins []bitcoreAddressCoin
	path := fmt.Sprintf("/address/%s/txs", url.PathEscape(address))
	opts := provider.Options{CheckStatus: provider.IsArray, CacheTTL: e.cacheTTL}
	if err := e.coarse.Get(ctx, path, opts, &coins); err != nil {
		return nil, unavailable(e.coarse, err)
	}

	canEdit := ids.Owns(address)
	index := make(map[string]int, len(coins))
	var records []TxRecord
	for _, c := range coins {
		if i, seen := index[c.MintTxid]; seen {
			records[i].Value = records[i].Value.Add(util.ToDecimal(btcutil.Amount(c.Value)))
			continue
		}
		index[c.MintTxid] = len(records)
		records = append(records, TxRecord{
			ID:            c.MintTxid,
			Address:       address,
			Value:         util.ToDecimal(btcutil.Amount(c.Value)),
			Confirmations: c.Confirmations,
			CanEdit:       canEdit,
			Reduced:       true,
		})
	}
	return records, nil
}

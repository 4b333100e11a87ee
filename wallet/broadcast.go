package wallet

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bitcoinrtx/MultiCurrencyWallet/metrics"
	"github.com/bitcoinrtx/MultiCurrencyWallet/provider"
	"go.uber.org/zap"
)

var errNoTxID = errors.New("provider returned no transaction id")

// Broadcaster submits a signed transaction and returns its id.
type Broadcaster interface {
	Name() string
	Broadcast(ctx context.Context, signedHex string) (string, error)
}

// BitcoreBroadcaster posts {"rawTx"} to /tx/send.
type BitcoreBroadcaster struct {
	Provider provider.DataProvider
}

func (b *BitcoreBroadcaster) Name() string { return b.Provider.Name() }

func (b *BitcoreBroadcaster) Broadcast(ctx context.Context, signedHex string) (string, error) {
	var resp struct {
		TxID string `json:"txid"`
	}
	body := map[string]string{"rawTx": signedHex}
	if err := b.Provider.Post(ctx, "/tx/send", body, provider.Options{}, &resp); err != nil {
		return "", err
	}
	if strings.TrimSpace(resp.TxID) == "" {
		return "", errNoTxID
	}
	return resp.TxID, nil
}

// BlockcypherBroadcaster posts {"tx"} to /txs/push.
type BlockcypherBroadcaster struct {
	Provider provider.DataProvider
}

func (b *BlockcypherBroadcaster) Name() string { return b.Provider.Name() }

func (b *BlockcypherBroadcaster) Broadcast(ctx context.Context, signedHex string) (string, error) {
	var resp struct {
		Tx struct {
			Hash string `json:"hash"`
		} `json:"tx"`
	}
	body := map[string]string{"tx": signedHex}
	if err := b.Provider.Post(ctx, "/txs/push", body, provider.Options{}, &resp); err != nil {
		return "", err
	}
	if strings.TrimSpace(resp.Tx.Hash) == "" {
		return "", errNoTxID
	}
	return resp.Tx.Hash, nil
}

// Router broadcasts through a primary provider with a single fallback.
type Router struct {
	primary   Broadcaster
	secondary Broadcaster
	log       *zap.Logger
	metrics   *metrics.WalletMetrics
}

// NewRouter creates a router. secondary may be nil.
func NewRouter(log *zap.Logger, m *metrics.WalletMetrics, primary, secondary Broadcaster) *Router {
	if log == nil {
		log = zap.NewNop()
	}
	return &Router{primary: primary, secondary: secondary, log: log, metrics: m}
}

// Broadcast submits signedHex to the primary provider, then once to the
// secondary if the primary fails or returns no id.
func (r *Router) Broadcast(ctx context.Context, signedHex string) (string, error) {
	chain := Chain[string]{
		OnFailure: func(name string, err error) {
			r.metrics.Broadcast(name, metrics.OutcomeError)
			r.log.Warn("broadcast attempt failed", zap.String("provider", name), zap.Error(err))
		},
	}
	for _, b := range []Broadcaster{r.primary, r.secondary} {
		if b == nil {
			continue
		}
		chain.Steps = append(chain.Steps, Step[string]{Name: b.Name(), Run: broadcastStep(b, signedHex)})
	}

	txid, name, err := chain.Run(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrBroadcastFailed, err)
	}
	r.metrics.Broadcast(name, metrics.OutcomeOK)
	r.log.Info("broadcast accepted", zap.String("provider", name), zap.String("txid", txid))
	return txid, nil
}

func broadcastStep(b Broadcaster, signedHex string) func(context.Context) (string, error) {
	return func(ctx context.Context) (string, error) {
		return b.Broadcast(ctx, signedHex)
	}
}

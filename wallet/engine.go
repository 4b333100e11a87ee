package wallet

import (
	"context"
	"fmt"
	"time"

	"github.com/bitcoinrtx/MultiCurrencyWallet/metrics"
	"github.com/bitcoinrtx/MultiCurrencyWallet/provider"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"go.uber.org/zap"
)

// DefaultCacheTTL is how long read-only provider responses are reused.
const DefaultCacheTTL = 5 * time.Second

// Engine runs wallet operations against two explorer providers: a coarse
// Bitcore-style API (unspents, balances, details, primary broadcast) and a
// rich Blockcypher-style API (raw transactions, full history, fallback
// broadcast). It keeps no session state; identities are passed per call.
//
// Callers must not start a second Send for an address before the previous
// one has been broadcast.
type Engine struct {
	params      *chaincfg.Params
	coarse      provider.DataProvider
	rich        provider.DataProvider
	fees        FeeEstimator
	policy      *AdminFeePolicy
	router      *Router
	explorerURL string
	cacheTTL    time.Duration
	log         *zap.Logger
	metrics     *metrics.WalletMetrics
}

// Option configures an Engine.
type Option func(*Engine)

func WithFeeEstimator(f FeeEstimator) Option {
	return func(e *Engine) { e.fees = f }
}

// WithAdminFee enables the service fee. A nil or disabled policy turns it off.
func WithAdminFee(p *AdminFeePolicy) Option {
	return func(e *Engine) {
		if p.Enabled() {
			e.policy = p
		} else {
			e.policy = nil
		}
	}
}

// WithExplorerURL sets the transaction link format; %s is the txid.
func WithExplorerURL(format string) Option {
	return func(e *Engine) { e.explorerURL = format }
}

func WithCacheTTL(d time.Duration) Option {
	return func(e *Engine) { e.cacheTTL = d }
}

func WithLogger(log *zap.Logger) Option {
	return func(e *Engine) { e.log = log }
}

func WithMetrics(m *metrics.WalletMetrics) Option {
	return func(e *Engine) { e.metrics = m }
}

// NewEngine creates an engine for params' network.
func NewEngine(params *chaincfg.Params, coarse, rich provider.DataProvider, opts ...Option) *Engine {
	e := &Engine{
		params:   params,
		coarse:   coarse,
		rich:     rich,
		cacheTTL: DefaultCacheTTL,
		log:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.fees == nil {
		e.fees = NewMempoolFeeEstimator(nil, e.log)
	}
	e.router = NewRouter(e.log, e.metrics,
		&BitcoreBroadcaster{Provider: coarse},
		&BlockcypherBroadcaster{Provider: rich},
	)
	return e
}

// Params returns the engine's network.
func (e *Engine) Params() *chaincfg.Params { return e.params }

// AdminFee returns the active service fee policy, or nil.
func (e *Engine) AdminFee() *AdminFeePolicy { return e.policy }

// Login authenticates a session on the engine's network.
func (e *Engine) Login(p LoginParams) (*LoginResult, error) {
	return Login(p, e.params, e.log)
}

// Broadcast submits a signed transaction through the provider chain.
func (e *Engine) Broadcast(ctx context.Context, signedHex string) (string, error) {
	return e.router.Broadcast(ctx, signedHex)
}

// SendResult is a broadcast transaction.
type SendResult struct {
	TxID string
	Tx   *SignedTx
}

// Send builds, signs and broadcasts req. It only succeeds when a provider
// returned a transaction id.
func (e *Engine) Send(ctx context.Context, ids *Identities, req TxRequest) (*SendResult, error) {
	tx, err := e.BuildAndSign(ctx, ids, req)
	if err != nil {
		return nil, err
	}
	return e.Submit(ctx, tx)
}

// Submit broadcasts a transaction made by BuildAndSign and records the send.
func (e *Engine) Submit(ctx context.Context, tx *SignedTx) (*SendResult, error) {
	if tx == nil || len(tx.Outputs) == 0 {
		return nil, fmt.Errorf("%w: nothing to submit", ErrInvalidRequest)
	}
	dest := tx.Outputs[0]

	txid, err := e.router.Broadcast(ctx, tx.Hex)
	if err != nil {
		e.log.Error("send failed", zap.String("txid", tx.TxID), zap.String("to", dest.Address), zap.Error(err))
		return nil, err
	}
	if txid != tx.TxID {
		e.log.Warn("provider returned a different txid",
			zap.String("local", tx.TxID), zap.String("provider", txid))
	}

	e.metrics.Sent(int64(dest.Value), int64(tx.Fees.ServiceFee))
	e.log.Info("transaction sent",
		zap.String("txid", txid),
		zap.String("to", dest.Address),
		zap.Int64("amount", int64(dest.Value)),
		zap.Int64("network_fee", int64(tx.Fees.NetworkFee)),
		zap.Int64("service_fee", int64(tx.Fees.ServiceFee)),
		zap.Int("inputs", len(tx.Inputs)))

	return &SendResult{TxID: txid, Tx: tx}, nil
}

// LinkToInfo is the explorer URL of txid, or "" when none is configured.
func (e *Engine) LinkToInfo(txid string) string {
	if e.explorerURL == "" || txid == "" {
		return ""
	}
	return fmt.Sprintf(e.explorerURL, txid)
}

// EstimateNetworkFee asks the configured estimator for the fee of a send
// spending inputs outputs.
func (e *Engine) EstimateNetworkFee(ctx context.Context, speed Speed, inputs int) (btcutil.Amount, error) {
	return e.fees.EstimateNetworkFee(ctx, speed, inputs)
}

func unavailable(p provider.DataProvider, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrProviderUnavailable, p.Name(), err)
}

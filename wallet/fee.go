package wallet

import (
	"context"
	"fmt"
	"strings"

	"github.com/bitcoinrtx/MultiCurrencyWallet/provider"
	"github.com/bitcoinrtx/MultiCurrencyWallet/util"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/wire"
	"github.com/btcsuite/btcwallet/wallet/txsizes"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Speed represents different preferences for transaction confirmation speed
type Speed string

const (
	// SpeedFastest aims for inclusion in the next 1-2 blocks
	SpeedFastest Speed = "fastest"
	// SpeedFast aims for inclusion within ~3 blocks
	SpeedFast Speed = "fast"
	// SpeedNormal aims for inclusion within ~6 blocks
	SpeedNormal Speed = "normal"
	// SpeedEconomic aims for inclusion within ~144 blocks
	SpeedEconomic Speed = "economic"
	// SpeedMinimum uses the absolute minimum relay fee
	SpeedMinimum Speed = "minimum"
)

// ParseSpeed accepts a speed name; empty means normal.
func ParseSpeed(s string) (Speed, error) {
	switch speed := Speed(strings.ToLower(strings.TrimSpace(s))); speed {
	case "":
		return SpeedNormal, nil
	case SpeedFastest, SpeedFast, SpeedNormal, SpeedEconomic, SpeedMinimum:
		return speed, nil
	default:
		return "", fmt.Errorf("unknown fee preference %q", s)
	}
}

// FeeRecommendation represents the fee recommendations from mempool.space API
type FeeRecommendation struct {
	FastestFee  uint64 `json:"fastestFee"`  // sat/vB, 1-2 blocks
	HalfHourFee uint64 `json:"halfHourFee"` // sat/vB, ~3 blocks
	HourFee     uint64 `json:"hourFee"`     // sat/vB, ~6 blocks
	EconomyFee  uint64 `json:"economyFee"`  // sat/vB, ~144 blocks
	MinimumFee  uint64 `json:"minimumFee"`  // sat/vB, minimum relay fee
}

// DefaultFeeRecommendation is used when no fee provider answers.
var DefaultFeeRecommendation = FeeRecommendation{
	FastestFee:  20,
	HalfHourFee: 10,
	HourFee:     5,
	EconomyFee:  3,
	MinimumFee:  1,
}

// Rate picks the sat/vB rate of speed.
func (r FeeRecommendation) Rate(speed Speed) uint64 {
	switch speed {
	case SpeedFastest:
		return r.FastestFee
	case SpeedFast:
		return r.HalfHourFee
	case SpeedEconomic:
		return r.EconomyFee
	case SpeedMinimum:
		return r.MinimumFee
	default:
		return r.HourFee
	}
}

// FeeEstimator prices the network fee of a send spending inputs outputs.
type FeeEstimator interface {
	EstimateNetworkFee(ctx context.Context, speed Speed, inputs int) (btcutil.Amount, error)
}

// TxSize is the serialized size of a P2PKH send spending inputs outputs,
// with a destination and a change output.
func TxSize(inputs int) int {
	if inputs < 1 {
		inputs = 1
	}
	dest := wire.NewTxOut(0, make([]byte, util.P2PKHPkScriptSize))
	return txsizes.EstimateSerializeSize(inputs, []*wire.TxOut{dest}, true)
}

// TypicalTxSize is the serialized size of a one-input P2PKH send with change.
func TypicalTxSize() int {
	return TxSize(1)
}

// MempoolFeeEstimator prices fees from mempool.space style recommendations.
type MempoolFeeEstimator struct {
	provider provider.DataProvider
	log      *zap.Logger
}

// NewMempoolFeeEstimator creates an estimator. A nil provider always uses
// DefaultFeeRecommendation.
func NewMempoolFeeEstimator(p provider.DataProvider, log *zap.Logger) *MempoolFeeEstimator {
	if log == nil {
		log = zap.NewNop()
	}
	return &MempoolFeeEstimator{provider: p, log: log}
}

// Recommendation fetches the current fee tiers.
func (m *MempoolFeeEstimator) Recommendation(ctx context.Context) (*FeeRecommendation, error) {
	if m.provider == nil {
		return nil, fmt.Errorf("%w: no fee provider configured", ErrProviderUnavailable)
	}
	var rec FeeRecommendation
	opts := provider.Options{CheckStatus: provider.HasField("fastestFee")}
	if err := m.provider.Get(ctx, "/v1/fees/recommended", opts, &rec); err != nil {
		return nil, unavailable(m.provider, err)
	}
	return &rec, nil
}

// FeeRate returns the sat/vB rate for speed, falling back to the defaults
// when the provider fails.
func (m *MempoolFeeEstimator) FeeRate(ctx context.Context, speed Speed) uint64 {
	rec, err := m.Recommendation(ctx)
	if err != nil {
		m.log.Warn("could not fetch fee recommendations, using defaults", zap.Error(err))
		rec = &DefaultFeeRecommendation
	}
	rate := rec.Rate(speed)
	if rate == 0 {
		rate = DefaultFeeRecommendation.MinimumFee
	}
	return rate
}

func (m *MempoolFeeEstimator) EstimateNetworkFee(ctx context.Context, speed Speed, inputs int) (btcutil.Amount, error) {
	rate := m.FeeRate(ctx, speed)
	return btcutil.Amount(rate) * btcutil.Amount(TxSize(inputs)), nil
}

// AdminFeePolicy is the optional service fee charged on every send.
type AdminFeePolicy struct {
	// Percent of the sent amount, e.g. 0.5 for half a percent.
	Percent decimal.Decimal
	// Minimum fee in satoshis.
	Minimum btcutil.Amount
	// Address collects the fee.
	Address string
}

// Enabled reports whether the policy charges anything.
func (p *AdminFeePolicy) Enabled() bool {
	return p != nil && p.Address != "" && (p.Percent.IsPositive() || p.Minimum > 0)
}

// ComputeServiceFee is max(minimum, amount*percent/100) in satoshis,
// truncated. It is zero without an enabled policy.
func ComputeServiceFee(policy *AdminFeePolicy, amount decimal.Decimal) btcutil.Amount {
	if !policy.Enabled() {
		return 0
	}
	fromAmount := util.ToSubunits(amount.Mul(policy.Percent).Div(decimal.NewFromInt(100)))
	if fromAmount < policy.Minimum {
		return policy.Minimum
	}
	return fromAmount
}

// FeeQuote is the fee pair of one send attempt.
type FeeQuote struct {
	NetworkFee btcutil.Amount `json:"networkFee"`
	ServiceFee btcutil.Amount `json:"serviceFee"`
}

// Total is the sum of both fees.
func (q FeeQuote) Total() btcutil.Amount {
	return q.NetworkFee + q.ServiceFee
}

// QuoteFees prices a send of amount spending inputs outputs. override, when
// set, replaces the network fee estimate.
func (e *Engine) QuoteFees(ctx context.Context, amount decimal.Decimal, override *btcutil.Amount, speed Speed, inputs int) (FeeQuote, error) {
	quote := FeeQuote{ServiceFee: ComputeServiceFee(e.policy, amount)}
	if override != nil {
		quote.NetworkFee = *override
		return quote, nil
	}

	fee, err := e.fees.EstimateNetworkFee(ctx, speed, inputs)
	if err != nil {
		return FeeQuote{}, err
	}
	quote.NetworkFee = fee
	return quote, nil
}

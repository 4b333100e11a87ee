package wallet

import (
	"context"
	"errors"
	"testing"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeServiceFee(t *testing.T) {
	policy := &AdminFeePolicy{
		Percent: decimal.NewFromInt(1),
		Minimum: 5000,
		Address: "1BgGZ9tcN4rm9KBzDn7KprQz87SZ26SAMH",
	}

	tests := []struct {
		amount string
		want   btcutil.Amount
	}{
		{"0.0001", 5000},
		{"0.005", 5000},
		{"0.006", 6000},
		{"1", 1000000},
		{"0.12345678", 123456},
	}
	for _, tt := range tests {
		t.Run(tt.amount, func(t *testing.T) {
			assert.Equal(t, tt.want, ComputeServiceFee(policy, decimal.RequireFromString(tt.amount)))
		})
	}
}

func TestComputeServiceFee_Monotonic(t *testing.T) {
	policy := &AdminFeePolicy{Percent: decimal.RequireFromString("0.5"), Minimum: 1000, Address: "addr"}

	prev := btcutil.Amount(0)
	for sats := int64(0); sats <= 2000000; sats += 12345 {
		fee := ComputeServiceFee(policy, decimal.New(sats, -8))
		assert.GreaterOrEqual(t, fee, prev)
		assert.GreaterOrEqual(t, fee, policy.Minimum)
		prev = fee
	}
}

func TestComputeServiceFee_Disabled(t *testing.T) {
	amount := decimal.NewFromInt(1)
	assert.Zero(t, ComputeServiceFee(nil, amount))
	assert.Zero(t, ComputeServiceFee(&AdminFeePolicy{Percent: decimal.NewFromInt(1), Minimum: 5000}, amount))
	assert.Zero(t, ComputeServiceFee(&AdminFeePolicy{Address: "addr"}, amount))
}

func TestParseSpeed(t *testing.T) {
	speed, err := ParseSpeed("")
	require.NoError(t, err)
	assert.Equal(t, SpeedNormal, speed)

	speed, err = ParseSpeed(" Fastest ")
	require.NoError(t, err)
	assert.Equal(t, SpeedFastest, speed)

	_, err = ParseSpeed("ludicrous")
	assert.Error(t, err)
}

func TestMempoolFeeEstimator(t *testing.T) {
	p := newFakeProvider("mempool")
	p.serve("/v1/fees/recommended", `{"fastestFee":40,"halfHourFee":30,"hourFee":20,"economyFee":10,"minimumFee":2}`)
	est := NewMempoolFeeEstimator(p, nil)

	rec, err := est.Recommendation(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint64(30), rec.Rate(SpeedFast))

	assert.Equal(t, uint64(40), est.FeeRate(context.Background(), SpeedFastest))
	assert.Equal(t, uint64(20), est.FeeRate(context.Background(), SpeedNormal))
	assert.Equal(t, uint64(2), est.FeeRate(context.Background(), SpeedMinimum))

	fee, err := est.EstimateNetworkFee(context.Background(), SpeedEconomic, 1)
	require.NoError(t, err)
	assert.Equal(t, btcutil.Amount(10*TypicalTxSize()), fee)

	fee, err = est.EstimateNetworkFee(context.Background(), SpeedEconomic, 4)
	require.NoError(t, err)
	assert.Equal(t, btcutil.Amount(10*TxSize(4)), fee)
}

func TestMempoolFeeEstimator_FallsBackToDefaults(t *testing.T) {
	p := newFakeProvider("mempool")
	p.fail("/v1/fees/recommended", errors.New("connection refused"))
	est := NewMempoolFeeEstimator(p, nil)

	_, err := est.Recommendation(context.Background())
	assert.ErrorIs(t, err, ErrProviderUnavailable)
	assert.Equal(t, DefaultFeeRecommendation.HourFee, est.FeeRate(context.Background(), SpeedNormal))

	// body without the expected field
	bad := newFakeProvider("mempool")
	bad.serve("/v1/fees/recommended", `{"error":"rate limited"}`)
	assert.Equal(t, DefaultFeeRecommendation.FastestFee, NewMempoolFeeEstimator(bad, nil).FeeRate(context.Background(), SpeedFastest))

	none := NewMempoolFeeEstimator(nil, nil)
	fee, err := none.EstimateNetworkFee(context.Background(), SpeedMinimum, 1)
	require.NoError(t, err)
	assert.Equal(t, btcutil.Amount(TypicalTxSize()), fee)
}

func TestTypicalTxSize(t *testing.T) {
	// one P2PKH input, two P2PKH outputs
	assert.InDelta(t, 226, TypicalTxSize(), 2)
	assert.Equal(t, TypicalTxSize(), TxSize(0))
}

func TestTxSize_GrowsPerInput(t *testing.T) {
	perInput := TxSize(2) - TxSize(1)
	// one P2PKH input with a compressed key signature
	assert.InDelta(t, 148, perInput, 2)
	assert.Equal(t, TxSize(1)+9*perInput, TxSize(10))
}

func TestQuoteFees(t *testing.T) {
	policy := &AdminFeePolicy{Percent: decimal.NewFromInt(1), Minimum: 5000, Address: "addr"}
	e := NewEngine(testParams, newFakeProvider("bitcore"), newFakeProvider("blockcypher"),
		WithFeeEstimator(staticFee(2500)), WithAdminFee(policy))

	quote, err := e.QuoteFees(context.Background(), decimal.NewFromInt(1), nil, SpeedNormal, 1)
	require.NoError(t, err)
	assert.Equal(t, btcutil.Amount(2500), quote.NetworkFee)
	assert.Equal(t, btcutil.Amount(1000000), quote.ServiceFee)
	assert.Equal(t, btcutil.Amount(1002500), quote.Total())

	quote, err = e.QuoteFees(context.Background(), decimal.RequireFromString("0.0001"), amountPtr(700), SpeedFastest, 1)
	require.NoError(t, err)
	assert.Equal(t, btcutil.Amount(700), quote.NetworkFee)
	assert.Equal(t, btcutil.Amount(5000), quote.ServiceFee)
}

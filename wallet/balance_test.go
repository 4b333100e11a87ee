package wallet

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetBalance(t *testing.T) {
	coarse := newFakeProvider("bitcore")
	coarse.serve("/address/1abc/balance", `{"confirmed":150000000,"unconfirmed":-2000,"balance":150000000}`)
	e := NewEngine(testParams, coarse, newFakeProvider("blockcypher"))

	b := e.GetBalance(context.Background(), "1abc")
	assert.Equal(t, BalanceFetched, b.Status)
	assert.True(t, decimal.RequireFromString("1.5").Equal(b.Confirmed))
	assert.True(t, decimal.RequireFromString("-0.00002").Equal(b.Unconfirmed))
	assert.NoError(t, b.Err)
}

func TestGetBalance_ZeroIsFetched(t *testing.T) {
	coarse := newFakeProvider("bitcore")
	coarse.serve("/address/1abc/balance", `{"balance":0,"unconfirmed":0}`)
	e := NewEngine(testParams, coarse, newFakeProvider("blockcypher"))

	b := e.GetBalance(context.Background(), "1abc")
	assert.Equal(t, BalanceFetched, b.Status)
	assert.True(t, b.Confirmed.IsZero())
}

func TestGetBalance_DegradesOnProviderError(t *testing.T) {
	coarse := newFakeProvider("bitcore")
	coarse.fail("/address/1abc/balance", errors.New("connection reset"))
	e := NewEngine(testParams, coarse, newFakeProvider("blockcypher"))

	b := e.GetBalance(context.Background(), "1abc")
	assert.Equal(t, BalanceUnknown, b.Status)
	assert.True(t, b.Confirmed.IsZero())
	assert.ErrorIs(t, b.Err, ErrProviderUnavailable)

	_, err := e.FetchBalance(context.Background(), "1abc")
	require.ErrorIs(t, err, ErrProviderUnavailable)

	// an error body is not a balance
	coarse.fail("/address/1abc/balance", nil)
	coarse.serve("/address/1abc/balance", `{"error":"address not found"}`)
	assert.Equal(t, BalanceUnknown, e.GetBalance(context.Background(), "1abc").Status)
}

package wallet

import (
	"context"
	"errors"
	"testing"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchUnspents(t *testing.T) {
	key := newTestKey(t, 1, true)
	f := newFundedEngine(t, key, []int64{150000, 50000})

	unspents, err := f.engine.FetchUnspents(context.Background(), key.Address)
	require.NoError(t, err)
	require.Len(t, unspents, 2)

	for _, u := range unspents {
		assert.Equal(t, key.Address, u.Address)
		assert.Equal(t, key.Script, u.Script)
		assert.Equal(t, int64(6), u.Confirmations)
		assert.Contains(t, f.prev, u.TxID)
	}
	assert.Equal(t, btcutil.Amount(200000), TotalValue(unspents))
}

func TestFetchUnspents_Empty(t *testing.T) {
	coarse := newFakeProvider("bitcore")
	coarse.serve("/address/1abc?unspent=true", "[]")
	e := NewEngine(testParams, coarse, newFakeProvider("blockcypher"))

	unspents, err := e.FetchUnspents(context.Background(), "1abc")
	require.NoError(t, err)
	assert.Empty(t, unspents)
	assert.Equal(t, btcutil.Amount(0), TotalValue(unspents))
}

func TestFetchUnspents_DefaultsOwner(t *testing.T) {
	coarse := newFakeProvider("bitcore")
	coarse.serve("/address/1abc?unspent=true",
		`[{"mintTxid":"4a5e1e4baab89f3a32518a88c31bc87f618f76673e2cc77ab2127b7afdeda33b","mintIndex":1,"value":1000,"script":"51"}]`)
	e := NewEngine(testParams, coarse, newFakeProvider("blockcypher"))

	unspents, err := e.FetchUnspents(context.Background(), "1abc")
	require.NoError(t, err)
	require.Len(t, unspents, 1)
	assert.Equal(t, "1abc", unspents[0].Address)
	assert.Equal(t, uint32(1), unspents[0].Vout)
	assert.Equal(t, "51", unspents[0].ScriptHex())
}

func TestFetchUnspents_Errors(t *testing.T) {
	tests := []struct {
		name string
		body string
		err  error
	}{
		{name: "not an array", body: `{"error":"rate limited"}`},
		{name: "bad txid", body: `[{"mintTxid":"zz","mintIndex":0,"value":1000,"script":"51"}]`},
		{name: "bad script", body: `[{"mintTxid":"4a5e1e4baab89f3a32518a88c31bc87f618f76673e2cc77ab2127b7afdeda33b","mintIndex":0,"value":1000,"script":"xyz"}]`},
		{name: "transport", err: errors.New("connection refused")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			coarse := newFakeProvider("bitcore")
			if tt.err != nil {
				coarse.fail("/address/1abc?unspent=true", tt.err)
			} else {
				coarse.serve("/address/1abc?unspent=true", tt.body)
			}
			e := NewEngine(testParams, coarse, newFakeProvider("blockcypher"))

			_, err := e.FetchUnspents(context.Background(), "1abc")
			assert.ErrorIs(t, err, ErrProviderUnavailable)
		})
	}
}

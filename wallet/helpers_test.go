package wallet

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/bitcoinrtx/MultiCurrencyWallet/provider"
	"github.com/bitcoinrtx/MultiCurrencyWallet/util"
	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
	"github.com/stretchr/testify/require"
)

var testParams = &chaincfg.MainNetParams

// fakeProvider serves canned bodies per path. PostFunc handles posts.
type fakeProvider struct {
	name     string
	mu       sync.Mutex
	bodies   map[string]string
	errs     map[string]error
	PostFunc func(path string, body map[string]string) (string, error)
	gets     []string
	posts    []string
}

func newFakeProvider(name string) *fakeProvider {
	return &fakeProvider{name: name, bodies: map[string]string{}, errs: map[string]error{}}
}

func (f *fakeProvider) Name() string { return f.name }

func (f *fakeProvider) serve(path, body string) { f.bodies[path] = body }

func (f *fakeProvider) fail(path string, err error) { f.errs[path] = err }

func (f *fakeProvider) Get(_ context.Context, path string, opts provider.Options, out any) error {
	f.mu.Lock()
	f.gets = append(f.gets, path)
	body, ok := f.bodies[path]
	err := f.errs[path]
	f.mu.Unlock()

	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: GET %s returned 404", provider.ErrBadStatus, path)
	}
	return f.respond([]byte(body), opts, out)
}

func (f *fakeProvider) Post(_ context.Context, path string, body any, opts provider.Options, out any) error {
	f.mu.Lock()
	f.posts = append(f.posts, path)
	f.mu.Unlock()

	if f.PostFunc == nil {
		return fmt.Errorf("%w: POST %s not served", provider.ErrBadStatus, path)
	}
	resp, err := f.PostFunc(path, body.(map[string]string))
	if err != nil {
		return err
	}
	return f.respond([]byte(resp), opts, out)
}

func (f *fakeProvider) respond(body []byte, opts provider.Options, out any) error {
	if opts.CheckStatus != nil && !opts.CheckStatus(body) {
		return fmt.Errorf("%w: %s", provider.ErrUnexpectedResponse, body)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: %v", provider.ErrUnexpectedResponse, err)
	}
	return nil
}

func (f *fakeProvider) postCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.posts)
}

// testKey is a deterministic compressed key built from a small scalar.
type testKey struct {
	WIF     *btcutil.WIF
	Address string
	Script  []byte
}

func newTestKey(t *testing.T, scalar byte, compressed bool) testKey {
	t.Helper()
	raw := make([]byte, 32)
	raw[31] = scalar
	priv, _ := btcec.PrivKeyFromBytes(raw)
	wif, err := btcutil.NewWIF(priv, testParams, compressed)
	require.NoError(t, err)
	addr, err := util.P2PKHAddress(priv.PubKey(), compressed, testParams)
	require.NoError(t, err)
	script, err := util.PayToAddress(addr, testParams)
	require.NoError(t, err)
	return testKey{WIF: wif, Address: addr, Script: script}
}

func (k testKey) identities(t *testing.T) *Identities {
	t.Helper()
	id, err := Authenticate(k.WIF.String(), testParams)
	require.NoError(t, err)
	return &Identities{Primary: id}
}

// fundingTx makes a transaction paying each value to script, spending a
// made-up outpoint so every call hashes differently.
func fundingTx(t *testing.T, seed uint32, script []byte, values ...int64) (*wire.MsgTx, string) {
	t.Helper()
	tx := wire.NewMsgTx(2)
	var prev chainhash.Hash
	prev[0] = byte(seed)
	prev[1] = byte(seed >> 8)
	tx.AddTxIn(wire.NewTxIn(wire.NewOutPoint(&prev, seed), []byte{0x51}, nil))
	for _, v := range values {
		tx.AddTxOut(wire.NewTxOut(v, script))
	}
	var buf bytes.Buffer
	require.NoError(t, tx.Serialize(&buf))
	return tx, hex.EncodeToString(buf.Bytes())
}

// fundedEngine serves one confirmed unspent per value to key, with raw
// transactions on the rich provider.
type fundedEngine struct {
	engine *Engine
	coarse *fakeProvider
	rich   *fakeProvider
	prev   map[string]*wire.MsgTx
}

func newFundedEngine(t *testing.T, key testKey, values []int64, opts ...Option) *fundedEngine {
	t.Helper()
	coarse := newFakeProvider("bitcore")
	rich := newFakeProvider("blockcypher")
	prev := map[string]*wire.MsgTx{}

	var coins []string
	for i, v := range values {
		tx, rawHex := fundingTx(t, uint32(i+1), key.Script, v)
		txid := tx.TxHash().String()
		prev[txid] = tx
		rich.serve("/txs/"+txid+"?includeHex=true", fmt.Sprintf(`{"hash":%q,"hex":%q}`, txid, rawHex))
		coins = append(coins, fmt.Sprintf(
			`{"address":%q,"mintTxid":%q,"mintIndex":0,"mintHeight":800000,"value":%d,"script":%q,"confirmations":6}`,
			key.Address, txid, v, hex.EncodeToString(key.Script)))
	}
	coarse.serve("/address/"+key.Address+"?unspent=true", "["+strings.Join(coins, ",")+"]")

	return &fundedEngine{
		engine: NewEngine(testParams, coarse, rich, opts...),
		coarse: coarse,
		rich:   rich,
		prev:   prev,
	}
}

// staticFee is a FeeEstimator returning a fixed fee.
type staticFee btcutil.Amount

func (s staticFee) EstimateNetworkFee(context.Context, Speed, int) (btcutil.Amount, error) {
	return btcutil.Amount(s), nil
}

func amountPtr(a btcutil.Amount) *btcutil.Amount { return &a }

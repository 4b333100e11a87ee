package provider

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/bitcoinrtx/MultiCurrencyWallet/metrics"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_GetDecodes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/address/abc/balance", r.URL.Path)
		assert.Equal(t, "secret", r.URL.Query().Get("token"))
		w.Write([]byte(`{"balance": 1500, "unconfirmed": 20}`))
	}))
	defer srv.Close()

	c := NewClient("bitcore", srv.URL+"/", WithQuery("token", "secret"))
	var out struct {
		Balance     int64 `json:"balance"`
		Unconfirmed int64 `json:"unconfirmed"`
	}
	require.NoError(t, c.Get(context.Background(), "/address/abc/balance", Options{CheckStatus: HasField("balance")}, &out))
	assert.Equal(t, int64(1500), out.Balance)
	assert.Equal(t, int64(20), out.Unconfirmed)
	assert.Equal(t, "bitcore", c.Name())
}

func TestClient_CheckStatusRejects(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"error": "rate limited"}`))
	}))
	defer srv.Close()

	m := metrics.New()
	c := NewClient("bitcore", srv.URL, WithMetrics(m))
	err := c.Get(context.Background(), "/tx/x", Options{CheckStatus: HasField("fee")}, nil)
	assert.ErrorIs(t, err, ErrUnexpectedResponse)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ProviderRequestsTotal.WithLabelValues("bitcore", "GET", metrics.OutcomeInvalid)))
}

func TestClient_BadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient("bitcore", srv.URL)
	err := c.Get(context.Background(), "/x", Options{}, nil)
	assert.ErrorIs(t, err, ErrBadStatus)
	assert.Contains(t, err.Error(), "500")
}

func TestClient_RequestFailed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	c := NewClient("bitcore", srv.URL, WithTimeout(time.Second))
	err := c.Get(context.Background(), "/x", Options{}, nil)
	assert.ErrorIs(t, err, ErrRequestFailed)
}

func TestClient_UndecodableBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[1,2,3]`))
	}))
	defer srv.Close()

	c := NewClient("bitcore", srv.URL)
	var out struct{ Fee int64 }
	err := c.Get(context.Background(), "/x", Options{}, &out)
	assert.ErrorIs(t, err, ErrUnexpectedResponse)
}

func TestClient_PostSendsJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		body, _ := io.ReadAll(r.Body)
		var in map[string]string
		require.NoError(t, json.Unmarshal(body, &in))
		assert.Equal(t, "0200", in["rawTx"])
		w.Write([]byte(`{"txid":"abc123"}`))
	}))
	defer srv.Close()

	c := NewClient("bitcore", srv.URL)
	var out struct {
		TxID string `json:"txid"`
	}
	require.NoError(t, c.Post(context.Background(), "/tx/send", map[string]string{"rawTx": "0200"}, Options{CheckStatus: HasField("txid")}, &out))
	assert.Equal(t, "abc123", out.TxID)
}

func TestClient_GetCachesWithinTTL(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.Write([]byte(`[{"value":1}]`))
	}))
	defer srv.Close()

	m := metrics.New()
	c := NewClient("bitcore", srv.URL, WithCache(NewMemoryCache(time.Minute, time.Minute)), WithMetrics(m))
	opts := Options{CheckStatus: IsArray, CacheTTL: time.Minute}

	for i := 0; i < 3; i++ {
		var out []map[string]int
		require.NoError(t, c.Get(context.Background(), "/address/a?unspent=true", opts, &out))
		assert.Len(t, out, 1)
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.ProviderRequestsTotal.WithLabelValues("bitcore", "GET", metrics.OutcomeCached)))

	// No TTL means no cache
	require.NoError(t, c.Get(context.Background(), "/address/a?unspent=true", Options{}, nil))
	assert.Equal(t, int32(2), atomic.LoadInt32(&hits))
}

func TestClient_QueryAppendsToExistingQuery(t *testing.T) {
	c := NewClient("blockcypher", "https://example.test/v1/btc/main", WithQuery("token", "t"))
	assert.Equal(t, "https://example.test/v1/btc/main/txs/abc?includeHex=true&token=t", c.url("/txs/abc?includeHex=true"))
	assert.Equal(t, "https://example.test/v1/btc/main/addrs/x/full?token=t", c.url("addrs/x/full"))
}

func TestHasFieldAndIsArray(t *testing.T) {
	assert.True(t, HasField("hex")([]byte(`{"hex":"00"}`)))
	assert.False(t, HasField("hex")([]byte(`{"hex":null}`)))
	assert.False(t, HasField("hex")([]byte(`{"other":1}`)))
	assert.False(t, HasField("hex")([]byte(`[]`)))

	assert.True(t, IsArray([]byte(` []`)))
	assert.False(t, IsArray([]byte(`{}`)))
	assert.False(t, IsArray([]byte(`[`)))
}

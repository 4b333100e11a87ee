package provider

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*miniredis.Miniredis, *RedisCache) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	cache := NewRedisCache(client, "wallet:")
	t.Cleanup(func() { cache.Close() })
	return mr, cache
}

func TestMemoryCache(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(time.Minute, time.Minute)

	_, ok := c.Get(ctx, "k")
	assert.False(t, ok)

	body := []byte(`{"a":1}`)
	require.NoError(t, c.Set(ctx, "k", body, time.Minute))
	body[0] = 'X'

	got, ok := c.Get(ctx, "k")
	require.True(t, ok)
	assert.Equal(t, `{"a":1}`, string(got))
}

func TestMemoryCache_Expires(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(time.Minute, time.Minute)
	require.NoError(t, c.Set(ctx, "k", []byte("v"), 10*time.Millisecond))
	time.Sleep(30 * time.Millisecond)
	_, ok := c.Get(ctx, "k")
	assert.False(t, ok)
}

func TestRedisCache(t *testing.T) {
	ctx := context.Background()
	mr, cache := setupTestRedis(t)

	_, ok := cache.Get(ctx, "bitcore GET /x")
	assert.False(t, ok)

	require.NoError(t, cache.Set(ctx, "bitcore GET /x", []byte(`[1]`), 5*time.Second))
	assert.True(t, mr.Exists("wallet:bitcore GET /x"))

	got, ok := cache.Get(ctx, "bitcore GET /x")
	require.True(t, ok)
	assert.Equal(t, `[1]`, string(got))

	mr.FastForward(6 * time.Second)
	_, ok = cache.Get(ctx, "bitcore GET /x")
	assert.False(t, ok)
}

func TestNewRedisCacheFromURL(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	cache, err := NewRedisCacheFromURL(context.Background(), "redis://"+mr.Addr()+"/0", "w:")
	require.NoError(t, err)
	defer cache.Close()
	require.NoError(t, cache.Set(context.Background(), "k", []byte("v"), time.Second))
	assert.True(t, mr.Exists("w:k"))

	_, err = NewRedisCacheFromURL(context.Background(), "not a url", "")
	assert.Error(t, err)
}

func TestClient_RedisBackedCache(t *testing.T) {
	_, cache := setupTestRedis(t)

	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.Write([]byte(`{"balance":1}`))
	}))
	defer srv.Close()

	c := NewClient("bitcore", srv.URL, WithCache(cache))
	opts := Options{CheckStatus: HasField("balance"), CacheTTL: 5 * time.Second}
	require.NoError(t, c.Get(context.Background(), "/address/a/balance", opts, nil))
	require.NoError(t, c.Get(context.Background(), "/address/a/balance", opts, nil))
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
}

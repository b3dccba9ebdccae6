package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedisStore(t *testing.T, ttl time.Duration) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	store := NewRedisStoreWithClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}), ttl)
	t.Cleanup(func() { _ = store.Close() })
	return store, mr
}

func TestRedisStoreMiss(t *testing.T) {
	store, _ := newTestRedisStore(t, time.Hour)

	val, ok := store.Get(context.Background(), "missing")
	assert.False(t, ok)
	assert.Empty(t, val)
}

func TestRedisStoreSetGet(t *testing.T) {
	store, mr := newTestRedisStore(t, time.Hour)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "risk:salt", "orta"))

	val, ok := store.Get(ctx, "risk:salt")
	require.True(t, ok)
	assert.Equal(t, "orta", val)

	// 鍵帶有前綴
	raw, err := mr.Get("ingredient:risk:salt")
	require.NoError(t, err)
	assert.Equal(t, "orta", raw)
	assert.False(t, mr.Exists("risk:salt"))
}

func TestRedisStoreTTL(t *testing.T) {
	store, mr := newTestRedisStore(t, time.Minute)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "k", "v"))
	assert.Equal(t, time.Minute, mr.TTL("ingredient:k"))

	mr.FastForward(2 * time.Minute)
	_, ok := store.Get(ctx, "k")
	assert.False(t, ok)
}

func TestRedisStoreUnreachable(t *testing.T) {
	store, mr := newTestRedisStore(t, time.Minute)
	mr.Close()

	_, ok := store.Get(context.Background(), "k")
	assert.False(t, ok)
	assert.Error(t, store.Set(context.Background(), "k", "v"))
}

package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedisCache(t *testing.T) (Cache, *miniredis.Miniredis) {
	t.Helper()
	srv := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: srv.Addr()})
	return NewRedisCacheFromClient(client, "hunter:"), srv
}

func TestRedisCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestRedisCache(t)

	require.NoError(t, c.Set(ctx, "scan", payload{Query: "mv2", Count: 9}, time.Hour))

	var got payload
	require.NoError(t, c.Get(ctx, "scan", &got))
	assert.Equal(t, payload{Query: "mv2", Count: 9}, got)
}

func TestRedisCacheMiss(t *testing.T) {
	c, _ := newTestRedisCache(t)
	var got payload
	assert.ErrorIs(t, c.Get(context.Background(), "missing", &got), ErrCacheMiss)
}

func TestRedisCacheKeyPrefix(t *testing.T) {
	ctx := context.Background()
	c, srv := newTestRedisCache(t)
	require.NoError(t, c.Set(ctx, "k", 1, time.Hour))
	assert.True(t, srv.Exists("hunter:k"))
}

func TestRedisCacheTTLExpiry(t *testing.T) {
	ctx := context.Background()
	c, srv := newTestRedisCache(t)
	require.NoError(t, c.Set(ctx, "k", payload{Count: 1}, 6*time.Hour))

	srv.FastForward(6*time.Hour + time.Second)

	var got payload
	assert.ErrorIs(t, c.Get(ctx, "k", &got), ErrCacheMiss)
}

func TestRedisCacheDelete(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestRedisCache(t)
	require.NoError(t, c.Set(ctx, "k", 1, time.Hour))
	require.NoError(t, c.Delete(ctx, "k"))

	var got int
	assert.ErrorIs(t, c.Get(ctx, "k", &got), ErrCacheMiss)
	// Deleting nothing is a no-op.
	assert.NoError(t, c.Delete(ctx))
}

func TestRedisCachePing(t *testing.T) {
	c, srv := newTestRedisCache(t)
	assert.NoError(t, c.Ping(context.Background()))
	srv.Close()
	assert.Error(t, c.Ping(context.Background()))
}

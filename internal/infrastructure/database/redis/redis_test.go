package redis

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/PrazoCerto/internal/config"
	"github.com/turtacn/PrazoCerto/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/PrazoCerto/pkg/errors"
)

func newTestClient(t *testing.T) (*Client, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client, err := NewClient(config.RedisConfig{Mode: "standalone", Addr: mr.Addr()}, logging.NewNopLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return client, mr
}

func TestNewClient_Standalone(t *testing.T) {
	client, _ := newTestClient(t)
	assert.NoError(t, client.Ping(context.Background()))
	assert.NoError(t, client.Underlying().Ping(context.Background()).Err())
}

func TestNewClient_ConnectionFailed(t *testing.T) {
	client, err := NewClient(config.RedisConfig{Addr: "127.0.0.1:1", DialTimeout: 200 * time.Millisecond}, logging.NewNopLogger())
	assert.Nil(t, client)
	assert.True(t, errors.IsCode(err, errors.ErrCodeCacheError))
}

func TestClient_CloseIsIdempotent(t *testing.T) {
	client, _ := newTestClient(t)
	require.NoError(t, client.Close())
	require.NoError(t, client.Close())
	assert.ErrorIs(t, client.Ping(context.Background()), ErrClientClosed)
}

type cachedResult struct {
	DueDate string `json:"due_date"`
	Days    int    `json:"days"`
}

func TestCache_SetGet(t *testing.T) {
	client, mr := newTestClient(t)
	cache := NewRedisCache(client, logging.NewNopLogger(), WithPrefix("t:"), WithDefaultTTL(time.Hour))
	ctx := context.Background()

	var got cachedResult
	assert.ErrorIs(t, cache.Get(ctx, "missing", &got), ErrCacheMiss)

	require.NoError(t, cache.Set(ctx, "result:abc", cachedResult{DueDate: "2025-12-22", Days: 5}, 0))
	require.NoError(t, cache.Get(ctx, "result:abc", &got))
	assert.Equal(t, cachedResult{DueDate: "2025-12-22", Days: 5}, got)

	assert.True(t, mr.Exists("t:result:abc"))
	ttl := mr.TTL("t:result:abc")
	assert.InDelta(t, time.Hour.Seconds(), ttl.Seconds(), (6 * time.Minute).Seconds())
}

func TestCache_CorruptValue(t *testing.T) {
	client, mr := newTestClient(t)
	cache := NewRedisCache(client, logging.NewNopLogger())
	require.NoError(t, mr.Set("prazo:bad", "{not json"))

	var got cachedResult
	err := cache.Get(context.Background(), "bad", &got)
	assert.True(t, errors.IsCode(err, errors.ErrCodeSerialization))
}

func TestCache_DeleteByPrefix(t *testing.T) {
	client, mr := newTestClient(t)
	cache := NewRedisCache(client, logging.NewNopLogger())
	ctx := context.Background()

	for i := 0; i < 25; i++ {
		require.NoError(t, cache.Set(ctx, fmt.Sprintf("result:%d", i), cachedResult{Days: i}, time.Minute))
	}
	require.NoError(t, cache.Set(ctx, "other:1", cachedResult{}, time.Minute))

	n, err := cache.DeleteByPrefix(ctx, "result:")
	require.NoError(t, err)
	assert.Equal(t, int64(25), n)
	assert.True(t, mr.Exists("prazo:other:1"))
	assert.False(t, mr.Exists("prazo:result:3"))
}

func TestMutex(t *testing.T) {
	client, mr := newTestClient(t)
	ctx := context.Background()

	a := NewMutex(client, "calendar-purge", time.Minute)
	b := NewMutex(client, "calendar-purge", time.Minute)

	ok, err := a.TryLock(ctx)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = b.TryLock(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	assert.ErrorIs(t, b.Unlock(ctx), ErrLockNotHeld)
	require.NoError(t, a.Unlock(ctx))

	ok, err = b.TryLock(ctx)
	require.NoError(t, err)
	assert.True(t, ok)

	mr.FastForward(2 * time.Minute)
	ok, err = a.TryLock(ctx)
	require.NoError(t, err)
	assert.True(t, ok, "expired lock can be taken")
}

//Personal.AI order the ending

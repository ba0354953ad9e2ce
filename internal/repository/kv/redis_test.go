package kv

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

// fakeRedis is an in-memory redisClient.
type fakeRedis struct {
	mu     sync.Mutex
	values map[string]string
	err    error
	closed bool
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{values: make(map[string]string)}
}

func (f *fakeRedis) Get(_ context.Context, key string) *redis.StringCmd {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.err != nil {
		return redis.NewStringResult("", f.err)
	}

	value, ok := f.values[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}

	return redis.NewStringResult(value, nil)
}

func (f *fakeRedis) Set(_ context.Context, key string, value any, _ time.Duration) *redis.StatusCmd {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.err != nil {
		return redis.NewStatusResult("", f.err)
	}

	f.values[key], _ = value.(string)

	return redis.NewStatusResult("OK", nil)
}

func (f *fakeRedis) Close() error {
	f.closed = true

	return nil
}

// TestRedisStore_GetSet verifies key prefixing and the redis.Nil mapping.
func TestRedisStore_GetSet(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	client := newFakeRedis()
	store := newRedisStore(client, "alarms")

	_, ok, err := store.Get(ctx, "count")
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, store.Set(ctx, "count", "3"))
	require.Equal(t, "3", client.values["alarms:count"])

	value, ok, err := store.Get(ctx, "count")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "3", value)

	require.NoError(t, store.Close())
	require.True(t, client.closed)
}

// TestRedisStore_Errors wraps transport failures.
func TestRedisStore_Errors(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	client := newFakeRedis()
	client.err = errors.New("connection refused")
	store := newRedisStore(client, "")

	_, _, err := store.Get(ctx, "count")
	require.ErrorIs(t, err, client.err)
	require.ErrorIs(t, store.Set(ctx, "count", "1"), client.err)
}

// TestOpenRedisStore_Validation rejects empty and malformed URLs without dialing.
func TestOpenRedisStore_Validation(t *testing.T) {
	t.Parallel()

	_, err := OpenRedisStore(context.Background(), " ", "alarms")
	require.ErrorIs(t, err, errRedisURLRequired)

	_, err = OpenRedisStore(context.Background(), "http://not-redis", "alarms")
	require.Error(t, err)
}

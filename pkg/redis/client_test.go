package redis

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	counts  map[string]int64
	expires map[string]time.Duration
}

func newFakeStore() *fakeStore {
	return &fakeStore{counts: map[string]int64{}, expires: map[string]time.Duration{}}
}

func (f *fakeStore) Ping(ctx context.Context) *redis.StatusCmd {
	cmd := redis.NewStatusCmd(ctx)
	cmd.SetVal("PONG")
	return cmd
}

func (f *fakeStore) Incr(ctx context.Context, key string) *redis.IntCmd {
	f.counts[key]++
	cmd := redis.NewIntCmd(ctx)
	cmd.SetVal(f.counts[key])
	return cmd
}

func (f *fakeStore) Expire(ctx context.Context, key string, ttl time.Duration) *redis.BoolCmd {
	f.expires[key] = ttl
	cmd := redis.NewBoolCmd(ctx)
	cmd.SetVal(true)
	return cmd
}

func (f *fakeStore) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	for _, key := range keys {
		delete(f.counts, key)
	}
	cmd := redis.NewIntCmd(ctx)
	cmd.SetVal(int64(len(keys)))
	return cmd
}

func TestIncrWithTTLSetsExpiryOnce(t *testing.T) {
	store := newFakeStore()
	client := &Client{store: store}

	count, err := client.IncrWithTTL(context.Background(), "login:ip", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
	assert.Equal(t, time.Minute, store.expires["login:ip"])

	count, err = client.IncrWithTTL(context.Background(), "login:ip", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
	// Expire is only issued when the counter is fresh.
	assert.Len(t, store.expires, 1)
}

func TestRateLimitKeyNamespaced(t *testing.T) {
	client := &Client{store: newFakeStore()}

	key := client.RateLimitKey("login", "1.2.3.4")
	assert.Equal(t, "retail:rate_limit:login:1.2.3.4", key)
}

func TestDelClearsCounter(t *testing.T) {
	store := newFakeStore()
	client := &Client{store: store}

	_, err := client.Incr(context.Background(), "k")
	require.NoError(t, err)
	require.NoError(t, client.Del(context.Background(), "k"))
	assert.Empty(t, store.counts)
}

//go:build integration

package ratelimit

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) *redis.Client {
	t.Helper()

	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set, skipping Redis integration test")
	}

	rdb := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { _ = rdb.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, rdb.Ping(ctx).Err())
	return rdb
}

func TestRedisStore_Increment(t *testing.T) {
	rdb := newTestRedis(t)
	prefix := "taskapi-test:" + uuid.NewString() + ":"
	s := NewRedisStore(rdb, prefix)
	ctx := context.Background()
	now := time.Now()

	w, err := s.Increment(ctx, "k", time.Minute, now)
	require.NoError(t, err)
	assert.Equal(t, 1, w.Count)

	w, err = s.Increment(ctx, "k", time.Minute, now)
	require.NoError(t, err)
	assert.Equal(t, 2, w.Count)
	assert.WithinDuration(t, now, w.Start, time.Second)

	ttl, err := rdb.PTTL(ctx, prefix+"k").Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, 55*time.Second)
}

func TestRedisStore_WindowExpires(t *testing.T) {
	rdb := newTestRedis(t)
	s := NewRedisStore(rdb, "taskapi-test:"+uuid.NewString()+":")
	rule := Rule{Name: "r", Limit: 1, Window: 200 * time.Millisecond}
	l := NewLimiter(s, []Rule{rule})
	ctx := context.Background()

	require.True(t, l.Check(ctx, "c", rule).Allowed)
	require.False(t, l.Check(ctx, "c", rule).Allowed)

	time.Sleep(300 * time.Millisecond)
	assert.True(t, l.Check(ctx, "c", rule).Allowed)
}

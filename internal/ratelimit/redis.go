package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// incrementScript bumps a counter, arms its expiry on the first hit and
// reports the remaining TTL, all in one round trip.
var incrementScript = redis.NewScript(`
local count = redis.call('INCR', KEYS[1])
local ttl = redis.call('PTTL', KEYS[1])
if count == 1 or ttl < 0 then
  redis.call('PEXPIRE', KEYS[1], ARGV[1])
  ttl = tonumber(ARGV[1])
end
return {count, ttl}
`)

// RedisStore keeps counters in Redis so several API instances share limits.
// Expiry is handled by Redis key TTLs.
type RedisStore struct {
	rdb    redis.Scripter
	prefix string
}

// NewRedisStore creates a RedisStore whose keys start with prefix.
func NewRedisStore(rdb redis.Scripter, prefix string) *RedisStore {
	if prefix == "" {
		prefix = "ratelimit:"
	}
	return &RedisStore{rdb: rdb, prefix: prefix}
}

// Increment implements CounterStore.
func (s *RedisStore) Increment(ctx context.Context, key string, window time.Duration, now time.Time) (Window, error) {
	windowMs := window.Milliseconds()
	if windowMs <= 0 {
		windowMs = 1
	}

	res, err := incrementScript.Run(ctx, s.rdb, []string{s.prefix + key}, windowMs).Int64Slice()
	if err != nil {
		return Window{}, fmt.Errorf("redis increment %q: %w", key, err)
	}
	if len(res) != 2 {
		return Window{}, fmt.Errorf("redis increment %q: unexpected reply length %d", key, len(res))
	}

	count, ttl := res[0], time.Duration(res[1])*time.Millisecond
	elapsed := window - ttl
	if elapsed < 0 {
		elapsed = 0
	}
	return Window{Count: int(count), Start: now.Add(-elapsed)}, nil
}

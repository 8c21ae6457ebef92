package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisLimiter is a fixed-window limiter shared across server instances.
// Used for the REST submission endpoints where a per-process bucket is not
// enough once the API runs with more than one replica.
type RedisLimiter struct {
	client    *redis.Client
	keyPrefix string
}

var windowScript = redis.NewScript(`
	local current = redis.call("INCR", KEYS[1])
	if current == 1 then
		redis.call("PEXPIRE", KEYS[1], ARGV[2])
	end
	if current > tonumber(ARGV[1]) then
		return 0
	end
	return 1
`)

// NewRedisLimiter builds a limiter over the given client. The prefix is
// prepended to keys verbatim, so it must carry its own delimiter.
func NewRedisLimiter(client *redis.Client, keyPrefix string) *RedisLimiter {
	if keyPrefix == "" {
		keyPrefix = "ratelimit:"
	}
	return &RedisLimiter{
		client:    client,
		keyPrefix: keyPrefix,
	}
}

// Allow reports whether the key may make another request within the window.
func (r *RedisLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	if limit <= 0 {
		return false, fmt.Errorf("limit must be positive")
	}

	res, err := windowScript.Run(ctx, r.client,
		[]string{r.keyPrefix + key},
		limit,
		window.Milliseconds(),
	).Int()
	if err != nil {
		return false, fmt.Errorf("rate limit script failed: %w", err)
	}

	return res == 1, nil
}

// Reset clears the window for a key.
func (r *RedisLimiter) Reset(ctx context.Context, key string) error {
	return r.client.Del(ctx, r.keyPrefix+key).Err()
}

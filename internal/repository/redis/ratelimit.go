package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const rateLimitPrefix = "ratelimit:"

// RateLimiter throttles /ask turns per caller using a fixed one-minute
// window in Redis. The key is whatever identity the middleware supplies,
// a client address in this deployment.
type RateLimiter struct {
	client            *Client
	requestsPerMinute int
	burst             int
}

// NewRateLimiter creates a rate limiter allowing requestsPerMinute plus a
// burst allowance per window
func NewRateLimiter(client *Client, requestsPerMinute, burst int) *RateLimiter {
	return &RateLimiter{
		client:            client,
		requestsPerMinute: requestsPerMinute,
		burst:             burst,
	}
}

// Allow records one request for key and reports whether it fits the current
// window, how many requests remain, and when the window resets.
func (r *RateLimiter) Allow(ctx context.Context, key string) (bool, int, time.Time, error) {
	fullKey := rateLimitPrefix + key
	windowEnd := time.Now().Truncate(time.Minute).Add(time.Minute)

	// counter and expiry in one round trip; ExpireNX only arms the TTL on
	// the first hit of a window
	pipe := r.client.rdb.Pipeline()
	incrCmd := pipe.Incr(ctx, fullKey)
	pipe.ExpireNX(ctx, fullKey, time.Minute)

	if _, err := pipe.Exec(ctx); err != nil && err != redis.Nil {
		return false, 0, time.Time{}, fmt.Errorf("failed to execute rate limit check: %w", err)
	}

	count := incrCmd.Val()
	limit := int64(r.requestsPerMinute + r.burst)
	remaining := int(limit - count)
	if remaining < 0 {
		remaining = 0
	}

	return count <= limit, remaining, windowEnd, nil
}

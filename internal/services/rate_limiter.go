package services

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/JobMwaura/zintra-sub009/domain"
)

// RedisRateLimiter implements domain.RateLimiter with a fixed window counter
// per (recipient, purpose). The window anchors on the first issuance in it.
type RedisRateLimiter struct {
	redisClient *redis.Client
	window      time.Duration
	max         int
}

// NewRateLimiter creates a Redis-backed fixed-window rate limiter.
func NewRateLimiter(redisClient *redis.Client, window time.Duration, max int) domain.RateLimiter {
	return &RedisRateLimiter{
		redisClient: redisClient,
		window:      window,
		max:         max,
	}
}

func rateLimitKey(purpose domain.Purpose, recipient string) string {
	return fmt.Sprintf("verify:rl:%s:%s", purpose, recipient)
}

// CheckAndRecord implements domain.RateLimiter. The increment is undone when
// it overshoots the cap, so a blocked request leaves no trace and the stored
// count never settles above max.
func (l *RedisRateLimiter) CheckAndRecord(ctx context.Context, recipient string, purpose domain.Purpose) (bool, error) {
	key := rateLimitKey(purpose, recipient)

	count, err := l.redisClient.Incr(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("failed to increment rate limit counter: %w", err)
	}

	if count == 1 {
		if err := l.redisClient.Expire(ctx, key, l.window).Err(); err != nil {
			return false, fmt.Errorf("failed to set rate limit window: %w", err)
		}
	}

	if count > int64(l.max) {
		l.redisClient.Decr(ctx, key)
		return false, nil
	}

	return true, nil
}

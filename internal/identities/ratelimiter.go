package identities

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// LoginRateLimiter bounds login attempts per client address using a
// sliding window kept in Redis. It is optional: a nil limiter disables
// rate limiting, and limiter outages never block logins.
type LoginRateLimiter struct {
	client *redis.Client
	limit  int
	window time.Duration
}

// NewLoginRateLimiter creates a Redis-backed login rate limiter.
func NewLoginRateLimiter(client *redis.Client, limit int, window time.Duration) *LoginRateLimiter {
	return &LoginRateLimiter{client: client, limit: limit, window: window}
}

// Allow reports whether another login attempt from the given client is
// within the configured window limit.
func (rl *LoginRateLimiter) Allow(ctx context.Context, clientIP string) (bool, error) {
	now := time.Now()
	windowStart := now.Add(-rl.window)
	redisKey := fmt.Sprintf("login_attempts:%s", clientIP)

	pipe := rl.client.Pipeline()
	pipe.ZRemRangeByScore(ctx, redisKey, "0", fmt.Sprintf("%d", windowStart.UnixNano()))
	countCmd := pipe.ZCard(ctx, redisKey)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("failed to execute rate limit check: %w", err)
	}

	if countCmd.Val() >= int64(rl.limit) {
		return false, nil
	}

	score := now.UnixNano()
	pipe = rl.client.Pipeline()
	pipe.ZAdd(ctx, redisKey, redis.Z{Score: float64(score), Member: fmt.Sprintf("%d", score)})
	pipe.Expire(ctx, redisKey, rl.window+time.Minute)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("failed to record rate limit entry: %w", err)
	}

	return true, nil
}

// Package ratelimit throttles registration attempts per origin using a
// fixed counting window: the first hit on a key starts the window, every
// hit increments it, and the key expires with the window.
package ratelimit

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Limiter answers whether the given origin may spend another attempt.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

const keyPrefix = "rl:register:"

// RedisLimiter counts attempts in Redis so the budget is shared across
// process instances. Redis failures fail open: throttling is protective,
// not load-bearing for correctness.
type RedisLimiter struct {
	client      *redis.Client
	window      time.Duration
	maxAttempts int
	logger      *zap.Logger
}

// NewRedisLimiter builds a limiter over the shared client.
func NewRedisLimiter(client *redis.Client, window time.Duration, maxAttempts int, logger *zap.Logger) *RedisLimiter {
	if maxAttempts <= 0 {
		maxAttempts = 5
	}
	if window <= 0 {
		window = 15 * time.Minute
	}
	return &RedisLimiter{client: client, window: window, maxAttempts: maxAttempts, logger: logger}
}

// Allow increments the origin's counter and reports whether it is still
// within budget.
func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	redisKey := keyPrefix + key

	count, err := l.client.Incr(ctx, redisKey).Result()
	if err != nil {
		l.logger.Warn("rate limiter unavailable, allowing request", zap.Error(err))
		return true, nil
	}
	if count == 1 {
		if err := l.client.Expire(ctx, redisKey, l.window).Err(); err != nil {
			l.logger.Warn("rate limiter expire failed", zap.Error(err))
		}
	}
	return count <= int64(l.maxAttempts), nil
}

// MemoryLimiter implements the same fixed-window semantics in process
// memory. Used when Redis is not configured and in tests.
type MemoryLimiter struct {
	mu          sync.Mutex
	windows     map[string]*windowState
	window      time.Duration
	maxAttempts int
}

type windowState struct {
	count     int
	expiresAt time.Time
}

// NewMemoryLimiter builds an in-process limiter.
func NewMemoryLimiter(window time.Duration, maxAttempts int) *MemoryLimiter {
	if maxAttempts <= 0 {
		maxAttempts = 5
	}
	if window <= 0 {
		window = 15 * time.Minute
	}
	return &MemoryLimiter{
		windows:     make(map[string]*windowState),
		window:      window,
		maxAttempts: maxAttempts,
	}
}

// Allow increments the origin's counter and reports whether it is still
// within budget.
func (l *MemoryLimiter) Allow(_ context.Context, key string) (bool, error) {
	now := time.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	state, ok := l.windows[key]
	if !ok || now.After(state.expiresAt) {
		state = &windowState{expiresAt: now.Add(l.window)}
		l.windows[key] = state
	}
	state.count++
	return state.count <= l.maxAttempts, nil
}

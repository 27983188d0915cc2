package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	defaultMaxAttempts   = 10
	defaultAttemptWindow = time.Minute
)

// LoginLimiter counts failed login attempts per username+origin in Redis.
// Key format: login_attempts:<username>:<origin>
//
// The limiter fails open: a Redis fault never blocks a login, it only
// disables throttling for that request.
type LoginLimiter struct {
	client      *redis.Client
	maxAttempts int
	window      time.Duration
}

// NewLoginLimiter creates a limiter allowing maxAttempts failures per window.
// Non-positive arguments fall back to defaults.
func NewLoginLimiter(client *redis.Client, maxAttempts int, window time.Duration) *LoginLimiter {
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxAttempts
	}
	if window <= 0 {
		window = defaultAttemptWindow
	}
	return &LoginLimiter{client: client, maxAttempts: maxAttempts, window: window}
}

// Blocked reports whether the username+origin pair has exhausted its attempts.
func (l *LoginLimiter) Blocked(ctx context.Context, username, origin string) (bool, error) {
	n, err := l.client.Get(ctx, l.key(username, origin)).Int64()
	if err != nil {
		if err == redis.Nil {
			return false, nil
		}
		return false, fmt.Errorf("login limiter check: %w", err)
	}
	return n >= int64(l.maxAttempts), nil
}

// RecordFailure increments the failure counter, starting the window on the
// first failure.
func (l *LoginLimiter) RecordFailure(ctx context.Context, username, origin string) error {
	key := l.key(username, origin)
	n, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("login limiter incr: %w", err)
	}
	if n == 1 {
		if err := l.client.Expire(ctx, key, l.window).Err(); err != nil {
			return fmt.Errorf("login limiter expire: %w", err)
		}
	}
	return nil
}

// Reset clears the counter after a successful login.
func (l *LoginLimiter) Reset(ctx context.Context, username, origin string) error {
	return l.client.Del(ctx, l.key(username, origin)).Err()
}

func (l *LoginLimiter) key(username, origin string) string {
	return fmt.Sprintf("login_attempts:%s:%s", username, origin)
}

package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// AttemptLimiter caps failed reset confirmations per user within a window.
// Key format: reset:attempts:<user_id>
type AttemptLimiter struct {
	client *redis.Client
	max    int64
	window time.Duration
}

// NewAttemptLimiter creates a limiter allowing max failures per window.
func NewAttemptLimiter(client *redis.Client, max int, window time.Duration) *AttemptLimiter {
	if window <= 0 {
		window = 15 * time.Minute
	}
	return &AttemptLimiter{client: client, max: int64(max), window: window}
}

// Allowed reports whether the user is still below the failure limit.
func (l *AttemptLimiter) Allowed(ctx context.Context, userID string) (bool, error) {
	n, err := l.client.Get(ctx, l.key(userID)).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return true, nil
		}
		return false, fmt.Errorf("attempts check: %w", err)
	}
	return n < l.max, nil
}

// RecordFailure increments the counter. The window starts at the first failure.
func (l *AttemptLimiter) RecordFailure(ctx context.Context, userID string) error {
	key := l.key(userID)
	n, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("attempts incr: %w", err)
	}
	if n == 1 {
		if err := l.client.Expire(ctx, key, l.window).Err(); err != nil {
			return fmt.Errorf("attempts expire: %w", err)
		}
	}
	return nil
}

func (l *AttemptLimiter) Reset(ctx context.Context, userID string) error {
	return l.client.Del(ctx, l.key(userID)).Err()
}

func (l *AttemptLimiter) key(userID string) string {
	return fmt.Sprintf("reset:attempts:%s", userID)
}

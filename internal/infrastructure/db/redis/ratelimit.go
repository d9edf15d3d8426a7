package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// FixedWindowLimiter counts requests per key in fixed time windows shared by
// every replica. Allowed per window: floor(rps*window)+burst.
// Key format: rl:<key>:<window_index>
type FixedWindowLimiter struct {
	client  *redis.Client
	allowed int64
	window  time.Duration
	now     func() time.Time
}

func NewFixedWindowLimiter(client *redis.Client, rps float64, burst int, window time.Duration) *FixedWindowLimiter {
	if window < time.Second {
		window = time.Second
	}
	allowed := int64(rps*window.Seconds()) + int64(burst)
	if allowed < 1 {
		allowed = 1
	}
	return &FixedWindowLimiter{client: client, allowed: allowed, window: window, now: time.Now}
}

// Allow counts one request for key. When the request is over the limit it
// returns false and how long until the window resets.
func (l *FixedWindowLimiter) Allow(ctx context.Context, key string) (bool, time.Duration, error) {
	now := l.now()
	bucket := now.UnixNano() / int64(l.window)
	redisKey := fmt.Sprintf("rl:%s:%d", key, bucket)

	cnt, err := l.client.Incr(ctx, redisKey).Result()
	if err != nil {
		return false, 0, fmt.Errorf("rate limit incr: %w", err)
	}
	if cnt == 1 {
		_ = l.client.Expire(ctx, redisKey, l.window+time.Second).Err()
	}
	if cnt > l.allowed {
		reset := time.Unix(0, (bucket+1)*int64(l.window))
		return false, reset.Sub(now), nil
	}
	return true, 0, nil
}

// Name identifies the limiter in metrics.
func (l *FixedWindowLimiter) Name() string { return "redis" }

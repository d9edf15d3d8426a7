package middleware

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/formforge/forms-api/internal/api/metrics"
)

// Limiter decides whether the request identified by key may proceed. When it
// may not, retryAfter says how long the client should wait.
type Limiter interface {
	Allow(ctx context.Context, key string) (allowed bool, retryAfter time.Duration, err error)
	Name() string
}

// defaultIdleTTL is how long a key may go unused before its bucket is dropped.
const defaultIdleTTL = 10 * time.Minute

// MemoryLimiter is a per-key token bucket local to this process. Buckets
// idle for longer than the idle TTL are swept, so the key set stays bounded
// by recent traffic.
type MemoryLimiter struct {
	rps   rate.Limit
	burst int
	idle  time.Duration
	now   func() time.Time

	mu        sync.Mutex
	buckets   map[string]*bucket
	lastSweep time.Time
}

type bucket struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

func NewMemoryLimiter(rps float64, burst int) *MemoryLimiter {
	if burst < 1 {
		burst = 1
	}
	// A bucket must not be dropped before it would have refilled anyway.
	idle := defaultIdleTTL
	if rps > 0 {
		if refill := time.Duration(float64(burst) / rps * float64(time.Second)); refill > idle {
			idle = refill
		}
	}
	return &MemoryLimiter{
		rps:       rate.Limit(rps),
		burst:     burst,
		idle:      idle,
		now:       time.Now,
		buckets:   make(map[string]*bucket),
		lastSweep: time.Now(),
	}
}

func (l *MemoryLimiter) Allow(_ context.Context, key string) (bool, time.Duration, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.lastSweep) >= l.idle {
		l.sweep(now)
	}

	b, ok := l.buckets[key]
	if !ok {
		b = &bucket{lim: rate.NewLimiter(l.rps, l.burst)}
		l.buckets[key] = b
	}
	b.lastSeen = now

	r := b.lim.ReserveN(now, 1)
	if delay := r.DelayFrom(now); delay > 0 {
		r.CancelAt(now)
		return false, delay, nil
	}
	return true, 0, nil
}

// sweep drops buckets unused for the idle TTL. Callers hold l.mu.
func (l *MemoryLimiter) sweep(now time.Time) {
	for key, b := range l.buckets {
		if now.Sub(b.lastSeen) >= l.idle {
			delete(l.buckets, key)
		}
	}
	l.lastSweep = now
}

func (l *MemoryLimiter) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buckets)
}

func (l *MemoryLimiter) Name() string { return "memory" }

// RateLimit rejects requests over the limit with 429 and a Retry-After header.
// The key is the authenticated caller when known, otherwise the client IP.
// Limiter failures let the request through.
func RateLimit(limiter Limiter, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := "ip:" + c.RealIP()
			if id := UserID(c); id != "" {
				key = "sub:" + id
			}

			allowed, retryAfter, err := limiter.Allow(c.Request().Context(), key)
			if err != nil {
				metrics.RateLimitDecisionsTotal.WithLabelValues(limiter.Name(), "error").Inc()
				log.Warn().Err(err).Str("limiter", limiter.Name()).Msg("rate limit check failed, allowing request")
				return next(c)
			}
			if !allowed {
				metrics.RateLimitDecisionsTotal.WithLabelValues(limiter.Name(), "rejected").Inc()
				secs := int((retryAfter + time.Second - 1) / time.Second)
				if secs < 1 {
					secs = 1
				}
				c.Response().Header().Set("Retry-After", strconv.Itoa(secs))
				return echo.NewHTTPError(http.StatusTooManyRequests, "rate limit exceeded")
			}

			metrics.RateLimitDecisionsTotal.WithLabelValues(limiter.Name(), "allowed").Inc()
			return next(c)
		}
	}
}

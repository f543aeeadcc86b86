package middleware

import (
	"strconv"
	"sync"
	"time"

	"go.uber.org/ratelimit"
	"go.uber.org/zap"

	"github.com/quadframe/qhttp/pkg/common"
	"github.com/quadframe/qhttp/pkg/wire"
)

// RateLimitConfig defines configuration for rate limiting.
type RateLimitConfig struct {
	// Unique identifier for this rate limit bucket.
	// Routes sharing the same BucketName share the same rate limit.
	BucketName string

	// Maximum number of requests allowed in the time window.
	Limit int

	// Time window for the rate limit (e.g., 1 minute, 1 hour).
	Window time.Duration

	// KeyExtractor derives the client key from a request, letting
	// callers bucket by header, route parameter, or anything else.
	// When nil, all requests share one bucket.
	KeyExtractor func(*wire.Request) string

	// ExceededResponse is sent when the rate limit is exceeded.
	// If nil, a default 429 Too Many Requests response is sent.
	ExceededResponse *wire.Response
}

// RateLimiter defines the interface for rate limiting algorithms.
type RateLimiter interface {
	// Allow checks if a request is allowed based on the key and limit.
	// It also returns the number of remaining requests and the time
	// until the window resets.
	Allow(key string, limit int, window time.Duration) (bool, int, time.Duration)
}

// UberRateLimiter implements RateLimiter using Uber's ratelimit library,
// backed by a per-window counter so limits are enforced strictly.
type UberRateLimiter struct {
	limiters sync.Map // map[string]ratelimit.Limiter, plus counter/timestamp entries
	mu       sync.Mutex
}

// NewUberRateLimiter creates a new rate limiter using Uber's ratelimit library.
func NewUberRateLimiter() *UberRateLimiter {
	return &UberRateLimiter{}
}

// getLimiter gets or creates a limiter for the given key and rate.
func (u *UberRateLimiter) getLimiter(key string, rps int) ratelimit.Limiter {
	if limiter, ok := u.limiters.Load(key); ok {
		return limiter.(ratelimit.Limiter)
	}

	u.mu.Lock()
	defer u.mu.Unlock()

	// Double-check after acquiring the lock.
	if limiter, ok := u.limiters.Load(key); ok {
		return limiter.(ratelimit.Limiter)
	}

	limiter := ratelimit.New(rps)
	u.limiters.Store(key, limiter)
	return limiter
}

// Allow checks if a request is allowed based on the key and rate limit config.
func (u *UberRateLimiter) Allow(key string, limit int, window time.Duration) (bool, int, time.Duration) {
	rps := int(float64(limit) / window.Seconds())
	if rps < 1 {
		rps = 1
	}

	limiter := u.getLimiter(key, rps)

	now := time.Now()
	next := limiter.Take()

	// A counter alongside the leaky bucket keeps the windowed limit
	// strict enough for tests to rely on.
	counterKey := key + ":counter"
	timestampKey := key + ":timestamp"

	var windowStart time.Time
	if tsVal, ok := u.limiters.Load(timestampKey); ok {
		windowStart = tsVal.(time.Time)
	} else {
		windowStart = now
		u.limiters.Store(timestampKey, windowStart)
	}

	effectiveWindow := window
	if effectiveWindow <= 0 {
		effectiveWindow = time.Second
	}

	if now.Sub(windowStart) > effectiveWindow {
		// New window: reset the counter, this request counts as the first.
		u.limiters.Store(counterKey, 1)
		u.limiters.Store(timestampKey, now)
		return true, limit - 1, effectiveWindow
	}

	count := 0
	if countVal, ok := u.limiters.Load(counterKey); ok {
		count = countVal.(int)
	}

	effectiveLimit := limit
	if effectiveLimit <= 0 {
		effectiveLimit = 1
	}

	count++
	u.limiters.Store(counterKey, count)

	if count > effectiveLimit {
		return false, 0, window
	}

	if next.Sub(now) > time.Second {
		remaining := int(float64(limit) * (1 - next.Sub(now).Seconds()/window.Seconds()))
		if remaining < 0 {
			remaining = 0
		}
		return false, remaining, next.Sub(now)
	}

	remaining := limit - count
	if remaining < 0 {
		remaining = 0
	}

	return true, remaining, effectiveWindow
}

// RateLimit creates a middleware that enforces rate limits. When the
// limit is exceeded the request short-circuits with the configured
// response, or a default 429 carrying a Retry-After header.
func RateLimit(config *RateLimitConfig, limiter RateLimiter, logger *zap.Logger) common.Middleware {
	return common.MiddlewareFunc(func(req *wire.Request) (*wire.Request, *wire.Response) {
		if config == nil {
			return req, nil
		}

		key := ""
		if config.KeyExtractor != nil {
			key = config.KeyExtractor(req)
		}
		bucketKey := config.BucketName + ":" + key

		allowed, remaining, reset := limiter.Allow(bucketKey, config.Limit, config.Window)
		if allowed {
			return req, nil
		}

		logger.Warn("Rate limit exceeded",
			zap.String("method", req.Method),
			zap.String("path", req.Path),
			zap.String("key", key),
			zap.Int("limit", config.Limit),
			zap.Int("remaining", remaining),
		)

		if config.ExceededResponse != nil {
			return nil, config.ExceededResponse
		}
		resp := wire.New(429, "Too Many Requests").
			WithHeader("Retry-After", strconv.FormatInt(int64(reset.Seconds()), 10)).
			WithHeader("X-RateLimit-Limit", strconv.Itoa(config.Limit))
		return nil, resp
	})
}

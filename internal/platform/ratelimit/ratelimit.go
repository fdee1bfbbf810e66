// Package ratelimit throttles requests per client key with token buckets.
package ratelimit

import (
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	apierrors "github.com/Apurer/go-gin-storefront/internal/shared/errors"
)

// maxTrackedKeys bounds memory; past it the table is reset.
const maxTrackedKeys = 10000

// Limiter keeps one token bucket per client key.
type Limiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	limit    rate.Limit
	burst    int
	logger   *slog.Logger
}

// PerMinute allows n requests per minute per key with a burst of n.
func PerMinute(n int, logger *slog.Logger) *Limiter {
	if n <= 0 {
		n = 1
	}
	return New(rate.Every(time.Minute/time.Duration(n)), n, logger)
}

func New(limit rate.Limit, burst int, logger *slog.Logger) *Limiter {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Limiter{
		limiters: make(map[string]*rate.Limiter),
		limit:    limit,
		burst:    burst,
		logger:   logger,
	}
}

// Allow consumes a token for key.
func (l *Limiter) Allow(key string) bool {
	return l.limiterFor(key).Allow()
}

func (l *Limiter) limiterFor(key string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()
	limiter, ok := l.limiters[key]
	if !ok {
		if len(l.limiters) >= maxTrackedKeys {
			l.limiters = make(map[string]*rate.Limiter)
		}
		limiter = rate.NewLimiter(l.limit, l.burst)
		l.limiters[key] = limiter
	}
	return limiter
}

// Middleware rejects requests over budget with a 429 problem, keyed by client IP.
func (l *Limiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.ClientIP()
		if !l.Allow(key) {
			l.logger.WarnContext(c.Request.Context(), "rate limit exceeded",
				slog.String("client", key),
				slog.String("path", c.Request.URL.Path))
			apierrors.Respond(c, apierrors.ErrTooManyRequests.WithDetail("too many attempts, try again later"))
			c.Abort()
			return
		}
		c.Next()
	}
}

package middleware

import (
	"context"
	"net/http"
	"strconv"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gogotex/gogotex/backend/go-editor/pkg/logger"
	"github.com/gogotex/gogotex/backend/go-editor/pkg/metrics"
	"golang.org/x/time/rate"
)

// limiter decides whether a request counted against key may proceed.
// retryAfter is the number of seconds a rejected client should wait.
type limiter interface {
	allow(ctx context.Context, key string) (ok bool, retryAfter int, err error)
}

// RateKey selects the bucket a request counts against. Requests on routes
// carrying an :owner parameter are limited per owner, everything else per
// client IP.
func RateKey(c *gin.Context) string {
	if owner := c.Param("owner"); owner != "" {
		return "owner:" + owner
	}
	ip := c.ClientIP()
	if ip == "" {
		ip = "unknown"
	}
	return "ip:" + ip
}

// limit is the request path shared by every limiter; backend labels metrics.
func limit(backend string, l limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := RateKey(c)
		ok, retryAfter, err := l.allow(c.Request.Context(), key)
		if err != nil {
			logger.Errorf("rate limit check %s (%s): %v", key, backend, err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Rate limit check failed"})
			return
		}
		if !ok {
			c.Header("Retry-After", strconv.Itoa(retryAfter))
			metrics.RateLimitRejected.WithLabelValues(backend).Inc()
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Rate limit exceeded"})
			return
		}
		metrics.RateLimitAllowed.WithLabelValues(backend).Inc()
		c.Next()
	}
}

// tokenBuckets holds one token bucket per key.
type tokenBuckets struct {
	m     sync.Map // map[string]*rate.Limiter
	rps   float64
	burst int
}

func (b *tokenBuckets) get(key string) *rate.Limiter {
	if v, ok := b.m.Load(key); ok {
		return v.(*rate.Limiter)
	}
	v, _ := b.m.LoadOrStore(key, rate.NewLimiter(rate.Limit(b.rps), b.burst))
	return v.(*rate.Limiter)
}

func (b *tokenBuckets) allow(_ context.Context, key string) (bool, int, error) {
	return b.get(key).Allow(), 1, nil
}

// RateLimitMiddleware returns a Gin middleware enforcing an in-memory token-bucket
// limit per RateKey. rps = allowed events per second, burst = maximum tokens in bucket.
func RateLimitMiddleware(rps float64, burst int) gin.HandlerFunc {
	return limit("memory", &tokenBuckets{rps: rps, burst: burst})
}

package middleware

import (
	"context"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// fixedWindow counts requests per key in windows of a fixed length shared by
// every replica talking to the same Redis.
type fixedWindow struct {
	client  *redis.Client
	seconds int
	allowed int64
	now     func() time.Time
}

// windowKey names the counter of key for the window containing t.
func (w *fixedWindow) windowKey(key string, t time.Time) string {
	return "rl:" + key + ":" + strconv.FormatInt(t.Unix()/int64(w.seconds), 10)
}

func (w *fixedWindow) allow(ctx context.Context, key string) (bool, int, error) {
	k := w.windowKey(key, w.now())
	var incr *redis.IntCmd
	_, err := w.client.Pipelined(ctx, func(p redis.Pipeliner) error {
		incr = p.Incr(ctx, k)
		p.Expire(ctx, k, time.Duration(w.seconds+1)*time.Second)
		return nil
	})
	if err != nil {
		return false, 0, err
	}
	return incr.Val() <= w.allowed, w.seconds, nil
}

// RedisRateLimitMiddleware limits each RateKey to floor(rps*window)+burst
// requests per window. Without a client it falls back to RateLimitMiddleware.
func RedisRateLimitMiddleware(client *redis.Client, rps float64, burst int, window time.Duration) gin.HandlerFunc {
	if client == nil {
		return RateLimitMiddleware(rps, burst)
	}
	seconds := int(window.Seconds())
	if seconds <= 0 {
		seconds = 1
	}
	return limit("redis", &fixedWindow{
		client:  client,
		seconds: seconds,
		allowed: int64(rps*float64(seconds)) + int64(burst),
		now:     time.Now,
	})
}

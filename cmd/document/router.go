package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gogotex/gogotex/backend/go-editor/internal/config"
	"github.com/gogotex/gogotex/backend/go-editor/internal/document/handler"
	"github.com/gogotex/gogotex/backend/go-editor/internal/document/service"
	"github.com/gogotex/gogotex/backend/go-editor/pkg/logger"
	"github.com/gogotex/gogotex/backend/go-editor/pkg/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
)

var startTime = time.Now()

type pinger interface {
	Ping(ctx context.Context) error
}

// newRouter assembles the HTTP API. archive is nil when publishing is not archived.
func newRouter(cfg *config.Config, svc service.Service, rdb *redis.Client, archive pinger) *gin.Engine {
	r := gin.New()

	// Lightweight CORS for the browser editor during development.
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	})
	r.Use(gin.Logger(), gin.Recovery())

	if cfg.RateLimit.Enabled {
		if cfg.RateLimit.UseRedis && rdb != nil {
			win := time.Duration(cfg.RateLimit.WindowSeconds) * time.Second
			r.Use(middleware.RedisRateLimitMiddleware(rdb, cfg.RateLimit.RPS, cfg.RateLimit.Burst, win))
			logger.Infof("rate limiter: redis, %.2f rps burst %d", cfg.RateLimit.RPS, cfg.RateLimit.Burst)
		} else {
			r.Use(middleware.RateLimitMiddleware(cfg.RateLimit.RPS, cfg.RateLimit.Burst))
			logger.Infof("rate limiter: memory, %.2f rps burst %d", cfg.RateLimit.RPS, cfg.RateLimit.Burst)
		}
	}

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "healthy")
	})

	// readiness: 200 only when the store, the archive bucket and (for the redis limiter) Redis answer
	r.GET("/ready", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		ready := true
		deps := map[string]bool{}
		if err := svc.Ping(ctx); err != nil {
			logger.Warnf("readiness: store: %v", err)
			deps["store"] = false
			ready = false
		} else {
			deps["store"] = true
		}
		if archive != nil {
			deps["archive"] = archive.Ping(ctx) == nil
			if !deps["archive"] {
				ready = false
			}
		}
		if cfg.RateLimit.Enabled && cfg.RateLimit.UseRedis {
			deps["redis"] = rdb != nil && rdb.Ping(ctx).Err() == nil
			if !deps["redis"] {
				ready = false
			}
		}

		uptime := time.Since(startTime).Round(time.Second).String()
		if !ready {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready", "deps": deps, "uptime": uptime})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready", "deps": deps, "uptime": uptime})
	})

	handler.RegisterSwagger(r)
	handler.RegisterDocumentRoutes(r, svc)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	return r
}

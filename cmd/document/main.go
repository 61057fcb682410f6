package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/gogotex/gogotex/backend/go-editor/internal/config"
	"github.com/gogotex/gogotex/backend/go-editor/internal/database"
	"github.com/gogotex/gogotex/backend/go-editor/internal/document/fixtures"
	"github.com/gogotex/gogotex/backend/go-editor/internal/document/service"
	"github.com/gogotex/gogotex/backend/go-editor/internal/storage"
	"github.com/gogotex/gogotex/backend/go-editor/pkg/logger"
	"github.com/gogotex/gogotex/backend/go-editor/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
)

func main() {
	// LOG_LEVEL is applied again from config; this covers config errors.
	logger.Init(os.Getenv("LOG_LEVEL"))

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	logger.Init(cfg.LogLevel)
	logger.Debugf("startup: LOG_LEVEL=%s", logger.LevelString())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		logger.Fatalf("document service: %v", err)
	}
	_ = logger.Sync()
}

func run(ctx context.Context, cfg *config.Config) error {
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Redis serves the redis store and the shared rate limiter.
	var rdb *redis.Client
	if addr := cfg.Redis.Addr(); addr != "" {
		c, err := database.ConnectRedis(ctx, addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			if cfg.Store.Driver == config.DriverRedis {
				return err
			}
			logger.Warnf("redis unavailable, continuing without it: %v", err)
		} else {
			rdb = c
			defer func() { _ = rdb.Close() }()
			logger.Infof("connected to Redis at %s", addr)
		}
	}

	repo, closeStore, err := openStore(ctx, cfg, rdb)
	if err != nil {
		return err
	}
	defer closeStore()

	var opts []service.Option
	var archive pinger
	if cfg.Archive.Enabled() {
		arch, err := storage.NewMinIOStorage(ctx, &cfg.Archive)
		if err != nil {
			logger.Warnf("archive disabled: %v", err)
		} else {
			opts = append(opts, service.WithArchive(arch))
			archive = arch
			logger.Infof("archiving published documents to bucket %q", cfg.Archive.Bucket)
		}
	}
	svc := service.New(repo, opts...)

	if cfg.SeedOwner != "" {
		if _, err := fixtures.Seed(ctx, svc, cfg.SeedOwner); err != nil {
			logger.Warnf("seeding sample draft: %v", err)
		}
	}

	metrics.RegisterCollectors(prometheus.DefaultRegisterer)
	r := newRouter(cfg, svc, rdb, archive)

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Infof("document service listening on %s (store=%s)", addr, cfg.Store.Driver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Infof("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

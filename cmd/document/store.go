package main

import (
	"context"

	"github.com/gogotex/gogotex/backend/go-editor/internal/config"
	"github.com/gogotex/gogotex/backend/go-editor/internal/database"
	"github.com/gogotex/gogotex/backend/go-editor/internal/document/repository"
	"github.com/gogotex/gogotex/backend/go-editor/pkg/logger"
	"github.com/redis/go-redis/v9"
)

// openStore builds the repository selected by cfg.Store.Driver. The returned
// func releases its connections.
func openStore(ctx context.Context, cfg *config.Config, rdb *redis.Client) (repository.Repository, func(), error) {
	noop := func() {}
	switch cfg.Store.Driver {
	case config.DriverMongo:
		client, err := database.ConnectMongoWithRetry(ctx, cfg.MongoDB.URI, cfg.MongoDB.Timeout, 5)
		if err != nil {
			logger.Warnf("could not connect to MongoDB, using memory-backed repo: %v", err)
			return repository.NewMemoryRepo(), noop, nil
		}
		col := client.Database(cfg.MongoDB.Database).Collection(cfg.MongoDB.Collection)
		repo, err := repository.NewMongoRepo(ctx, col)
		if err != nil {
			_ = client.Disconnect(context.Background())
			return nil, noop, err
		}
		logger.Infof("using MongoDB collection %s.%s", cfg.MongoDB.Database, cfg.MongoDB.Collection)
		return repo, func() { _ = client.Disconnect(context.Background()) }, nil

	case config.DriverSQLite:
		db, err := database.OpenSQLite(ctx, cfg.Store.SQLitePath)
		if err != nil {
			return nil, noop, err
		}
		repo, err := repository.NewSQLiteRepo(ctx, db)
		if err != nil {
			_ = db.Close()
			return nil, noop, err
		}
		logger.Infof("using SQLite database %s", cfg.Store.SQLitePath)
		return repo, func() { _ = db.Close() }, nil

	case config.DriverRedis:
		// rdb is owned by the caller
		logger.Infof("using Redis with key prefix %q", cfg.Redis.KeyPrefix)
		return repository.NewRedisRepo(rdb, cfg.Redis.KeyPrefix), noop, nil

	default:
		logger.Infof("using memory-backed repo")
		return repository.NewMemoryRepo(), noop, nil
	}
}

package storage

import (
	"context"
	"fmt"
	"time"

	"go-resupply-order/internal/config"
	"go-resupply-order/pkg/database"
	"go-resupply-order/pkg/docstore"

	"go.uber.org/zap"
)

// Open connects the document store selected by cfg.StoreDriver and, when
// REDIS_ADDR is set, puts the catalog cache in front of it. The returned
// close func releases every connection that was opened.
func Open(cfg *config.Config, log *zap.Logger) (docstore.Store, func(), error) {
	var (
		store   docstore.Store
		closers []func()
	)
	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	switch cfg.StoreDriver {
	case config.DriverPostgres:
		db, err := database.ConnectPostgres(cfg.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("postgres: %w", err)
		}
		gs := docstore.NewGormStore(db)
		if err := gs.Migrate(); err != nil {
			return nil, nil, fmt.Errorf("postgres migrate: %w", err)
		}
		if sqlDB, err := db.DB(); err == nil {
			closers = append(closers, func() { sqlDB.Close() })
		}
		store = gs
	case config.DriverMongo:
		client, err := database.ConnectMongo(cfg.MongoURI)
		if err != nil {
			return nil, nil, fmt.Errorf("mongo: %w", err)
		}
		closers = append(closers, func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			client.Disconnect(ctx)
		})
		store = docstore.NewMongoStore(client.Database(cfg.MongoDatabase))
	default:
		log.Warn("using in-memory document store, data is lost on restart")
		store = docstore.NewMemoryStore()
	}
	log.Info("document store ready", zap.String("driver", cfg.StoreDriver))

	if cfg.RedisAddr != "" {
		rdb, err := database.ConnectRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			closeAll()
			return nil, nil, fmt.Errorf("redis: %w", err)
		}
		closers = append(closers, func() { rdb.Close() })
		store = docstore.NewCachedStore(store, rdb, cfg.CatalogCacheTTL, log)
		log.Info("catalog cache enabled", zap.String("addr", cfg.RedisAddr), zap.Duration("ttl", cfg.CatalogCacheTTL))
	}

	return store, closeAll, nil
}

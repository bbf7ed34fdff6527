package main

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/entitysearch/internal/config"
	"github.com/kailas-cloud/entitysearch/internal/db"
	dbRedis "github.com/kailas-cloud/entitysearch/internal/db/redis"
	"github.com/kailas-cloud/entitysearch/internal/metrics"
	"github.com/kailas-cloud/entitysearch/internal/repository/respcache"
	"github.com/kailas-cloud/entitysearch/internal/transport/elastic"
	"github.com/kailas-cloud/entitysearch/internal/transport/ws"
	healthuc "github.com/kailas-cloud/entitysearch/internal/usecase/health"
	searchuc "github.com/kailas-cloud/entitysearch/internal/usecase/search"
)

// backend is a search backend that can report its availability.
type backend interface {
	searchuc.Backend
	healthuc.Pinger
}

// buildBackend creates the configured search backend.
func buildBackend(cfg config.BackendConfig) (backend, error) {
	switch cfg.Driver {
	case config.BackendWS:
		c, err := ws.New(ws.Config{
			BaseURL:   cfg.WS.BaseURL,
			UserAgent: cfg.WS.UserAgent,
			Timeout:   time.Duration(cfg.WS.TimeoutSec) * time.Second,
		}, nil)
		if err != nil {
			return nil, fmt.Errorf("web service backend: %w", err)
		}
		return c, nil
	case config.BackendElastic:
		c, err := elastic.New(elastic.Config{
			Addresses:   cfg.Elastic.Addrs,
			Username:    cfg.Elastic.Username,
			Password:    cfg.Elastic.Password,
			IndexPrefix: cfg.Elastic.IndexPrefix,
		})
		if err != nil {
			return nil, fmt.Errorf("elasticsearch backend: %w", err)
		}
		return c, nil
	}
	return nil, fmt.Errorf("unknown backend driver %q", cfg.Driver)
}

// buildCache connects the response cache store. It returns nil when the
// cache is disabled.
func buildCache(ctx context.Context, cfg config.CacheConfig, logger *zap.Logger) (db.Store, error) {
	if !cfg.Enabled {
		return nil, nil
	}
	// valkey and redis speak the same protocol for plain key-value use.
	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:          cfg.Addrs,
		Username:       cfg.Username,
		Password:       cfg.Password,
		DB:             cfg.DB,
		ClientCacheTTL: time.Duration(cfg.ClientCacheTTLSec) * time.Second,
	})
	if err != nil {
		return nil, fmt.Errorf("create %s cache store: %w", cfg.Driver, err)
	}
	if err := store.WaitForReady(ctx, time.Duration(cfg.ReadinessTimeout)*time.Second); err != nil {
		store.Close()
		return nil, fmt.Errorf("cache not ready: %w", err)
	}
	logger.Info("Connected to response cache",
		zap.String("driver", cfg.Driver),
		zap.Strings("addrs", cfg.Addrs),
	)
	return store, nil
}

// withCache decorates b with the response cache when store is set.
func withCache(b searchuc.Backend, store db.Store, cfg config.Config, logger *zap.Logger) searchuc.Backend {
	if store == nil {
		return b
	}
	return respcache.New(b, store, cfg.Backend.Driver, time.Duration(cfg.Cache.TTLSec)*time.Second,
		metrics.ResponseCacheTotal, logger)
}

// Package respcache caches search backend responses in a key-value store.
package respcache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/entitysearch/internal/db"
	"github.com/kailas-cloud/entitysearch/internal/domain/search/request"
	"github.com/kailas-cloud/entitysearch/internal/domain/search/result"
)

// KeyPrefix namespaces all cache keys.
const KeyPrefix = "entitysearch:resp:"

// Backend is the decorated search backend.
type Backend interface {
	Search(ctx context.Context, req request.Request) (result.Response, error)
}

// store is the consumer interface for the response cache.
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Del(ctx context.Context, key string) error
}

// CachedBackend serves repeated requests from the store. Store failures are
// logged and never fail a search.
type CachedBackend struct {
	inner      Backend
	store      store
	namespace  string
	ttl        time.Duration
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger
}

// New creates a caching decorator. namespace separates backends sharing a
// store. cacheTotal is a counter vec with label "result" and may be nil.
func New(
	inner Backend,
	s store,
	namespace string,
	ttl time.Duration,
	cacheTotal *prometheus.CounterVec,
	logger *zap.Logger,
) *CachedBackend {
	return &CachedBackend{
		inner:      inner,
		store:      s,
		namespace:  namespace,
		ttl:        ttl,
		cacheTotal: cacheTotal,
		logger:     logger,
	}
}

// Search returns a cached response or calls the inner backend.
// Failed searches are not cached.
func (c *CachedBackend) Search(ctx context.Context, req request.Request) (result.Response, error) {
	key := c.cacheKey(req)

	if resp, ok := c.getFromCache(ctx, key); ok {
		c.incCache("hit")
		return resp, nil
	}

	c.incCache("miss")

	resp, err := c.inner.Search(ctx, req)
	if err != nil {
		return result.Response{}, fmt.Errorf("search %s: %w", req.Kind(), err)
	}

	c.putToCache(ctx, key, resp)
	return resp, nil
}

func (c *CachedBackend) incCache(result string) {
	if c.cacheTotal != nil {
		c.cacheTotal.WithLabelValues(result).Inc()
	}
}

func (c *CachedBackend) cacheKey(req request.Request) string {
	return KeyPrefix + c.namespace + ":" + req.Key()
}

func (c *CachedBackend) getFromCache(ctx context.Context, key string) (result.Response, bool) {
	data, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, db.ErrKeyNotFound) {
			c.logger.Warn("Failed to get cached response", zap.String("key", key), zap.Error(err))
		}
		return result.Response{}, false
	}

	var resp result.Response
	if err := json.Unmarshal(data, &resp); err != nil {
		c.logger.Warn("Dropping corrupt cached response", zap.String("key", key), zap.Error(err))
		if err := c.store.Del(ctx, key); err != nil {
			c.logger.Warn("Failed to delete cached response", zap.String("key", key), zap.Error(err))
		}
		return result.Response{}, false
	}
	if resp.Items == nil {
		resp.Items = []json.RawMessage{}
	}
	return resp, true
}

func (c *CachedBackend) putToCache(ctx context.Context, key string, resp result.Response) {
	data, err := json.Marshal(resp)
	if err != nil {
		c.logger.Warn("Failed to encode response for cache", zap.String("key", key), zap.Error(err))
		return
	}
	if err := c.store.SetWithTTL(ctx, key, data, c.ttl); err != nil {
		c.logger.Warn("Failed to cache response", zap.String("key", key), zap.Error(err))
	}
}

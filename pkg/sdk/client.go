package entitysearch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/entitysearch/internal/db"
	dbRedis "github.com/kailas-cloud/entitysearch/internal/db/redis"
	"github.com/kailas-cloud/entitysearch/internal/domain"
	"github.com/kailas-cloud/entitysearch/internal/domain/entity/kind"
	"github.com/kailas-cloud/entitysearch/internal/domain/search/field"
	"github.com/kailas-cloud/entitysearch/internal/domain/search/page"
	"github.com/kailas-cloud/entitysearch/internal/normalize"
	"github.com/kailas-cloud/entitysearch/internal/repository/respcache"
	"github.com/kailas-cloud/entitysearch/internal/transport/elastic"
	"github.com/kailas-cloud/entitysearch/internal/transport/ws"
	healthuc "github.com/kailas-cloud/entitysearch/internal/usecase/health"
	searchuc "github.com/kailas-cloud/entitysearch/internal/usecase/search"
	"github.com/kailas-cloud/entitysearch/internal/version"
)

const (
	defaultReadinessTimeout = 10 * time.Second
	defaultCacheTTL         = 5 * time.Minute
)

// Internal interfaces, swapped out in tests.
type searchUseCase interface {
	Search(ctx context.Context, k kind.Kind, query string, pageNum int) (page.Page, error)
}

type healthUseCase interface {
	Check(ctx context.Context) healthuc.Report
}

type backend interface {
	searchuc.Backend
	healthuc.Pinger
}

// Client is the entitysearch SDK entry point. It is safe for concurrent use.
type Client struct {
	store     db.Store
	catalog   *field.Catalog
	searchSvc searchUseCase
	healthSvc healthUseCase
	obs       *observer
}

// New creates a Client. Without options it searches the public MusicBrainz
// web service with no response cache. When a cache is configured the
// provided context bounds its readiness check.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{backend: "ws", cacheTTL: defaultCacheTTL}
	for _, o := range opts {
		o.apply(cfg)
	}

	catalog, err := field.Load(cfg.optionsPath)
	if err != nil {
		return nil, fmt.Errorf("entitysearch: %w", err)
	}
	b, err := createBackend(cfg)
	if err != nil {
		return nil, err
	}
	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	store, err := createStore(cfg)
	if err != nil {
		return nil, err
	}
	var searchBackend searchuc.Backend = b
	var cachePinger healthuc.Pinger
	if store != nil {
		if err := store.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
			store.Close()
			return nil, fmt.Errorf("entitysearch: cache not ready: %w", err)
		}
		searchBackend = respcache.New(b, store, cfg.backend, cfg.cacheTTL, nil, zap.NewNop())
		cachePinger = store
	}

	return &Client{
		store:     store,
		catalog:   catalog,
		searchSvc: searchuc.New(searchBackend, normalize.New()),
		healthSvc: healthuc.New(b, cachePinger),
		obs:       obs,
	}, nil
}

func createBackend(cfg *clientConfig) (backend, error) {
	switch cfg.backend {
	case "ws":
		ua := cfg.userAgent
		if ua == "" {
			ua = version.UserAgent()
		}
		c, err := ws.New(ws.Config{BaseURL: cfg.wsURL, UserAgent: ua, Timeout: cfg.timeout}, nil)
		if err != nil {
			return nil, fmt.Errorf("entitysearch: %w", err)
		}
		return c, nil
	case "elastic":
		c, err := elastic.New(elastic.Config{Addresses: cfg.esAddrs, IndexPrefix: cfg.indexPrefix})
		if err != nil {
			return nil, fmt.Errorf("entitysearch: %w", err)
		}
		return c, nil
	default:
		return nil, fmt.Errorf("entitysearch: unknown backend %q", cfg.backend)
	}
}

// createStore returns nil when no cache is configured.
func createStore(cfg *clientConfig) (db.Store, error) {
	switch cfg.cacheDriver {
	case "":
		return nil, nil
	case "valkey", "redis":
		s, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.cacheAddrs,
			Password: cfg.cachePassword,
		})
		if err != nil {
			return nil, fmt.Errorf("entitysearch: create %s store: %w", cfg.cacheDriver, err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("entitysearch: unknown cache driver %q", cfg.cacheDriver)
	}
}

// Close releases all resources.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// Kinds lists the searchable entity kinds by resource name (release-group).
func (c *Client) Kinds() []string {
	out := make([]string, len(kind.All))
	for i, k := range kind.All {
		out[i] = k.Resource()
	}
	return out
}

// Fields lists the searchable fields of entity in display order.
func (c *Client) Fields(entity string) ([]Field, error) {
	k, ok := kind.Parse(entity)
	if !ok {
		return nil, fmt.Errorf("%q: %w", entity, domain.ErrUnknownKind)
	}
	descriptors := c.catalog.Fields(k)
	out := make([]Field, len(descriptors))
	for i, d := range descriptors {
		out[i] = toField(d)
	}
	return out, nil
}

// Search runs a raw Lucene query against entity and returns page pageNum
// (1-based) of normalized hits.
func (c *Client) Search(ctx context.Context, entity, query string, pageNum int) (p Page, err error) {
	k, ok := kind.Parse(entity)
	if !ok {
		return Page{}, fmt.Errorf("%q: %w", entity, domain.ErrUnknownKind)
	}
	start := time.Now()
	defer func() { c.obs.observe(k.Resource(), start, err) }()

	p, err = c.searchSvc.Search(ctx, k, query, pageNum)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return Page{}, err
		}
		return Page{}, fmt.Errorf("search %s: %w", k.Resource(), err)
	}
	return p, nil
}

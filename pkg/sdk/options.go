package entitysearch

import (
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	backend string // "ws" or "elastic"

	wsURL       string
	userAgent   string
	timeout     time.Duration
	esAddrs     []string
	indexPrefix string

	cacheDriver   string // "valkey", "redis" or empty
	cacheAddrs    []string
	cachePassword string
	cacheTTL      time.Duration

	optionsPath string

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// WithWebService searches the MusicBrainz web service at baseURL (the public
// server when empty). MusicBrainz asks clients to send an identifying
// userAgent; a default one is used when empty.
func WithWebService(baseURL, userAgent string) Option {
	return optionFunc(func(c *clientConfig) {
		c.backend = "ws"
		c.wsURL = baseURL
		c.userAgent = userAgent
	})
}

// WithElasticsearch searches an Elasticsearch mirror of the search indexes.
// Index names are indexPrefix followed by the plural resource name.
func WithElasticsearch(indexPrefix string, addrs ...string) Option {
	return optionFunc(func(c *clientConfig) {
		c.backend = "elastic"
		c.esAddrs = addrs
		c.indexPrefix = indexPrefix
	})
}

// WithTimeout bounds each web service request. Zero (default) means no timeout.
func WithTimeout(d time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.timeout = d
	})
}

// WithValkey caches backend responses in a Valkey instance.
func WithValkey(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.cacheDriver = "valkey"
		c.cacheAddrs = []string{addr}
		c.cachePassword = password
	})
}

// WithRedis caches backend responses in a Redis instance.
func WithRedis(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.cacheDriver = "redis"
		c.cacheAddrs = []string{addr}
		c.cachePassword = password
	})
}

// WithCacheTTL sets how long cached responses live. Default: 5 minutes.
func WithCacheTTL(ttl time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.cacheTTL = ttl
	})
}

// WithOptionSets overrides option sets (countries, languages, ...) from a
// YAML file.
func WithOptionSets(path string) Option {
	return optionFunc(func(c *clientConfig) {
		c.optionsPath = path
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}

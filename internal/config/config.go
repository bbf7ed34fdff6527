package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kailas-cloud/entitysearch/internal/version"
)

// Backend drivers.
const (
	BackendWS      = "ws"
	BackendElastic = "elastic"
)

// Config holds the entitysearch service configuration.
type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Backend  BackendConfig  `yaml:"backend"`
	Cache    CacheConfig    `yaml:"cache"`
	Sessions SessionsConfig `yaml:"sessions"`
	Catalog  CatalogConfig  `yaml:"catalog"`
	Auth     AuthConfig     `yaml:"auth"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds API authentication settings.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
	// AllowedOrigins are the origin patterns accepted on session streams.
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// BackendConfig selects and configures the search backend.
type BackendConfig struct {
	Driver  string        `yaml:"driver"` // ws, elastic (default: ws)
	WS      WSConfig      `yaml:"ws"`
	Elastic ElasticConfig `yaml:"elastic"`
}

// WSConfig holds MusicBrainz web service settings.
type WSConfig struct {
	BaseURL   string `yaml:"base_url"`
	UserAgent string `yaml:"user_agent"`
	// TimeoutSec bounds one request; 0 means no timeout.
	TimeoutSec int `yaml:"timeout_sec"`
}

// ElasticConfig holds Elasticsearch settings.
type ElasticConfig struct {
	Addrs       []string `yaml:"addrs"`
	Username    string   `yaml:"username"`
	Password    string   `yaml:"password"`
	IndexPrefix string   `yaml:"index_prefix"`
}

// CacheConfig holds the response cache settings.
type CacheConfig struct {
	Enabled           bool     `yaml:"enabled"`
	Driver            string   `yaml:"driver"` // valkey, redis (default: valkey)
	Addrs             []string `yaml:"addrs"`
	Username          string   `yaml:"username"`
	Password          string   `yaml:"password"`
	DB                int      `yaml:"db"`
	TTLSec            int      `yaml:"ttl_sec"`
	ClientCacheTTLSec int      `yaml:"client_cache_ttl_sec"`
	ReadinessTimeout  int      `yaml:"readiness_timeout_sec"`
}

// SessionsConfig holds search session expiry settings. Zero disables a timeout.
type SessionsConfig struct {
	MaxAgeSec       int    `yaml:"max_age_sec"`
	IdleTimeoutSec  int    `yaml:"idle_timeout_sec"`
	CleanupSchedule string `yaml:"cleanup_schedule"`
}

// CatalogConfig points at an optional option set override file.
type CatalogConfig struct {
	OptionsPath string `yaml:"options_path"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	return LoadFile(findConfigPath(env))
}

// LoadFile reads configuration from the YAML file at path.
func LoadFile(path string) (Config, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes, defaults and validates a YAML configuration document.
// ${VAR} and ${VAR:-default} are substituted from the environment first.
func Parse(data []byte) (Config, error) {
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 30
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Backend.Driver == "" {
		c.Backend.Driver = BackendWS
	}
	if c.Backend.WS.BaseURL == "" {
		c.Backend.WS.BaseURL = "https://musicbrainz.org/ws/2"
	}
	if c.Backend.WS.UserAgent == "" {
		c.Backend.WS.UserAgent = version.UserAgent()
	}
	if c.Cache.Driver == "" {
		c.Cache.Driver = "valkey"
	}
	if c.Cache.TTLSec <= 0 {
		c.Cache.TTLSec = 300
	}
	if c.Cache.ReadinessTimeout <= 0 {
		c.Cache.ReadinessTimeout = 10
	}
	if c.Sessions.CleanupSchedule == "" {
		c.Sessions.CleanupSchedule = "@every 1m"
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	switch c.Backend.Driver {
	case BackendWS:
		if c.Backend.WS.TimeoutSec < 0 {
			return fmt.Errorf("backend.ws.timeout_sec must not be negative")
		}
	case BackendElastic:
		if len(c.Backend.Elastic.Addrs) == 0 {
			return fmt.Errorf("backend.elastic.addrs is required")
		}
	default:
		return fmt.Errorf("backend.driver must be %q or %q, got %q", BackendWS, BackendElastic, c.Backend.Driver)
	}
	if c.Cache.Enabled {
		switch c.Cache.Driver {
		case "valkey", "redis":
		default:
			return fmt.Errorf("cache.driver must be \"valkey\" or \"redis\", got %q", c.Cache.Driver)
		}
		if len(c.Cache.Addrs) == 0 {
			return fmt.Errorf("cache.addrs is required when the cache is enabled")
		}
	}
	if c.Sessions.MaxAgeSec < 0 || c.Sessions.IdleTimeoutSec < 0 {
		return fmt.Errorf("sessions timeouts must not be negative")
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}

package config

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Session storage backends.
const (
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendMongo    = "mongo"
	BackendPostgres = "postgres"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	API     APIConfig
	Session SessionConfig
	Guard   GuardConfig
	Export  ExportConfig

	Mongo    MongoConfig
	Redis    RedisConfig
	Postgres PostgresConfig
}

type APIConfig struct {
	BaseURL       string        `env:"API_BASE_URL,   default=http://localhost:5000"`
	Timeout       time.Duration `env:"API_TIMEOUT,    default=8s"`
	LogoutTimeout time.Duration `env:"LOGOUT_TIMEOUT, default=3s"`
}

// SessionConfig selects the session backend. PurgeInterval is how often the
// memory and postgres backends delete expired tab sessions.
type SessionConfig struct {
	Backend       string        `env:"SESSION_BACKEND,        default=memory"`
	TTL           time.Duration `env:"SESSION_TTL,            default=12h"`
	CookieName    string        `env:"SESSION_COOKIE_NAME,    default=tab_id"`
	CookieSecure  bool          `env:"SESSION_COOKIE_SECURE,  default=false"`
	PurgeInterval time.Duration `env:"SESSION_PURGE_INTERVAL, default=10m"`
}

type GuardConfig struct {
	// DefaultDeny treats paths missing from the route table as protected.
	DefaultDeny bool `env:"GUARD_DEFAULT_DENY, default=false"`
}

type ExportConfig struct {
	Workers         int           `env:"EXPORT_WORKERS,           default=4"`
	PollInterval    time.Duration `env:"EXPORT_POLL_INTERVAL,     default=2s"`
	PollMaxAttempts int           `env:"EXPORT_POLL_MAX_ATTEMPTS, default=30"`
	// Retention bounds how long in-process export tasks are kept.
	Retention time.Duration `env:"EXPORT_RETENTION, default=24h"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=household_frontend"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
}

// PostgresConfig applies to the postgres backend.
type PostgresConfig struct {
	URL string `env:"DATABASE_URL"`
}

// IsDevelopment reports whether ENV selects the development profile.
func (c *Config) IsDevelopment() bool {
	return strings.EqualFold(c.Env, "development")
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	cfg, err := LoadWith(context.Background(), envconfig.OsLookuper())
	if err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return cfg
}

// LoadWith reads configuration through l and validates it.
func LoadWith(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	c.Session.Backend = strings.ToLower(strings.TrimSpace(c.Session.Backend))
	switch c.Session.Backend {
	case BackendMemory, BackendRedis, BackendMongo:
	case BackendPostgres:
		if c.Postgres.URL == "" {
			return fmt.Errorf("DATABASE_URL: required for the postgres backend")
		}
	default:
		return fmt.Errorf("SESSION_BACKEND: unsupported backend %q", c.Session.Backend)
	}
	if c.API.BaseURL == "" {
		return fmt.Errorf("API_BASE_URL: must not be empty")
	}
	if c.Session.CookieName == "" {
		return fmt.Errorf("SESSION_COOKIE_NAME: must not be empty")
	}
	return nil
}

package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	API      APIConfig
	Session  SessionConfig
	Mongo    MongoConfig
	Redis    RedisConfig
	Workers  WorkerConfig
	Metrics  MetricsConfig
	Shutdown time.Duration `env:"SHUTDOWN_TIMEOUT, default=10s"`
}

// APIConfig points at the remote auth and CRUD API.
type APIConfig struct {
	BaseURL string        `env:"API_BASE_URL, default=http://localhost:5000/api"`
	Timeout time.Duration `env:"API_TIMEOUT,  default=10s"`
}

type SessionConfig struct {
	// VerifyKey enables HS256 signature checks on session tokens. Empty
	// means tokens are decoded without verification.
	VerifyKey    string        `env:"SESSION_VERIFY_KEY"`
	CookieSecure bool          `env:"SESSION_COOKIE_SECURE, default=false"`
	CookieMaxAge time.Duration `env:"SESSION_COOKIE_MAX_AGE, default=24h"`
	LogoutWait   time.Duration `env:"SESSION_LOGOUT_TIMEOUT, default=3s"`
}

type MongoConfig struct {
	URI        string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database   string `env:"MONGO_DB,  default=labportal"`
	Collection string `env:"MONGO_TRANSACTIONS_COLLECTION, default=transactions"`
	// Enabled turns the transaction audit log on.
	Enabled bool `env:"MONGO_ENABLED, default=true"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR, default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,   default=0"`
	Enabled  bool   `env:"REDIS_ENABLED, default=true"`
	// SubmissionWindow is how long an identical reservation is refused.
	SubmissionWindow time.Duration `env:"SUBMISSION_WINDOW, default=30s"`
}

type WorkerConfig struct {
	Count     int `env:"TRANSACTION_WORKERS,   default=4"`
	QueueSize int `env:"TRANSACTION_QUEUE_SIZE, default=256"`
}

type MetricsConfig struct {
	Enabled bool `env:"METRICS_ENABLED, default=true"`
}

// Development reports whether the process runs in the development env.
func (c *Config) Development() bool { return c.Env == "development" }

// Load reads configuration from the environment. A .env file in the working
// directory, when present, is applied first without overriding variables
// that are already set.
func Load(ctx context.Context) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("config: load .env: %w", err)
	}
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: lookuper}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if cfg.Workers.Count <= 0 {
		return nil, fmt.Errorf("config: TRANSACTION_WORKERS must be positive, got %d", cfg.Workers.Count)
	}
	return &cfg, nil
}

// MustLoad is Load for process start-up: it panics on error.
func MustLoad(ctx context.Context) *Config {
	cfg, err := Load(ctx)
	if err != nil {
		panic(err)
	}
	return cfg
}

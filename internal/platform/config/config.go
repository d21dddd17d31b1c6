package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Server captures process level configuration.
type Server struct {
	Addr          string
	LogLevel      string
	LogFormat     string
	JWTSigningKey string
	JWTIssuer     string
	// StoreBackend selects registries and match store: memory or postgres.
	StoreBackend string
	DatabaseURL  string
	// LedgerBackend selects the ledger store: memory, postgres or sqlite.
	LedgerBackend string
	SQLitePath    string
	CommitTimeout time.Duration
	Redis         RedisConfig
	Kafka         KafkaConfig
	Outbox        OutboxConfig
}

// RedisConfig configures the shared tenant lock. An empty URL selects the
// in-process lock.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	// LockTTL is how long a crashed replica can block a tenant. Live holders
	// extend the lease every LockTTL/3.
	LockTTL time.Duration
}

// KafkaConfig configures ledger publication. No brokers disables it.
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

type OutboxConfig struct {
	Dir             string
	PublishInterval time.Duration
}

const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
	BackendSQLite   = "sqlite"
)

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() (Server, error) {
	cfg := Server{
		Addr:          envOr("ORGANMATCH_ADDR", ":8080"),
		LogLevel:      envOr("LOG_LEVEL", "info"),
		LogFormat:     envOr("LOG_FORMAT", "json"),
		JWTSigningKey: envOr("JWT_SIGNING_KEY", "dev-secret-key-change-in-production"),
		JWTIssuer:     envOr("JWT_ISSUER", "organmatch"),
		StoreBackend:  envOr("STORE_BACKEND", BackendMemory),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		LedgerBackend: envOr("LEDGER_BACKEND", BackendMemory),
		SQLitePath:    envOr("SQLITE_PATH", "data/ledger.db"),
		Redis: RedisConfig{
			URL: os.Getenv("REDIS_URL"),
		},
		Kafka: KafkaConfig{
			Brokers: splitList(os.Getenv("KAFKA_BROKERS")),
			Topic:   envOr("KAFKA_TOPIC", "transplants.committed"),
		},
		Outbox: OutboxConfig{
			Dir: envOr("OUTBOX_DIR", "data/outbox"),
		},
	}

	var err error
	if cfg.CommitTimeout, err = durationEnv("COMMIT_TIMEOUT", 5*time.Second); err != nil {
		return Server{}, err
	}
	if cfg.Redis.LockTTL, err = durationEnv("LOCK_TTL", 10*time.Second); err != nil {
		return Server{}, err
	}
	if cfg.Redis.DialTimeout, err = durationEnv("REDIS_DIAL_TIMEOUT", 5*time.Second); err != nil {
		return Server{}, err
	}
	if cfg.Redis.ReadTimeout, err = durationEnv("REDIS_READ_TIMEOUT", 3*time.Second); err != nil {
		return Server{}, err
	}
	if cfg.Redis.WriteTimeout, err = durationEnv("REDIS_WRITE_TIMEOUT", 3*time.Second); err != nil {
		return Server{}, err
	}
	if cfg.Redis.PoolSize, err = intEnv("REDIS_POOL_SIZE", 10); err != nil {
		return Server{}, err
	}
	if cfg.Redis.MinIdleConns, err = intEnv("REDIS_MIN_IDLE_CONNS", 2); err != nil {
		return Server{}, err
	}
	if cfg.Outbox.PublishInterval, err = durationEnv("PUBLISH_INTERVAL", 2*time.Second); err != nil {
		return Server{}, err
	}
	return cfg, cfg.Validate()
}

// Validate rejects backend combinations that cannot start.
func (c Server) Validate() error {
	switch c.StoreBackend {
	case BackendMemory:
	case BackendPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("STORE_BACKEND=postgres requires DATABASE_URL")
		}
	default:
		return fmt.Errorf("unsupported STORE_BACKEND %q", c.StoreBackend)
	}
	switch c.LedgerBackend {
	case BackendMemory, BackendSQLite:
	case BackendPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("LEDGER_BACKEND=postgres requires DATABASE_URL")
		}
	default:
		return fmt.Errorf("unsupported LEDGER_BACKEND %q", c.LedgerBackend)
	}
	if c.CommitTimeout <= 0 {
		return fmt.Errorf("COMMIT_TIMEOUT must be positive")
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func durationEnv(key string, fallback time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

func intEnv(key string, fallback int) (int, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

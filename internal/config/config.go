package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"
)

type Config struct {
	Port        string
	StoreDriver string

	// Postgres
	DatabaseURL string

	// MongoDB
	MongoURI      string
	MongoDatabase string

	// Redis catalog cache, disabled when RedisAddr is empty
	RedisAddr       string
	RedisPassword   string
	RedisDB         int
	CatalogCacheTTL time.Duration

	// RabbitMQ order events, disabled when AMQPURL is empty
	AMQPURL    string
	OrderQueue string

	Budget         decimal.Decimal
	CurrencySymbol string
	Sections       []string
	CatalogCap     int
	SessionTTL     time.Duration
	MaxSessions    int
	PruneInterval  time.Duration
	LogLevel       string
}

// Load reads the configuration from the environment. Call godotenv.Load
// first if a .env file should be honoured.
func Load() (*Config, error) {
	cfg := &Config{
		Port:           getEnv("PORT", "3000"),
		StoreDriver:    strings.ToLower(getEnv("STORE_DRIVER", DriverMemory)),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		MongoURI:       getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase:  getEnv("MONGO_DATABASE", "resupply"),
		RedisAddr:      os.Getenv("REDIS_ADDR"),
		RedisPassword:  os.Getenv("REDIS_PASSWORD"),
		AMQPURL:        os.Getenv("AMQP_URL"),
		OrderQueue:     getEnv("ORDER_QUEUE", "order.submitted"),
		CurrencySymbol: getEnv("CURRENCY_SYMBOL", "£"),
		Sections:       splitList(getEnv("SECTIONS", "Kitchen,Bar,Front of House")),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = fmt.Sprintf(
			"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
			getEnv("DB_HOST", "localhost"),
			getEnv("DB_USER", "postgres"),
			os.Getenv("DB_PASSWORD"),
			getEnv("DB_NAME", "resupply"),
			getEnv("DB_PORT", "5432"),
		)
	}

	switch cfg.StoreDriver {
	case DriverMemory, DriverPostgres, DriverMongo:
	default:
		return nil, fmt.Errorf("STORE_DRIVER: unsupported driver %q", cfg.StoreDriver)
	}

	var err error
	if cfg.RedisDB, err = strconv.Atoi(getEnv("REDIS_DB", "0")); err != nil {
		return nil, fmt.Errorf("REDIS_DB: %w", err)
	}
	if cfg.CatalogCacheTTL, err = time.ParseDuration(getEnv("CATALOG_CACHE_TTL", "5m")); err != nil {
		return nil, fmt.Errorf("CATALOG_CACHE_TTL: %w", err)
	}
	if cfg.SessionTTL, err = time.ParseDuration(getEnv("SESSION_TTL", "24h")); err != nil {
		return nil, fmt.Errorf("SESSION_TTL: %w", err)
	}
	if cfg.MaxSessions, err = strconv.Atoi(getEnv("MAX_SESSIONS", "10000")); err != nil {
		return nil, fmt.Errorf("MAX_SESSIONS: %w", err)
	}
	if cfg.PruneInterval, err = time.ParseDuration(getEnv("SESSION_PRUNE_INTERVAL", "1m")); err != nil {
		return nil, fmt.Errorf("SESSION_PRUNE_INTERVAL: %w", err)
	}
	if cfg.PruneInterval <= 0 {
		return nil, fmt.Errorf("SESSION_PRUNE_INTERVAL: must be positive, got %s", cfg.PruneInterval)
	}
	if cfg.Budget, err = decimal.NewFromString(getEnv("BUDGET", "500")); err != nil {
		return nil, fmt.Errorf("BUDGET: %w", err)
	}
	if cfg.CatalogCap, err = strconv.Atoi(getEnv("CATALOG_CAP", "50")); err != nil {
		return nil, fmt.Errorf("CATALOG_CAP: %w", err)
	}
	if cfg.CatalogCap <= 0 {
		return nil, fmt.Errorf("CATALOG_CAP: must be positive, got %d", cfg.CatalogCap)
	}

	return cfg, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

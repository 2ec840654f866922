package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all process configuration. It is loaded once in main
// and passed into every constructor that needs it.
type Config struct {
	Port        string
	Environment string

	// Store
	StoreDriver    string
	TasksKeyspace  string
	RedisAddr      string
	RedisPassword  string
	RedisDB        int
	DatabasePath   string
	MigrationsPath string

	// HTTP
	CORSAllowOrigin string

	// Logging
	LogLevel string

	// Rate Limiting
	RateLimitEnabled bool
	RateLimitWindow  time.Duration

	// Telemetry
	TelemetryEnabled bool
	OTLPEndpoint     string
	ServiceName      string
	ServiceVersion   string
}

// Load reads configuration from the environment. TASKS_KEYSPACE is the
// only required key; everything else has a default.
func Load() (*Config, error) {
	keyspace := os.Getenv("TASKS_KEYSPACE")

	if keyspace == "" {
		return nil, fmt.Errorf("TASKS_KEYSPACE is required")
	}

	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))

	cfg := &Config{
		Port:             getEnv("PORT", "8080"),
		Environment:      getEnv("ENVIRONMENT", "development"),
		StoreDriver:      getEnv("STORE_DRIVER", "redis"),
		TasksKeyspace:    keyspace,
		RedisAddr:        getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:    os.Getenv("REDIS_PASSWORD"),
		RedisDB:          redisDB,
		DatabasePath:     getEnv("DATABASE_PATH", "tasks.db"),
		MigrationsPath:   getEnv("MIGRATIONS_PATH", "db/migrations"),
		CORSAllowOrigin:  getEnv("CORS_ALLOW_ORIGIN", "*"),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		RateLimitEnabled: getBool("RATE_LIMIT_ENABLED", false),
		RateLimitWindow:  time.Minute,
		TelemetryEnabled: getBool("TELEMETRY_ENABLED", false),
		OTLPEndpoint:     getEnv("OTLP_ENDPOINT", "localhost:4317"),
		ServiceName:      getEnv("SERVICE_NAME", "taskapi"),
		ServiceVersion:   getEnv("SERVICE_VERSION", "1.0.0"),
	}

	switch cfg.StoreDriver {
	case "redis", "sqlite", "memory":
	default:
		return nil, fmt.Errorf("unknown STORE_DRIVER %q", cfg.StoreDriver)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}

	return fallback
}

func getBool(key string, fallback bool) bool {
	value := os.Getenv(key)

	if value == "" {
		return fallback
	}

	parsed, err := strconv.ParseBool(value)

	if err != nil {
		return fallback
	}

	return parsed
}

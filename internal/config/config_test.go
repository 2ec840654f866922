package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadRequiresKeyspace(t *testing.T) {
	t.Setenv("TASKS_KEYSPACE", "")

	_, err := Load()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "TASKS_KEYSPACE")
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("TASKS_KEYSPACE", "tasks")

	cfg, err := Load()

	assert.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "redis", cfg.StoreDriver)
	assert.Equal(t, "tasks", cfg.TasksKeyspace)
	assert.Equal(t, "*", cfg.CORSAllowOrigin)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.RateLimitEnabled)
	assert.False(t, cfg.TelemetryEnabled)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("TASKS_KEYSPACE", "tasks-prod")
	t.Setenv("STORE_DRIVER", "sqlite")
	t.Setenv("CORS_ALLOW_ORIGIN", "https://example.com")
	t.Setenv("RATE_LIMIT_ENABLED", "true")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()

	assert.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.StoreDriver)
	assert.Equal(t, "https://example.com", cfg.CORSAllowOrigin)
	assert.True(t, cfg.RateLimitEnabled)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadRejectsUnknownDriver(t *testing.T) {
	t.Setenv("TASKS_KEYSPACE", "tasks")
	t.Setenv("STORE_DRIVER", "dynamodb")

	_, err := Load()

	assert.Error(t, err)
}

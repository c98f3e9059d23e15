package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"PORT", "DATABASE_URL", "JWT_SECRET", "REDIS_URL", "AMQP_URL",
		"WS_QUEUE_SIZE", "WS_PING_INTERVAL", "LOW_STOCK_THRESHOLD", "DB_HOST", "DB_NAME"} {
		t.Setenv(key, "")
	}

	cfg := Load()

	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, 256, cfg.WSQueueSize)
	assert.Equal(t, 30*time.Second, cfg.WSPingInterval)
	assert.Equal(t, 10, cfg.LowStockThreshold)
	assert.Empty(t, cfg.RedisURL)
	assert.Empty(t, cfg.AMQPURL)
	assert.Contains(t, cfg.DatabaseURL, "host=localhost")
	assert.Contains(t, cfg.DatabaseURL, "dbname=pos")
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("DATABASE_URL", "postgres://pos@db/pos")
	t.Setenv("REDIS_URL", "redis://cache:6379/0")
	t.Setenv("WS_QUEUE_SIZE", "64")
	t.Setenv("WS_PING_INTERVAL", "10s")
	t.Setenv("LOW_STOCK_THRESHOLD", "5")

	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "postgres://pos@db/pos", cfg.DatabaseURL)
	assert.Equal(t, "redis://cache:6379/0", cfg.RedisURL)
	assert.Equal(t, 64, cfg.WSQueueSize)
	assert.Equal(t, 10*time.Second, cfg.WSPingInterval)
	assert.Equal(t, 5, cfg.LowStockThreshold)
}

func TestLoad_InvalidNumbersFallBack(t *testing.T) {
	t.Setenv("WS_QUEUE_SIZE", "-4")
	t.Setenv("WS_PING_INTERVAL", "soon")

	cfg := Load()

	assert.Equal(t, 256, cfg.WSQueueSize)
	assert.Equal(t, 30*time.Second, cfg.WSPingInterval)
}

package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/tasks")
	for _, k := range []string{"APP_PORT", "PORT", "APP_ENV", "LOG_LEVEL", "DB_MAX_CONNS", "DB_ACQUIRE_TIMEOUT", "AUTO_MIGRATE", "CORS_ORIGINS", "REDIS_ADDR"} {
		t.Setenv(k, "")
	}

	cfg := Load()

	assert.Equal(t, "3000", cfg.AppPort)
	assert.Equal(t, "development", cfg.AppEnv)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, int32(20), cfg.DBMaxConns)
	assert.Equal(t, 2*time.Second, cfg.DBAcquireTimeout)
	assert.Equal(t, 30*time.Second, cfg.DBMaxConnIdle)
	assert.True(t, cfg.AutoMigrate)
	assert.Empty(t, cfg.CORSAllowOrigin)
	assert.Empty(t, cfg.RedisAddr)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/tasks")
	t.Setenv("APP_PORT", "")
	t.Setenv("PORT", "8081")
	t.Setenv("DB_MAX_CONNS", "5")
	t.Setenv("DB_ACQUIRE_TIMEOUT", "500ms")
	t.Setenv("DB_QUERY_TIMEOUT", "3")
	t.Setenv("AUTO_MIGRATE", "false")
	t.Setenv("LOG_FORMAT", "json")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example,")

	cfg := Load()

	assert.Equal(t, "8081", cfg.AppPort)
	assert.Equal(t, int32(5), cfg.DBMaxConns)
	assert.Equal(t, 500*time.Millisecond, cfg.DBAcquireTimeout)
	assert.Equal(t, 3*time.Second, cfg.DBQueryTimeout)
	assert.False(t, cfg.AutoMigrate)
	assert.True(t, cfg.LogJSON)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowOrigin)
}

func TestLoad_InvalidNumberFallsBack(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/tasks")
	t.Setenv("DB_MAX_CONNS", "lots")
	t.Setenv("API_RATE_WINDOW_SECONDS", "-1")

	cfg := Load()

	assert.Equal(t, int32(20), cfg.DBMaxConns)
	assert.Equal(t, time.Minute, cfg.APIRateWindow)
}

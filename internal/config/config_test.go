package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "pour-signup-service", cfg.App.Name)
	assert.Equal(t, "0.0.0.0:5001", cfg.App.Addr())
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, int32(10), cfg.Postgres.MaxConns)
	assert.True(t, cfg.Postgres.RunMigrations)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("APP_PORT", "9090")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://pickyourpour.com, https://www.pickyourpour.com")
	t.Setenv("POSTGRES_RUN_MIGRATIONS", "false")
	t.Setenv("STAGING_UPLOAD_TTL_MINUTES", "15")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.App.Port)
	assert.Equal(t,
		[]string{"https://pickyourpour.com", "https://www.pickyourpour.com"},
		cfg.CORS.AllowedOrigins)
	assert.False(t, cfg.Postgres.RunMigrations)
	assert.Equal(t, 15, cfg.Storage.StagingTTLMinutes)
}

func TestLoadRejectsBadRedisDB(t *testing.T) {
	t.Setenv("REDIS_DB", "not-a-number")

	_, err := Load()
	assert.Error(t, err)
}

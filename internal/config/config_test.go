package config_test

import (
	"testing"

	"school-service/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("ENV", "test")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "test", cfg.Env)
	assert.Equal(t, "dev-secret-key-change-in-production", cfg.SecretKey)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, "5000", cfg.Server.Port)
	assert.Equal(t, "0.0.0.0:5000", cfg.Server.Addr())
	assert.False(t, cfg.Server.Debug)
	assert.Equal(t, 15, cfg.Server.ReadTimeout)
	assert.Equal(t, 25, cfg.Database.MaxOpenConns)
	assert.Contains(t, cfg.Database.URL, "postgres://")
	assert.Empty(t, cfg.NATS.URL)
	assert.Equal(t, "school.events", cfg.NATS.Subject)
	assert.Empty(t, cfg.Telemetry.OTLPEndpoint)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("ENV", "test")
	t.Setenv("SECRET_KEY", "s3cret")
	t.Setenv("DATABASE_URL", "postgres://u:p@db:5432/school?sslmode=disable")
	t.Setenv("HOST", "127.0.0.1")
	t.Setenv("PORT", "9090")
	t.Setenv("DEBUG", "true")
	t.Setenv("NATS_URL", "nats://nats:4222")
	t.Setenv("CORS_ORIGINS", "http://a.example,http://b.example")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "s3cret", cfg.SecretKey)
	assert.Equal(t, "postgres://u:p@db:5432/school?sslmode=disable", cfg.Database.URL)
	assert.Equal(t, "127.0.0.1:9090", cfg.Server.Addr())
	assert.True(t, cfg.Server.Debug)
	assert.Equal(t, "nats://nats:4222", cfg.NATS.URL)
	assert.Equal(t, []string{"http://a.example", "http://b.example"}, cfg.Server.CORSOrigins)
}

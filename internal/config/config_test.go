package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("API_PORT", "")
	t.Setenv("STORE", "")
	t.Setenv("CORS_ORIGINS", "")

	cfg := Load()
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, StorePostgres, cfg.Store)
	assert.Equal(t, 24, cfg.JWTExpiry)
	assert.Equal(t, []string{"http://localhost:3000", "http://localhost:5173"}, cfg.CORSOrigins)
	require.NoError(t, cfg.Validate())
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("API_PORT", "9090")
	t.Setenv("STORE", "Memory")
	t.Setenv("JWT_EXPIRY", "2")
	t.Setenv("SEED_DATA", "yes")
	t.Setenv("CORS_ORIGINS", "https://a.example, ,https://b.example")

	cfg := Load()
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, StoreMemory, cfg.Store)
	assert.Equal(t, 2, cfg.JWTExpiry)
	assert.True(t, cfg.SeedData)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
}

func TestValidate(t *testing.T) {
	t.Run("rejects unknown store", func(t *testing.T) {
		cfg := Load()
		cfg.Store = "mongo"
		assert.Error(t, cfg.Validate())
	})

	t.Run("rejects default secret in production", func(t *testing.T) {
		cfg := Load()
		cfg.Environment = "production"
		cfg.JWTSecret = "your-secret-key"
		assert.Error(t, cfg.Validate())

		cfg.JWTSecret = "s3cr3t"
		assert.NoError(t, cfg.Validate())
	})

	t.Run("rejects non-positive expiry", func(t *testing.T) {
		cfg := Load()
		cfg.RefreshExpiry = 0
		assert.Error(t, cfg.Validate())
	})
}

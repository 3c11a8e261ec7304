package config

import (
	"testing"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestParse_Defaults(t *testing.T) {
	cfg, err := parse(env.Options{Environment: map[string]string{
		"DATABASE_URL": "postgres://localhost/peliculas",
		"TOKEN_SECRET": testSecret,
	}})
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "dev", cfg.Environment)
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL)
	assert.Equal(t, "local", cfg.ImageStore)
	assert.Equal(t, "wwwroot/fotos", cfg.ImageDir)
	assert.Equal(t, "/fotos", cfg.ImageURLPrefix)
	assert.Equal(t, int64(10<<20), cfg.MaxUploadBytes)
	assert.True(t, cfg.MigrateOnStart)
	assert.False(t, cfg.IsEnvProd())
}

func TestParse_MissingRequired(t *testing.T) {
	_, err := parse(env.Options{Environment: map[string]string{
		"TOKEN_SECRET": testSecret,
	}})
	assert.Error(t, err)
}

func TestParse_WeakSecret(t *testing.T) {
	_, err := parse(env.Options{Environment: map[string]string{
		"DATABASE_URL": "postgres://localhost/peliculas",
		"TOKEN_SECRET": "short",
	}})
	assert.ErrorIs(t, err, ErrWeakTokenSecret)
}

func TestIsEnvProd(t *testing.T) {
	cfg := &Config{Environment: "prod"}
	assert.False(t, cfg.IsEnvProd(), "prod without DSN is not treated as prod")

	cfg.SentryDSN = "https://key@sentry.example/1"
	assert.True(t, cfg.IsEnvProd())
}

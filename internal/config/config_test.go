package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", "")
	t.Setenv("NODE_ENV", "")
	t.Setenv("ALLOWED_ORIGINS", "https://shop.example.com/, https://admin.example.com ,")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "development", cfg.Env)
	assert.False(t, cfg.IsProduction())
	assert.Equal(t, 60, cfg.Uploads.MaxVideoSeconds)
	assert.Equal(t, time.Minute, cfg.MaxVideoDuration())
	assert.Equal(t, 5, cfg.Uploads.MaxFiles)
	assert.Equal(t, int64(50*mb), cfg.Uploads.MaxFileBytes)
	assert.Equal(t, []string{"https://shop.example.com", "https://admin.example.com"}, cfg.AllowedOrigins)
}

func TestLoad_ProductionDatabaseURL(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("DATABASE_URL_PROD", "postgres://prod")
	t.Setenv("MAX_VIDEO_SECONDS", "30")
	t.Setenv("SESSION_SECRET", "keyboard cat")

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "postgres://prod", cfg.DatabaseURL)
	assert.Equal(t, 30, cfg.Uploads.MaxVideoSeconds)
	assert.Equal(t, "keyboard cat", cfg.SessionSecret)
}

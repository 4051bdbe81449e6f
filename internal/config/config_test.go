package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnvDefaults(t *testing.T) {
	cfg := FromEnv()
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, 10*time.Minute, cfg.QuizCacheTTL)
	assert.Equal(t, 80, cfg.DefaultPassingScore)
	assert.True(t, cfg.AllowClaimFallback)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORSOrigins)
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("QUIZ_CACHE_TTL", "30s")
	t.Setenv("DEFAULT_PASSING_SCORE", "65")
	t.Setenv("ALLOW_CLAIM_FALLBACK", "false")
	t.Setenv("PRIMARY_ADMIN_ID", "admin-1")
	t.Setenv("PRIMARY_ADMIN_EMAIL", "owner@ridgecrew.com")
	t.Setenv("CORS_ORIGINS", "https://portal.ridgecrew.com, https://staging.ridgecrew.com")

	cfg := FromEnv()
	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.Equal(t, 30*time.Second, cfg.QuizCacheTTL)
	assert.Equal(t, 65, cfg.DefaultPassingScore)
	assert.False(t, cfg.AllowClaimFallback)
	assert.Equal(t, "admin-1", cfg.PrimaryAdminID)
	assert.Equal(t, "owner@ridgecrew.com", cfg.PrimaryAdminEmail)
	assert.Equal(t, []string{"https://portal.ridgecrew.com", "https://staging.ridgecrew.com"}, cfg.CORSOrigins)
}

func TestFromEnvBadValuesFallBack(t *testing.T) {
	t.Setenv("DEFAULT_PASSING_SCORE", "not-a-number")
	t.Setenv("QUIZ_CACHE_TTL", "soon")
	cfg := FromEnv()
	assert.Equal(t, 80, cfg.DefaultPassingScore)
	assert.Equal(t, 10*time.Minute, cfg.QuizCacheTTL)
}

func TestLoadFileOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
http_addr: ":7070"
db:
  driver: postgres
  dsn: postgres://localhost/trainhub
redis:
  addr: cache:6379
  quiz_ttl: 5m
auth:
  allow_claim_fallback: false
primary_admin:
  email: owner@ridgecrew.com
default_passing_score: 75
`), 0o600))

	cfg, err := LoadFile(path, FromEnv())
	require.NoError(t, err)
	assert.Equal(t, ":7070", cfg.HTTPAddr)
	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Equal(t, "postgres://localhost/trainhub", cfg.DBDSN)
	assert.Equal(t, "cache:6379", cfg.RedisAddr)
	assert.Equal(t, 5*time.Minute, cfg.QuizCacheTTL)
	assert.False(t, cfg.AllowClaimFallback)
	assert.Equal(t, "owner@ridgecrew.com", cfg.PrimaryAdminEmail)
	assert.Equal(t, 75, cfg.DefaultPassingScore)
	// Unset file fields keep their env defaults.
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"), FromEnv())
	assert.Error(t, err)
}

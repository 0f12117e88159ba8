package config

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("GO_ENV", "production")
	for _, key := range []string{"PORT", "STORAGE", "DATABASE_URL", "CONTEXT_TIMEOUT", "ALLOWED_ORIGINS",
		"RUN_MIGRATIONS", "TRUST_PROXY", "RATE_LIMIT_RPS", "RATE_LIMIT_BURST", "JWT_SECRET", "JWT_EXPIRY_HOURS",
		"ADMIN_AUTH_REQUIRED", "EMAIL_PROVIDER", "LOG_LEVEL"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, StoragePostgres, cfg.Storage)
	assert.True(t, cfg.RunMigrations)
	assert.Equal(t, 5*time.Second, cfg.ContextTimeout)
	assert.Equal(t, []string{"*"}, cfg.AllowedOrigins)
	assert.Equal(t, 24*time.Hour, cfg.JWTExpiry)
	assert.Equal(t, "noop", cfg.Email.Provider)
	assert.False(t, cfg.AdminAuthRequired)
	assert.False(t, cfg.TrustProxy)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("GO_ENV", "production")
	t.Setenv("PORT", "9000")
	t.Setenv("STORAGE", "Memory")
	t.Setenv("CONTEXT_TIMEOUT", "2")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, https://b.example,")
	t.Setenv("RUN_MIGRATIONS", "false")
	t.Setenv("RATE_LIMIT_RPS", "0.5")
	t.Setenv("RATE_LIMIT_BURST", "3")
	t.Setenv("TRUST_PROXY", "true")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("JWT_EXPIRY_HOURS", "2")
	t.Setenv("ADMIN_AUTH_REQUIRED", "true")
	t.Setenv("EMAIL_PROVIDER", "SES")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, StorageMemory, cfg.Storage)
	assert.Equal(t, 2*time.Second, cfg.ContextTimeout)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
	assert.False(t, cfg.RunMigrations)
	assert.Equal(t, 0.5, cfg.RateLimitRPS)
	assert.Equal(t, 3, cfg.RateLimitBurst)
	assert.True(t, cfg.TrustProxy)
	assert.Equal(t, 2*time.Hour, cfg.JWTExpiry)
	assert.True(t, cfg.AdminAuthRequired)
	assert.Equal(t, "ses", cfg.Email.Provider)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name, key, value string
	}{
		{"bad storage", "STORAGE", "sqlite"},
		{"bad bool", "RUN_MIGRATIONS", "maybe"},
		{"bad timeout", "CONTEXT_TIMEOUT", "soon"},
		{"bad burst", "RATE_LIMIT_BURST", "ten"},
		{"auth without secret", "ADMIN_AUTH_REQUIRED", "true"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("GO_ENV", "production")
			t.Setenv("JWT_SECRET", "")
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			require.Error(t, err)
		})
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&Config{Environment: "production", LogLevel: "warn"}, &buf)
	logger.Info("hidden")
	logger.Warn("shown", "k", "v")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"msg":"shown"`)

	buf.Reset()
	logger = NewLogger(&Config{Environment: "development", LogLevel: "nonsense"}, &buf)
	assert.True(t, logger.Enabled(context.Background(), slog.LevelInfo))
	assert.False(t, logger.Enabled(context.Background(), slog.LevelDebug))
	logger.Info("plain")
	assert.Contains(t, buf.String(), "msg=plain")
}

package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 4096, cfg.MaxInputSize)
	assert.False(t, cfg.UsesRedis())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("ANAMNESIS_ADDR", ":9090")
	t.Setenv("ANAMNESIS_CATALOG", "clinica.yaml")
	t.Setenv("ANAMNESIS_REDIS_ADDR", "localhost:6379")
	t.Setenv("ANAMNESIS_REDIS_DB", "2")
	t.Setenv("ANAMNESIS_SESSION_TTL", "90m")
	t.Setenv("ANAMNESIS_LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, "clinica.yaml", cfg.Catalog)
	assert.Equal(t, 2, cfg.RedisDB)
	assert.Equal(t, 90*time.Minute, cfg.SessionTTL)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.True(t, cfg.UsesRedis())
}

func TestLoadStoreProtection(t *testing.T) {
	t.Setenv("ANAMNESIS_ENCRYPTION_KEY", "a2V5")
	t.Setenv("ANAMNESIS_ENCRYPTION_FALLBACK_KEYS", "b2xk,b2xkZXI=")
	t.Setenv("ANAMNESIS_PII_KEYS", "^nome,telefone")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "a2V5", cfg.EncryptionKey)
	assert.Equal(t, []string{"b2xk", "b2xkZXI="}, cfg.FallbackKeys)
	assert.Equal(t, []string{"^nome", "telefone"}, cfg.PIIKeyPatterns)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
		msg   string
	}{
		{"bad int", "ANAMNESIS_REDIS_DB", "two", "parse env:"},
		{"bad duration", "ANAMNESIS_SESSION_TTL", "forever", "parse env:"},
		{"zero input size", "ANAMNESIS_MAX_INPUT_SIZE", "0", "must be positive"},
		{"negative ttl", "ANAMNESIS_SESSION_TTL", "-1h", "must not be negative"},
		{"fallback without key", "ANAMNESIS_ENCRYPTION_FALLBACK_KEYS", "abc", "requires ANAMNESIS_ENCRYPTION_KEY"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

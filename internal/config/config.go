// Package config loads server settings from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds the settings shared by the serve and mcp commands.
// Command-line flags take precedence over these values.
type Config struct {
	Addr         string        `env:"ANAMNESIS_ADDR"           envDefault:":8080"`
	Catalog      string        `env:"ANAMNESIS_CATALOG"`
	RedisAddr    string        `env:"ANAMNESIS_REDIS_ADDR"`
	RedisPass    string        `env:"ANAMNESIS_REDIS_PASSWORD"`
	RedisDB      int           `env:"ANAMNESIS_REDIS_DB"       envDefault:"0"`
	SessionTTL   time.Duration `env:"ANAMNESIS_SESSION_TTL"    envDefault:"24h"`
	LogLevel     string        `env:"ANAMNESIS_LOG_LEVEL"      envDefault:"info"`
	MaxInputSize int           `env:"ANAMNESIS_MAX_INPUT_SIZE" envDefault:"4096"`

	// EncryptionKey is a base64 AES-256 key; when set, stored sessions are encrypted.
	EncryptionKey  string   `env:"ANAMNESIS_ENCRYPTION_KEY"`
	FallbackKeys   []string `env:"ANAMNESIS_ENCRYPTION_FALLBACK_KEYS" envSeparator:","`
	PIIKeyPatterns []string `env:"ANAMNESIS_PII_KEYS"                 envSeparator:","`
}

// Load parses the environment into a Config.
func Load() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	if cfg.MaxInputSize <= 0 {
		return Config{}, fmt.Errorf("ANAMNESIS_MAX_INPUT_SIZE must be positive, got %d", cfg.MaxInputSize)
	}
	if cfg.SessionTTL < 0 {
		return Config{}, fmt.Errorf("ANAMNESIS_SESSION_TTL must not be negative, got %s", cfg.SessionTTL)
	}
	if len(cfg.FallbackKeys) > 0 && cfg.EncryptionKey == "" {
		return Config{}, fmt.Errorf("ANAMNESIS_ENCRYPTION_FALLBACK_KEYS requires ANAMNESIS_ENCRYPTION_KEY")
	}
	return cfg, nil
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// UsesRedis reports whether sessions should be stored in Redis.
func (c Config) UsesRedis() bool {
	return c.RedisAddr != ""
}

package config

import (
	"errors"
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config is the environment-driven server configuration
type Config struct {
	Host string `env:"HOST"`
	Port int    `env:"PORT" envDefault:"8080"`

	// StorageType selects the account store backend ("memory" or "redis")
	StorageType string `env:"STORAGE_TYPE" envDefault:"memory"`
	RedisURL    string `env:"REDIS_URL"`

	// BotToken is the shared secret for identity-assertion verification
	BotToken string `env:"BOT_TOKEN"`

	// JWTSecret signs session credentials
	JWTSecret string `env:"JWT_SECRET"`

	// AllowInsecureAuth enables the reduced-trust authentication
	// fallback that skips signature verification. Development only.
	AllowInsecureAuth bool `env:"ALLOW_INSECURE_AUTH" envDefault:"false"`
}

// Load parses and validates configuration from the environment
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	if cfg.JWTSecret == "" {
		return Config{}, errors.New("JWT_SECRET is required")
	}
	if cfg.BotToken == "" && !cfg.AllowInsecureAuth {
		return Config{}, errors.New("BOT_TOKEN is required unless ALLOW_INSECURE_AUTH is set")
	}

	return cfg, nil
}

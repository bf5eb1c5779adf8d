package config

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
)

// defaultSecret is a deliberately weak fallback so the service boots with
// zero configuration on a laptop. Load refuses it outside ENV=local.
const defaultSecret = "secret"

type Config struct {
	Env  string `env:"ENV" envDefault:"local" validate:"required,oneof=local staging production"`
	Port string `env:"PORT" envDefault:"5000" validate:"required"`

	MongoURL      string `env:"MONGODB_URL"      envDefault:"mongodb://localhost:27017/db" validate:"required"`
	MongoDatabase string `env:"MONGODB_DATABASE" envDefault:"db"                           validate:"required"`

	MetricsPort string `env:"METRICS_PORT" envDefault:"9090"`

	Secret       string `env:"SECRET" envDefault:"secret" validate:"required"`
	ResendAPIKey string `env:"RESEND_API_KEY" validate:"required_if=Env production,required_if=Env staging"`
	ResendFrom   string `env:"RESEND_FROM"    validate:"required_if=Env production,required_if=Env staging"`

	CodePurgeCron string `env:"CODE_PURGE_CRON" envDefault:"@every 10m" validate:"required"`
	LogLevel      string `env:"LOG_LEVEL" envDefault:"info" validate:"oneof=debug info warn error"`
}

func Load() (*Config, error) {
	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	if cfg.Env != "local" && cfg.Secret == defaultSecret {
		return nil, errors.New("SECRET must be set to a non-default value outside ENV=local")
	}

	return cfg, nil
}

func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

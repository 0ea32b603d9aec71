package config

import (
	"context"
	"errors"
	"io/fs"

	"github.com/joho/godotenv"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// dotenvConfig holds configuration for the dotenv module.
type dotenvConfig struct {
	path string
	err  error
}

// DotEnvOption is a functional option for configuring the dotenv module.
type DotEnvOption func(*dotenvConfig)

// WithDotEnvPath sets a custom path to the .env file.
func WithDotEnvPath(path string) DotEnvOption {
	return func(cfg *dotenvConfig) {
		cfg.path = path
	}
}

// NewDotEnvModule loads environment variables from a .env file.
// By default, loads from ".env" in the current directory. Variables already present in the
// environment win. Loading happens synchronously when the module is created, before viper
// reads the environment.
func NewDotEnvModule(opts ...DotEnvOption) fx.Option {
	cfg := &dotenvConfig{path: ".env"}
	for _, opt := range opts {
		opt(cfg)
	}

	cfg.err = godotenv.Load(cfg.path)

	return fx.Module("dotenv",
		fx.Invoke(func(lc fx.Lifecycle, logger *zap.Logger) {
			lc.Append(fx.Hook{
				OnStart: func(context.Context) error {
					switch {
					case cfg.err == nil:
						logger.Info("loaded .env file", zap.String("path", cfg.path))
					case errors.Is(cfg.err, fs.ErrNotExist):
						logger.Debug("no .env file loaded", zap.String("path", cfg.path))
					default:
						logger.Warn("failed to load .env file", zap.String("path", cfg.path), zap.Error(cfg.err))
					}
					return nil
				},
			})
		}),
	)
}

package core

import (
	"time"

	"github.com/Sokol111/log2kafka/pkg/core/config"
	"github.com/Sokol111/log2kafka/pkg/core/health"
	"github.com/Sokol111/log2kafka/pkg/core/logger"
	"go.uber.org/fx"
)

// coreOptions holds internal configuration for the core module.
type coreOptions struct {
	loggerConfig       *logger.Config
	disableDotEnv      bool
	disableViperConfig bool
	configPath         string
	overrides          map[string]any
}

// Option is a functional option for configuring the core module.
type Option func(*coreOptions)

// WithLoggerConfig provides a static logger Config (useful for tests).
// When set, the logger configuration will not be loaded from viper.
func WithLoggerConfig(cfg logger.Config) Option {
	return func(opts *coreOptions) {
		opts.loggerConfig = &cfg
	}
}

// WithoutEnvFile disables loading of .env file.
func WithoutEnvFile() Option {
	return func(opts *coreOptions) {
		opts.disableDotEnv = true
	}
}

// WithoutConfigFile disables loading of config file.
// Useful for tests where configuration is provided via overrides.
func WithoutConfigFile() Option {
	return func(opts *coreOptions) {
		opts.disableViperConfig = true
	}
}

// WithConfigPath loads the given config file instead of the one named by CONFIG_FILE.
func WithConfigPath(path string) Option {
	return func(opts *coreOptions) {
		opts.configPath = path
	}
}

// WithOverrides applies dotted configuration keys on top of the config file.
func WithOverrides(overrides map[string]any) Option {
	return func(opts *coreOptions) {
		opts.overrides = overrides
	}
}

// NewCoreModule provides core functionality: config, logger, and health.
//
// Example usage:
//
//	// Production - loads config from --config or CONFIG_FILE
//	core.NewCoreModule(core.WithConfigPath(path))
//
//	// Testing - with static configs
//	core.NewCoreModule(
//	    core.WithLoggerConfig(logger.Config{...}),
//	    core.WithoutEnvFile(),
//	    core.WithoutConfigFile(),
//	    core.WithOverrides(map[string]any{"kafka.topic": "logs"}),
//	)
func NewCoreModule(opts ...Option) fx.Option {
	cfg := &coreOptions{}
	for _, opt := range opts {
		opt(cfg)
	}

	return fx.Options(
		fx.StartTimeout(2*time.Minute),
		fx.StopTimeout(time.Minute),

		dotEnvModule(cfg),
		viperModule(cfg),
		loggerModule(cfg),
		health.NewReadinessModule(),
	)
}

func dotEnvModule(cfg *coreOptions) fx.Option {
	if cfg.disableDotEnv {
		return fx.Options()
	}
	return config.NewDotEnvModule()
}

func viperModule(cfg *coreOptions) fx.Option {
	opts := []config.ViperOption{config.WithOverrides(cfg.overrides)}
	if cfg.disableViperConfig {
		opts = append(opts, config.WithoutConfigFile())
	} else {
		opts = append(opts, config.WithConfigPath(cfg.configPath))
	}
	return config.NewViperModule(opts...)
}

func loggerModule(cfg *coreOptions) fx.Option {
	if cfg.loggerConfig != nil {
		return logger.NewZapLoggingModule(logger.WithLoggerConfig(*cfg.loggerConfig))
	}
	return logger.NewZapLoggingModule()
}

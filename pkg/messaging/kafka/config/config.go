package config

import (
	"fmt"

	"github.com/spf13/viper"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

func NewKafkaConfigModule() fx.Option {
	return fx.Provide(
		newConfig,
	)
}

func newConfig(v *viper.Viper, logger *zap.Logger) (Config, error) {
	var cfg Config
	if sub := v.Sub("kafka"); sub != nil {
		if err := sub.Unmarshal(&cfg); err != nil {
			return cfg, fmt.Errorf("failed to load kafka config: %w", err)
		}
	}

	applyDefaults(&cfg)

	dest, warn := ParseDestination(cfg.Topic)
	if warn != nil {
		logger.Warn("ignoring partition in kafka topic", zap.String("topic", cfg.Topic), zap.Error(warn))
	}
	cfg.Destination = dest

	if err := validateConfig(&cfg); err != nil {
		return cfg, fmt.Errorf("invalid kafka config: %w", err)
	}

	logger.Info("loaded kafka config", zap.Any("config", cfg))
	return cfg, nil
}

package serialization

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Config locates the schema/mapping file. An empty ConfigFile disables serialization and
// every line is forwarded raw.
type Config struct {
	ConfigFile   string        `mapstructure:"config-file"`
	MatchTimeout time.Duration `mapstructure:"match-timeout"`
}

// NewSerializerModule provides *Serializer, nil when no configuration file is set.
func NewSerializerModule() fx.Option {
	return fx.Provide(
		newConfig,
		provideSerializer,
	)
}

func newConfig(v *viper.Viper) (Config, error) {
	var cfg Config
	sub := v.Sub("serializer")
	if sub == nil {
		return cfg, nil
	}
	if err := sub.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("failed to load serializer config: %w", err)
	}
	if cfg.MatchTimeout < 0 {
		return cfg, fmt.Errorf("serializer match-timeout cannot be negative, got: %v", cfg.MatchTimeout)
	}
	return cfg, nil
}

func provideSerializer(cfg Config, log *zap.Logger) (*Serializer, error) {
	log = log.With(zap.String("component", "serializer"))

	if cfg.ConfigFile == "" {
		log.Info("no serializer config file, lines are sent raw")
		return nil, nil
	}

	opts := []Option{WithLogger(log)}
	if cfg.MatchTimeout > 0 {
		opts = append(opts, WithMatchTimeout(cfg.MatchTimeout))
	}

	s, err := NewFromFile(cfg.ConfigFile, opts...)
	if err != nil {
		return nil, err
	}
	return s, nil
}

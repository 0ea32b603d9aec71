package forwarder

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	// StdinPath selects standard input.
	StdinPath = "-"

	defaultMaxLineSize  = 1024 * 1024
	minMaxLineSize      = 64
	defaultWarnInterval = time.Minute
)

// InputConfig describes where lines come from and how failures are reported.
type InputConfig struct {
	Path            string        `mapstructure:"path"`               // File to read, "-" or empty for stdin
	MaxLineSize     int           `mapstructure:"max-line-size"`      // Longest accepted line in bytes (default 1 MiB)
	WarnInterval    time.Duration `mapstructure:"warn-interval"`      // Minimum time between repeated fallback warnings per cause (default 1m)
	StopOnSendError bool          `mapstructure:"stop-on-send-error"` // Stop reading when the sink rejects a message
}

func newInputConfig(v *viper.Viper, logger *zap.Logger) (InputConfig, error) {
	var cfg InputConfig
	if sub := v.Sub("input"); sub != nil {
		if err := sub.Unmarshal(&cfg); err != nil {
			return cfg, fmt.Errorf("failed to load input config: %w", err)
		}
	}

	applyDefaults(&cfg)
	if err := validateInputConfig(cfg); err != nil {
		return cfg, fmt.Errorf("invalid input config: %w", err)
	}

	logger.Info("loaded input config", zap.Any("config", cfg))
	return cfg, nil
}

func applyDefaults(cfg *InputConfig) {
	if cfg.Path == "" {
		cfg.Path = StdinPath
	}
	if cfg.MaxLineSize == 0 {
		cfg.MaxLineSize = defaultMaxLineSize
	}
	if cfg.WarnInterval == 0 {
		cfg.WarnInterval = defaultWarnInterval
	}
}

func validateInputConfig(cfg InputConfig) error {
	if cfg.MaxLineSize < minMaxLineSize {
		return fmt.Errorf("max-line-size must be at least %d bytes, got: %d", minMaxLineSize, cfg.MaxLineSize)
	}
	if cfg.WarnInterval < 0 {
		return fmt.Errorf("warn-interval cannot be negative, got: %v", cfg.WarnInterval)
	}
	return nil
}

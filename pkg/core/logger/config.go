package logger

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"
)

// Encodings accepted by Config.Encoding.
const (
	EncodingJSON    = "json"
	EncodingConsole = "console"
)

type Config struct {
	// Level specifies the minimum logging level.
	Level zapcore.Level
	// Development enables development mode with console encoding and human-readable timestamps.
	Development bool
	// Encoding overrides the encoder picked by Development ("json" or "console").
	Encoding string
	// OutputPaths is a list of URLs or file paths to write logging output to.
	// Defaults to stderr so that log output never mixes with dry-run payloads on stdout.
	OutputPaths []string
	// ErrorOutputPaths is a list of URLs or file paths to write internal logger errors to.
	ErrorOutputPaths []string
	// StacktraceLevel sets the minimum level at which stacktraces are captured. Defaults to ErrorLevel.
	StacktraceLevel zapcore.Level
}

// rawConfig mirrors the YAML layout where levels are strings.
type rawConfig struct {
	Level            string   `mapstructure:"level"`
	Development      bool     `mapstructure:"development"`
	Encoding         string   `mapstructure:"encoding"`
	OutputPaths      []string `mapstructure:"outputPaths"`
	ErrorOutputPaths []string `mapstructure:"errorOutputPaths"`
	StacktraceLevel  string   `mapstructure:"stacktraceLevel"`
}

func defaultConfig() Config {
	return Config{
		Level:           zapcore.InfoLevel,
		StacktraceLevel: zapcore.ErrorLevel,
	}
}

func (c Config) Validate() error {
	switch c.Encoding {
	case "", EncodingJSON, EncodingConsole:
	default:
		return fmt.Errorf("encoding must be %q or %q, got: %q", EncodingJSON, EncodingConsole, c.Encoding)
	}
	if err := validatePaths(c.OutputPaths, "outputPaths"); err != nil {
		return err
	}
	return validatePaths(c.ErrorOutputPaths, "errorOutputPaths")
}

func validatePaths(paths []string, fieldName string) error {
	for i, path := range paths {
		if strings.TrimSpace(path) == "" {
			return fmt.Errorf("%s[%d] cannot be empty or whitespace", fieldName, i)
		}
	}
	return nil
}

func newConfig(v *viper.Viper) (Config, error) {
	cfg := defaultConfig()
	sub := v.Sub("logger")
	if sub == nil {
		return cfg, nil
	}

	var raw rawConfig
	if err := sub.Unmarshal(&raw); err != nil {
		return Config{}, fmt.Errorf("failed to load logger config: %w", err)
	}

	var err error
	if cfg.Level, err = parseLevel(raw.Level, cfg.Level); err != nil {
		return Config{}, fmt.Errorf("invalid log level '%s': %w", raw.Level, err)
	}
	if cfg.StacktraceLevel, err = parseLevel(raw.StacktraceLevel, cfg.StacktraceLevel); err != nil {
		return Config{}, fmt.Errorf("invalid stacktrace level '%s': %w", raw.StacktraceLevel, err)
	}
	cfg.Development = raw.Development
	cfg.Encoding = strings.ToLower(raw.Encoding)
	cfg.OutputPaths = raw.OutputPaths
	cfg.ErrorOutputPaths = raw.ErrorOutputPaths

	return cfg, nil
}

func parseLevel(value string, fallback zapcore.Level) (zapcore.Level, error) {
	if value == "" {
		return fallback, nil
	}
	return zapcore.ParseLevel(value)
}

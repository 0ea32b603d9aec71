package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const envConfigFile = "CONFIG_FILE"

// viperConfig holds internal configuration options for the Viper module.
type viperConfig struct {
	configPath   *string
	noConfigFile bool
	overrides    Overrides
}

// ViperOption is a functional option for configuring the Viper module.
type ViperOption func(*viperConfig)

// WithConfigPath sets a direct path to the configuration file.
// Overrides the default behavior of resolving from environment variables.
// An empty path falls back to CONFIG_FILE.
func WithConfigPath(path string) ViperOption {
	return func(cfg *viperConfig) {
		if path != "" {
			cfg.configPath = &path
		}
	}
}

// WithoutConfigFile disables loading of any config file.
// Viper will still be available for DI but with no file-based configuration.
func WithoutConfigFile() ViperOption {
	return func(cfg *viperConfig) {
		cfg.noConfigFile = true
	}
}

// WithOverrides merges dotted keys (e.g. "kafka.topic") over the file configuration.
// Used for command line flags.
func WithOverrides(overrides map[string]any) ViperOption {
	return func(cfg *viperConfig) {
		if cfg.overrides == nil {
			cfg.overrides = Overrides{}
		}
		for key, value := range overrides {
			cfg.overrides[key] = value
		}
	}
}

// FilePath represents the path to a configuration file.
// Empty string means no config file will be loaded.
type FilePath string

// Overrides are dotted configuration keys applied on top of the config file.
type Overrides map[string]any

// NewViperModule creates an fx module for Viper configuration.
// By default, resolves config path from CONFIG_FILE environment variable.
// If env var is not set, creates an empty Viper instance.
func NewViperModule(opts ...ViperOption) fx.Option {
	cfg := &viperConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	return fx.Module("viper",
		fx.Supply(resolveConfigPath(cfg), cfg.overrides),
		fx.Provide(newViper),
		fx.Invoke(logViperConfig),
	)
}

func logViperConfig(logger *zap.Logger, v *viper.Viper) {
	logger.Info("configuration loaded",
		zap.String("configFile", v.ConfigFileUsed()),
		zap.Strings("configKeys", v.AllKeys()),
	)
}

// resolveConfigPath determines the config file path.
// If noConfigFile is set, returns empty string.
// If WithConfigPath was used, returns that path.
// Otherwise resolves from CONFIG_FILE environment variable.
func resolveConfigPath(cfg *viperConfig) FilePath {
	if cfg.noConfigFile {
		return ""
	}
	if cfg.configPath != nil {
		return FilePath(*cfg.configPath)
	}
	return FilePath(os.Getenv(envConfigFile))
}

func newViper(configFile FilePath, overrides Overrides) (*viper.Viper, error) {
	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))

	if configFile != "" {
		v.SetConfigFile(string(configFile))
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file [%s]: %w", configFile, err)
		}
	}

	// Merged into the config layer rather than Set, so that Sub() of a section still
	// sees the keys from the file next to the overridden ones.
	if len(overrides) > 0 {
		if err := v.MergeConfigMap(overrides.nested()); err != nil {
			return nil, fmt.Errorf("failed to apply config overrides: %w", err)
		}
	}

	return v, nil
}

// nested turns {"kafka.topic": "x"} into {"kafka": {"topic": "x"}}.
func (o Overrides) nested() map[string]any {
	root := map[string]any{}
	for key, value := range o {
		parts := strings.Split(strings.ToLower(key), ".")
		node := root
		for _, part := range parts[:len(parts)-1] {
			child, ok := node[part].(map[string]any)
			if !ok {
				child = map[string]any{}
				node[part] = child
			}
			node = child
		}
		node[parts[len(parts)-1]] = value
	}
	return root
}

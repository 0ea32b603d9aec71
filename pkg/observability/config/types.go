package config

import "time"

const (
	// DefaultMetricsInterval is the default metrics export interval.
	DefaultMetricsInterval = 10 * time.Second

	// DefaultShutdownTimeout is the default timeout for flushing exporters on shutdown.
	DefaultShutdownTimeout = 5 * time.Second

	// DefaultRuntimeStatsInterval is the default interval for runtime stats.
	DefaultRuntimeStatsInterval = time.Second

	// DefaultSampleRatio samples every trace.
	DefaultSampleRatio = 1.0

	DefaultServiceName    = "log2kafka"
	DefaultServiceVersion = "dev"

	// TracingComponentName is the name used for readiness registration.
	TracingComponentName = "tracing"

	// MetricsComponentName is the name used for readiness registration.
	MetricsComponentName = "metrics"
)

// Config holds all observability configuration.
type Config struct {
	ServiceName           string        `mapstructure:"service-name"`
	ServiceVersion        string        `mapstructure:"service-version"`
	OtelCollectorEndpoint string        `mapstructure:"otel-collector-endpoint"`
	Tracing               TracingConfig `mapstructure:"tracing"`
	Metrics               MetricsConfig `mapstructure:"metrics"`
}

// TracingConfig holds tracing-specific configuration.
type TracingConfig struct {
	Enabled     bool    `mapstructure:"enabled"`
	SampleRatio float64 `mapstructure:"sample-ratio"`
}

// MetricsConfig holds metrics-specific configuration.
type MetricsConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Interval time.Duration `mapstructure:"interval"`
}

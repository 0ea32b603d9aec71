package config

import (
	"bytes"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestProvideConfig(t *testing.T) {
	t.Run("defaults without section", func(t *testing.T) {
		// Given: no observability section
		v := viper.New()

		// When: loading config
		cfg, err := provideConfig(&configOptions{}, v, zap.NewNop())

		// Then: everything is disabled with defaults applied
		require.NoError(t, err)
		assert.False(t, cfg.Metrics.Enabled)
		assert.False(t, cfg.Tracing.Enabled)
		assert.Equal(t, DefaultServiceName, cfg.ServiceName)
		assert.Equal(t, DefaultMetricsInterval, cfg.Metrics.Interval)
		assert.Equal(t, DefaultSampleRatio, cfg.Tracing.SampleRatio)
	})

	t.Run("reads section", func(t *testing.T) {
		// Given: an observability section
		v := viper.New()
		v.SetConfigType("yaml")
		require.NoError(t, v.ReadConfig(bytes.NewBufferString(`
observability:
  service-version: 1.2.3
  otel-collector-endpoint: otel:4317
  metrics:
    enabled: true
    interval: 30s
  tracing:
    enabled: true
    sample-ratio: 0.25
`)))

		// When: loading config
		cfg, err := provideConfig(&configOptions{}, v, zap.NewNop())

		// Then: values are taken from the section
		require.NoError(t, err)
		assert.Equal(t, "1.2.3", cfg.ServiceVersion)
		assert.Equal(t, "otel:4317", cfg.OtelCollectorEndpoint)
		assert.True(t, cfg.Metrics.Enabled)
		assert.Equal(t, 30*time.Second, cfg.Metrics.Interval)
		assert.Equal(t, 0.25, cfg.Tracing.SampleRatio)
	})

	t.Run("disable options win over static config", func(t *testing.T) {
		// Given: static config with everything enabled
		opts := &configOptions{}
		WithConfig(Config{OtelCollectorEndpoint: "otel:4317", Metrics: MetricsConfig{Enabled: true}, Tracing: TracingConfig{Enabled: true}})(opts)
		WithDisableMetrics()(opts)
		WithDisableTracing()(opts)

		// When: loading config
		cfg, err := provideConfig(opts, viper.New(), zap.NewNop())

		// Then: both are disabled
		require.NoError(t, err)
		assert.False(t, cfg.Metrics.Enabled)
		assert.False(t, cfg.Tracing.Enabled)
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{name: "disabled", cfg: Config{}},
		{name: "metrics without endpoint", cfg: Config{Metrics: MetricsConfig{Enabled: true}}, wantErr: "otel-collector-endpoint is required"},
		{name: "tracing without endpoint", cfg: Config{Tracing: TracingConfig{Enabled: true, SampleRatio: 1}}},
		{name: "sample ratio above one", cfg: Config{Tracing: TracingConfig{SampleRatio: 1.5}}, wantErr: "sample-ratio"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validate(tt.cfg)

			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

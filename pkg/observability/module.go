// Package observability provides OpenTelemetry tracing and metrics integration.
//
// Usage:
//
//	// Tracing and metrics, configured from the "observability" section
//	observability.NewObservabilityModule()
//
//	// Disable observability for tests
//	observability.NewObservabilityModule(
//	    observability.WithoutTracing(),
//	    observability.WithoutMetrics(),
//	)
package observability

import (
	"github.com/Sokol111/log2kafka/pkg/observability/config"
	"github.com/Sokol111/log2kafka/pkg/observability/metrics"
	"github.com/Sokol111/log2kafka/pkg/observability/tracing"
	"go.uber.org/fx"
)

type observabilityOptions struct {
	configOpts []config.Option
}

// Option configures the observability module.
type Option func(*observabilityOptions)

// WithoutTracing disables tracing regardless of configuration.
func WithoutTracing() Option {
	return func(o *observabilityOptions) {
		o.configOpts = append(o.configOpts, config.WithDisableTracing())
	}
}

// WithoutMetrics disables metrics regardless of configuration.
func WithoutMetrics() Option {
	return func(o *observabilityOptions) {
		o.configOpts = append(o.configOpts, config.WithDisableMetrics())
	}
}

// NewObservabilityModule provides metric.MeterProvider and trace.TracerProvider.
func NewObservabilityModule(opts ...Option) fx.Option {
	o := &observabilityOptions{}
	for _, opt := range opts {
		opt(o)
	}

	return fx.Options(
		config.NewObservabilityConfigModule(o.configOpts...),
		tracing.NewTracingModule(),
		metrics.NewMetricsModule(),
	)
}

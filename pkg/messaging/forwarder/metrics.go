package forwarder

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "github.com/Sokol111/log2kafka/pkg/messaging/forwarder"

type forwarderMetrics struct {
	encoded    metric.Int64Counter
	raw        metric.Int64Counter
	discarded  metric.Int64Counter
	sendErrors metric.Int64Counter
}

func newForwarderMetrics(mp metric.MeterProvider) (*forwarderMetrics, error) {
	meter := mp.Meter(meterName)

	encoded, err := meter.Int64Counter("log2kafka.lines.encoded",
		metric.WithDescription("Lines sent as Avro containers"), metric.WithUnit("{line}"))
	if err != nil {
		return nil, fmt.Errorf("failed to create encoded counter: %w", err)
	}
	raw, err := meter.Int64Counter("log2kafka.lines.raw",
		metric.WithDescription("Lines sent without encoding"), metric.WithUnit("{line}"))
	if err != nil {
		return nil, fmt.Errorf("failed to create raw counter: %w", err)
	}
	discarded, err := meter.Int64Counter("log2kafka.lines.discarded",
		metric.WithDescription("Empty lines dropped before sending"), metric.WithUnit("{line}"))
	if err != nil {
		return nil, fmt.Errorf("failed to create discarded counter: %w", err)
	}
	sendErrors, err := meter.Int64Counter("log2kafka.send.errors",
		metric.WithDescription("Messages rejected by the sink"), metric.WithUnit("{message}"))
	if err != nil {
		return nil, fmt.Errorf("failed to create send errors counter: %w", err)
	}

	return &forwarderMetrics{
		encoded:    encoded,
		raw:        raw,
		discarded:  discarded,
		sendErrors: sendErrors,
	}, nil
}

func (m *forwarderMetrics) recordRaw(ctx context.Context, reason string) {
	m.raw.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", reason)))
}

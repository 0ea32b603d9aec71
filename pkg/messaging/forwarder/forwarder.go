// Package forwarder turns input lines into Kafka messages: each line is serialized to a
// self-describing Avro container when possible and sent raw otherwise.
package forwarder

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/Sokol111/log2kafka/pkg/core/logger"
	"github.com/Sokol111/log2kafka/pkg/messaging/avro/serialization"
	kafkaconfig "github.com/Sokol111/log2kafka/pkg/messaging/kafka/config"
	"github.com/Sokol111/log2kafka/pkg/messaging/kafka/producer"
	"github.com/Sokol111/log2kafka/pkg/observability/tracing"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"
)

// ErrSend wraps every error returned by the sink.
var ErrSend = errors.New("send failed")

const (
	tracerName = "github.com/Sokol111/log2kafka/pkg/messaging/forwarder"

	rawReasonNoSerializer = "no_serializer"
)

// LineEncoder converts one line into the bytes to send.
type LineEncoder interface {
	Serialize(line string) ([]byte, error)
}

// Outcome reports what Forward did with a line.
type Outcome int

const (
	OutcomeDiscarded Outcome = iota
	OutcomeEncoded
	OutcomeRaw
)

func (o Outcome) String() string {
	switch o {
	case OutcomeDiscarded:
		return "discarded"
	case OutcomeEncoded:
		return "encoded"
	case OutcomeRaw:
		return "raw"
	}
	return "unknown"
}

// Stats is a snapshot of the forwarder counters.
type Stats struct {
	Encoded    int64
	Raw        int64
	Discarded  int64
	SendErrors int64
}

type counters struct {
	encoded    atomic.Int64
	raw        atomic.Int64
	discarded  atomic.Int64
	sendErrors atomic.Int64
}

// Forwarder sends lines to a sink. Safe for concurrent use.
type Forwarder struct {
	encoder   LineEncoder
	sink      producer.Sink
	dest      kafkaconfig.Destination
	key       []byte
	log       *zap.Logger
	throttler *logger.LogThrottler
	metrics   *forwarderMetrics
	tracer    trace.Tracer
	counters  counters
}

// Options configures a Forwarder.
type Options struct {
	// Encoder serializes lines. Nil sends every line raw.
	Encoder        LineEncoder
	Sink           producer.Sink
	Destination    kafkaconfig.Destination
	Key            []byte
	Logger         *zap.Logger
	MeterProvider  metric.MeterProvider
	TracerProvider trace.TracerProvider
	WarnInterval   time.Duration
}

// New builds a Forwarder. Sink is required; a missing logger or provider falls back to a no-op one.
func New(opts Options) (*Forwarder, error) {
	if opts.Sink == nil {
		return nil, errors.New("forwarder: sink is required")
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.MeterProvider == nil {
		opts.MeterProvider = metricnoop.NewMeterProvider()
	}
	if opts.TracerProvider == nil {
		opts.TracerProvider = tracenoop.NewTracerProvider()
	}
	m, err := newForwarderMetrics(opts.MeterProvider)
	if err != nil {
		return nil, err
	}

	return &Forwarder{
		encoder:   opts.Encoder,
		sink:      opts.Sink,
		dest:      opts.Destination,
		key:       opts.Key,
		log:       opts.Logger,
		throttler: logger.NewLogThrottler(opts.Logger, opts.WarnInterval),
		metrics:   m,
		tracer:    opts.TracerProvider.Tracer(tracerName),
	}, nil
}

// Forward sends one line. Empty lines are discarded. Lines that fail to serialize are sent
// raw and only logged; the returned error is always a sink error wrapping ErrSend.
func (f *Forwarder) Forward(ctx context.Context, line string) (Outcome, error) {
	ctx, span := f.tracer.Start(ctx, "log2kafka.forward",
		trace.WithSpanKind(trace.SpanKindProducer),
		trace.WithAttributes(attribute.String("messaging.destination.name", f.dest.Topic)))
	defer span.End()

	if line == "" {
		f.log.Debug("empty message discarded")
		f.counters.discarded.Add(1)
		f.metrics.discarded.Add(ctx, 1)
		span.SetAttributes(attribute.String("log2kafka.outcome", OutcomeDiscarded.String()))
		return OutcomeDiscarded, nil
	}

	value, outcome, rawReason := f.encode(ctx, line)
	span.SetAttributes(attribute.String("log2kafka.outcome", outcome.String()))

	err := f.sink.Send(ctx, producer.Message{
		Topic:     f.dest.Topic,
		Partition: f.dest.Partition,
		Key:       f.key,
		Value:     value,
	})
	if err != nil {
		f.counters.sendErrors.Add(1)
		f.metrics.sendErrors.Add(ctx, 1)
		span.RecordError(err)
		span.SetStatus(codes.Error, "send failed")
		return outcome, fmt.Errorf("%w: %w", ErrSend, err)
	}

	switch outcome {
	case OutcomeEncoded:
		f.counters.encoded.Add(1)
		f.metrics.encoded.Add(ctx, 1)
	case OutcomeRaw:
		f.counters.raw.Add(1)
		f.metrics.recordRaw(ctx, rawReason)
	}
	return outcome, nil
}

// encode returns the container for line, or the line itself together with the reason when
// there is no encoder or serialization fails.
func (f *Forwarder) encode(ctx context.Context, line string) ([]byte, Outcome, string) {
	if f.encoder == nil {
		f.log.Debug("no serializer configured, sending raw message")
		return []byte(line), OutcomeRaw, rawReasonNoSerializer
	}

	value, err := f.encoder.Serialize(line)
	if err == nil {
		return value, OutcomeEncoded, ""
	}

	failure := serialization.Classify(err)
	fields := append([]zap.Field{
		zap.String("kind", failure.Kind.String()),
		zap.String("field", failure.Field),
		zap.Int("line_length", len(line)),
		zap.Error(err),
	}, tracing.LogFields(ctx)...)
	f.throttler.Warn(failure.Kind.String()+"/"+failure.Field, "serialization failed, sending raw message", fields...)
	return []byte(line), OutcomeRaw, failure.Kind.String()
}

// Stats returns the counters accumulated since construction.
func (f *Forwarder) Stats() Stats {
	return Stats{
		Encoded:    f.counters.encoded.Load(),
		Raw:        f.counters.raw.Load(),
		Discarded:  f.counters.discarded.Load(),
		SendErrors: f.counters.sendErrors.Load(),
	}
}

package forwarder

import (
	"github.com/Sokol111/log2kafka/pkg/core/worker"
	"github.com/Sokol111/log2kafka/pkg/messaging/avro/serialization"
	kafkaconfig "github.com/Sokol111/log2kafka/pkg/messaging/kafka/config"
	"github.com/Sokol111/log2kafka/pkg/messaging/kafka/producer"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// NewForwarderModule provides the Forwarder and runs a LineReader over the configured input.
// The application stops once the input is exhausted.
func NewForwarderModule() fx.Option {
	return fx.Options(
		fx.Provide(
			newInputConfig,
			provideForwarder,
			func(f *Forwarder, sink producer.Sink, cfg InputConfig, log *zap.Logger) *LineReader {
				return newLineReader(f, sink, cfg, log.With(zap.String("component", "line-reader")))
			},
			worker.Register[*LineReader]("line-reader",
				worker.WithReady(),
				worker.WithShutdown(),
				worker.WithShutdownOnDone(),
			),
		),
		worker.NewWorkersModule(),
	)
}

type forwarderParams struct {
	fx.In
	Serializer     *serialization.Serializer `optional:"true"`
	Sink           producer.Sink
	KafkaConfig    kafkaconfig.Config
	InputConfig    InputConfig
	Log            *zap.Logger
	MeterProvider  metric.MeterProvider
	TracerProvider trace.TracerProvider
}

func provideForwarder(p forwarderParams) (*Forwarder, error) {
	opts := Options{
		Sink:           p.Sink,
		Destination:    p.KafkaConfig.Destination,
		Key:            []byte(p.KafkaConfig.Key),
		Logger:         p.Log.With(zap.String("component", "forwarder")),
		MeterProvider:  p.MeterProvider,
		TracerProvider: p.TracerProvider,
		WarnInterval:   p.InputConfig.WarnInterval,
	}
	// A nil *Serializer must not become a non-nil interface
	if p.Serializer != nil {
		opts.Encoder = p.Serializer
	}
	return New(opts)
}

package producer

import (
	"context"

	"github.com/Sokol111/log2kafka/pkg/core/health"
	"github.com/Sokol111/log2kafka/pkg/messaging/kafka/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const componentName = "kafka-producer"

func NewProducerModule() fx.Option {
	return fx.Provide(
		provideSink,
	)
}

func provideSink(lc fx.Lifecycle, log *zap.Logger, conf config.Config, readiness health.ComponentManager) (Sink, error) {
	log = log.With(zap.String("component", "producer"), zap.String("driver", conf.Driver))

	s, err := New(conf.Driver, conf, log)
	if err != nil {
		return nil, err
	}

	markReady := readiness.AddComponent(componentName)
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			// Drivers that connect lazily are probed before the component is marked ready
			if probe, ok := s.(metadataProvider); ok {
				if err := waitForBrokers(ctx, probe, log,
					conf.ProducerConfig.ReadinessTimeoutSeconds,
					conf.ProducerConfig.FailOnBrokerError); err != nil {
					return err
				}
			}
			markReady()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return s.Close()
		},
	})

	return s, nil
}

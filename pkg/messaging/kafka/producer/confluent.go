package producer

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Sokol111/log2kafka/pkg/messaging/kafka/config"
	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// kafkaProducer is the subset of *kafka.Producer used by the sink.
type kafkaProducer interface {
	Produce(msg *kafka.Message, deliveryChan chan kafka.Event) error
	Events() chan kafka.Event
	Flush(timeoutMs int) int
	GetMetadata(topic *string, allTopics bool, timeoutMs int) (*kafka.Metadata, error)
	Close()
}

type confluentSink struct {
	producer     kafkaProducer
	log          *zap.Logger
	flushTimeout time.Duration
	reports      errgroup.Group
	closeOnce    sync.Once
}

func newConfluentSink(conf config.Config, log *zap.Logger) (Sink, error) {
	p, err := kafka.NewProducer(&kafka.ConfigMap{
		"bootstrap.servers":  conf.Brokers,
		"client.id":          conf.ClientID,
		"acks":               *conf.ProducerConfig.RequiredAcks,
		"request.timeout.ms": int(conf.ProducerConfig.AckTimeout.Milliseconds()),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create producer: %w", err)
	}
	return newConfluentProducer(p, log, conf.ProducerConfig.FlushTimeout), nil
}

func newConfluentProducer(p kafkaProducer, log *zap.Logger, flushTimeout time.Duration) *confluentSink {
	s := &confluentSink{producer: p, log: log, flushTimeout: flushTimeout}
	s.reports.Go(func() error {
		s.reportDeliveries()
		return nil
	})
	return s
}

// reportDeliveries drains the events channel until the producer closes it.
func (s *confluentSink) reportDeliveries() {
	for e := range s.producer.Events() {
		switch ev := e.(type) {
		case *kafka.Message:
			if ev.TopicPartition.Error != nil {
				s.log.Warn("message delivery failed",
					zap.String("destination", ev.TopicPartition.String()),
					zap.Error(ev.TopicPartition.Error))
				continue
			}
			s.log.Debug("message delivered",
				zap.String("topic", *ev.TopicPartition.Topic),
				zap.Int32("partition", ev.TopicPartition.Partition),
				zap.Int64("offset", int64(ev.TopicPartition.Offset)))
		case kafka.Error:
			s.log.Warn("kafka client error", zap.Error(ev))
		}
	}
}

func (s *confluentSink) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	partition := kafka.PartitionAny
	if msg.Partition != nil {
		partition = *msg.Partition
	}
	topic := msg.Topic
	km := &kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &topic, Partition: partition},
		Key:            msg.Key,
		Value:          msg.Value,
	}
	if err := s.producer.Produce(km, nil); err != nil {
		return fmt.Errorf("failed to send message to topic %s: %w", km.TopicPartition, err)
	}
	return nil
}

func (s *confluentSink) Flush(ctx context.Context) error {
	pollMs := int(s.flushTimeout.Milliseconds())
	if pollMs <= 0 {
		pollMs = 1
	}
	for {
		remaining := s.producer.Flush(pollMs)
		if remaining == 0 {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("flush interrupted with %d messages queued: %w", remaining, err)
		}
		s.log.Debug("waiting for queued messages", zap.Int("remaining", remaining))
	}
}

func (s *confluentSink) Close() error {
	var err error
	s.closeOnce.Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.flushTimeout)
		defer cancel()
		if err = s.Flush(ctx); err != nil {
			s.log.Warn("closing producer with undelivered messages", zap.Error(err))
		}
		s.producer.Close()
		_ = s.reports.Wait()
	})
	return err
}

// GetMetadata lets the broker readiness wait probe the cluster.
func (s *confluentSink) GetMetadata(topic *string, allTopics bool, timeoutMs int) (*kafka.Metadata, error) {
	return s.producer.GetMetadata(topic, allTopics, timeoutMs)
}

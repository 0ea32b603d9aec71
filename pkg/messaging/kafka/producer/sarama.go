package producer

import (
	"context"
	"fmt"
	"sync"

	"github.com/IBM/sarama"
	"github.com/Sokol111/log2kafka/pkg/messaging/kafka/config"
	"go.uber.org/zap"
)

type saramaSink struct {
	producer  sarama.SyncProducer
	log       *zap.Logger
	closeOnce sync.Once
}

func newSaramaSink(conf config.Config, log *zap.Logger) (Sink, error) {
	p, err := sarama.NewSyncProducer(conf.BrokerList(), newSaramaConfig(conf))
	if err != nil {
		return nil, fmt.Errorf("failed to create sarama producer: %w", err)
	}
	return &saramaSink{producer: p, log: log}, nil
}

func newSaramaConfig(conf config.Config) *sarama.Config {
	sc := sarama.NewConfig()
	sc.ClientID = conf.ClientID
	sc.Producer.RequiredAcks = sarama.RequiredAcks(*conf.ProducerConfig.RequiredAcks)
	sc.Producer.Timeout = conf.ProducerConfig.AckTimeout
	sc.Producer.Return.Successes = true
	sc.Producer.Return.Errors = true
	if conf.Destination.Partition != nil {
		sc.Producer.Partitioner = sarama.NewManualPartitioner
	}
	return sc
}

func (s *saramaSink) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	pm := &sarama.ProducerMessage{
		Topic: msg.Topic,
		Key:   sarama.ByteEncoder(msg.Key),
		Value: sarama.ByteEncoder(msg.Value),
	}
	if msg.Partition != nil {
		pm.Partition = *msg.Partition
	}

	partition, offset, err := s.producer.SendMessage(pm)
	if err != nil {
		return fmt.Errorf("failed to send message to topic %s: %w", msg.Topic, err)
	}
	s.log.Debug("message delivered",
		zap.String("topic", msg.Topic),
		zap.Int32("partition", partition),
		zap.Int64("offset", offset))
	return nil
}

// Flush is a no-op: SendMessage returns only after the brokers acknowledged.
func (s *saramaSink) Flush(context.Context) error {
	return nil
}

func (s *saramaSink) Close() error {
	var err error
	s.closeOnce.Do(func() {
		err = s.producer.Close()
	})
	return err
}

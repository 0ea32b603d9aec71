package config

import "time"

// Sink drivers.
const (
	DriverConfluent = "confluent"
	DriverSarama    = "sarama"
	DriverStdout    = "stdout"
)

const (
	// Default values.
	DefaultClientID                 = "Log2Kafka Producer"
	DefaultMessageKey               = "L2K"
	DefaultBrokers                  = "localhost:9092"
	DefaultRequiredAcks             = 1
	defaultAckTimeout               = 2000 * time.Millisecond
	defaultFlushTimeout             = 1 * time.Second
	defaultProducerReadinessTimeout = 30

	// Validation bounds.
	minRequiredAcks     = -1
	minAckTimeout       = 1 * time.Millisecond
	maxAckTimeout       = 15 * time.Minute
	maxFlushTimeout     = 5 * time.Minute
	maxReadinessTimeout = 600 // 10 minutes in seconds
)

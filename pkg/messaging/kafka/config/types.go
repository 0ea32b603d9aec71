package config

import "time"

// Config represents the Kafka producer configuration.
type Config struct {
	Driver         string         `mapstructure:"driver"`          // Sink driver: "confluent", "sarama" or "stdout"
	Brokers        string         `mapstructure:"brokers"`         // Comma-separated list of Kafka broker addresses (e.g., "localhost:9092,localhost:9093")
	ClientID       string         `mapstructure:"client-id"`       // Client id reported to the brokers
	Topic          string         `mapstructure:"topic"`           // Destination as "topic[:partition]"
	Key            string         `mapstructure:"key"`             // Message key reused for every message
	ProducerConfig ProducerConfig `mapstructure:"producer-config"` // Producer-specific configuration

	// Destination is resolved from Topic while loading.
	Destination Destination `mapstructure:"-"`
}

// ProducerConfig represents configuration for the Kafka producer.
type ProducerConfig struct {
	RequiredAcks            *int          `mapstructure:"required-acks"`             // Acknowledgments required from brokers: -1 (all), 0 or a positive count (default 1)
	AckTimeout              time.Duration `mapstructure:"ack-timeout"`               // Time the brokers may take to acknowledge (default 2s)
	FlushTimeout            time.Duration `mapstructure:"flush-timeout"`             // Time to wait for outstanding deliveries on shutdown (default 1s)
	ReadinessTimeoutSeconds int           `mapstructure:"readiness-timeout-seconds"` // Timeout in seconds for waiting brokers readiness (0 = no timeout, max 600s, default 30s)
	FailOnBrokerError       bool          `mapstructure:"fail-on-broker-error"`      // Whether to fail startup if brokers are not available (default false)
}

// Destination is a topic with an optional fixed partition. A nil Partition lets the
// producer choose.
type Destination struct {
	Topic     string
	Partition *int32
}

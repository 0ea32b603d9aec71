package config

import (
	"fmt"
	"strings"
)

// validateConfig validates the entire Kafka configuration
func validateConfig(cfg *Config) error {
	if err := validateDriver(cfg); err != nil {
		return err
	}
	if err := validateBrokers(cfg); err != nil {
		return err
	}
	if err := validateTopic(cfg); err != nil {
		return err
	}
	if err := validateProducerConfig(&cfg.ProducerConfig); err != nil {
		return err
	}
	return nil
}

// validateDriver validates the sink driver name
func validateDriver(cfg *Config) error {
	switch cfg.Driver {
	case DriverConfluent, DriverSarama, DriverStdout:
		return nil
	}
	return fmt.Errorf("kafka driver must be one of %s, %s, %s, got: %s",
		DriverConfluent, DriverSarama, DriverStdout, cfg.Driver)
}

// validateBrokers validates Kafka brokers configuration
func validateBrokers(cfg *Config) error {
	if cfg.Driver == DriverStdout {
		return nil
	}
	if strings.TrimSpace(cfg.Brokers) == "" {
		return fmt.Errorf("kafka brokers cannot be empty")
	}
	for i, broker := range cfg.BrokerList() {
		if broker == "" {
			return fmt.Errorf("kafka brokers[%d] cannot be empty", i)
		}
	}
	return nil
}

// validateTopic validates the destination topic
func validateTopic(cfg *Config) error {
	if strings.TrimSpace(cfg.Destination.Topic) == "" {
		return fmt.Errorf("kafka topic cannot be empty")
	}
	return nil
}

// validateProducerConfig validates producer configuration
func validateProducerConfig(cfg *ProducerConfig) error {
	if cfg.RequiredAcks != nil && *cfg.RequiredAcks < minRequiredAcks {
		return fmt.Errorf("producer required acks must be -1, 0 or positive, got: %d", *cfg.RequiredAcks)
	}
	if cfg.AckTimeout < minAckTimeout || cfg.AckTimeout > maxAckTimeout {
		return fmt.Errorf("producer ack timeout must be between %v and %v, got: %v",
			minAckTimeout, maxAckTimeout, cfg.AckTimeout)
	}
	if cfg.FlushTimeout < 0 || cfg.FlushTimeout > maxFlushTimeout {
		return fmt.Errorf("producer flush timeout must be between 0 and %v, got: %v",
			maxFlushTimeout, cfg.FlushTimeout)
	}
	if cfg.ReadinessTimeoutSeconds < 0 || cfg.ReadinessTimeoutSeconds > maxReadinessTimeout {
		return fmt.Errorf("producer readiness timeout must be between 0 and %d seconds, got: %d",
			maxReadinessTimeout, cfg.ReadinessTimeoutSeconds)
	}
	return nil
}

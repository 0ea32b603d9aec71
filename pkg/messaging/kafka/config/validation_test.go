package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func validConfig() Config {
	acks := 1
	return Config{
		Driver:  DriverConfluent,
		Brokers: "localhost:9092",
		Destination: Destination{
			Topic: "logs",
		},
		ProducerConfig: ProducerConfig{
			RequiredAcks:            &acks,
			AckTimeout:              2 * time.Second,
			FlushTimeout:            time.Second,
			ReadinessTimeoutSeconds: 30,
		},
	}
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr string
	}{
		{name: "valid", modify: func(*Config) {}},
		{name: "unknown driver", modify: func(c *Config) { c.Driver = "nats" }, wantErr: "kafka driver must be one of"},
		{name: "empty brokers", modify: func(c *Config) { c.Brokers = " " }, wantErr: "kafka brokers cannot be empty"},
		{name: "empty broker entry", modify: func(c *Config) { c.Brokers = "a:9092,,b:9092" }, wantErr: "kafka brokers[1] cannot be empty"},
		{name: "stdout ignores brokers", modify: func(c *Config) { c.Driver = DriverStdout; c.Brokers = "" }},
		{name: "empty topic", modify: func(c *Config) { c.Destination.Topic = "" }, wantErr: "kafka topic cannot be empty"},
		{name: "acks all", modify: func(c *Config) { acks := -1; c.ProducerConfig.RequiredAcks = &acks }},
		{name: "acks below all", modify: func(c *Config) { acks := -2; c.ProducerConfig.RequiredAcks = &acks }, wantErr: "required acks"},
		{name: "ack timeout zero", modify: func(c *Config) { c.ProducerConfig.AckTimeout = 0 }, wantErr: "ack timeout"},
		{name: "ack timeout too large", modify: func(c *Config) { c.ProducerConfig.AckTimeout = time.Hour }, wantErr: "ack timeout"},
		{name: "negative flush timeout", modify: func(c *Config) { c.ProducerConfig.FlushTimeout = -time.Second }, wantErr: "flush timeout"},
		{name: "readiness timeout too large", modify: func(c *Config) { c.ProducerConfig.ReadinessTimeoutSeconds = 601 }, wantErr: "readiness timeout"},
		{name: "negative readiness timeout", modify: func(c *Config) { c.ProducerConfig.ReadinessTimeoutSeconds = -1 }, wantErr: "readiness timeout"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.modify(&cfg)

			err := validateConfig(&cfg)

			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestApplyDefaults_KeepsZeroAcks(t *testing.T) {
	acks := 0
	cfg := Config{ProducerConfig: ProducerConfig{RequiredAcks: &acks}}

	applyDefaults(&cfg)

	assert.Equal(t, 0, *cfg.ProducerConfig.RequiredAcks)
	assert.Equal(t, DefaultClientID, cfg.ClientID)
	assert.Equal(t, DefaultMessageKey, cfg.Key)
}

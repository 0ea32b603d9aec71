package config

// applyDefaults applies default values to the configuration
func applyDefaults(cfg *Config) {
	if cfg.Driver == "" {
		cfg.Driver = DriverConfluent
	}
	if cfg.Brokers == "" {
		cfg.Brokers = DefaultBrokers
	}
	if cfg.ClientID == "" {
		cfg.ClientID = DefaultClientID
	}
	if cfg.Key == "" {
		cfg.Key = DefaultMessageKey
	}

	applyProducerDefaults(&cfg.ProducerConfig)
}

// applyProducerDefaults applies defaults to the producer configuration
func applyProducerDefaults(cfg *ProducerConfig) {
	// Zero acks is a valid setting, so only a missing value gets the default
	if cfg.RequiredAcks == nil {
		acks := DefaultRequiredAcks
		cfg.RequiredAcks = &acks
	}
	if cfg.AckTimeout == 0 {
		cfg.AckTimeout = defaultAckTimeout
	}
	if cfg.FlushTimeout == 0 {
		cfg.FlushTimeout = defaultFlushTimeout
	}
	if cfg.ReadinessTimeoutSeconds == 0 {
		cfg.ReadinessTimeoutSeconds = defaultProducerReadinessTimeout
	}
}

package kafka

import (
	"errors"

	"sima/internal/config"
)

// ErrDisabled is returned by LoadConfig when event publishing is switched off
var ErrDisabled = errors.New("kafka publishing disabled")

// Config holds Kafka producer configuration
type Config struct {
	Brokers           string
	InventoryTopic    string
	ClientID          string
	EnableIdempotence bool
	Acks              string
}

// LoadConfig loads Kafka configuration from environment variables.
// Publishing is disabled when KAFKA_BROKERS is empty or ENABLE_KAFKA=false.
func LoadConfig() (*Config, error) {
	if !config.GetEnvBool("ENABLE_KAFKA", true) {
		return nil, ErrDisabled
	}

	brokers := config.GetEnvOrDefault("KAFKA_BROKERS", "")
	if brokers == "" {
		return nil, ErrDisabled
	}

	return &Config{
		Brokers:           brokers,
		InventoryTopic:    config.GetEnvOrDefault("KAFKA_TOPIC_INVENTORY_EVENTS", "inventory-events"),
		ClientID:          config.GetEnvOrDefault("KAFKA_CLIENT_ID", "sima-api"),
		EnableIdempotence: true,
		Acks:              "all",
	}, nil
}

// GetBrokersList returns brokers as a slice
func (c *Config) GetBrokersList() []string {
	return config.SplitList(c.Brokers)
}

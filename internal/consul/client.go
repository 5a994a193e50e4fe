// Package consul registers the API with a HashiCorp Consul agent so other
// services and load balancers can find healthy instances.
package consul

import (
	"fmt"
	"time"

	consulapi "github.com/hashicorp/consul/api"

	"sima/internal/config"
)

// Config holds Consul agent and registration settings
type Config struct {
	Addr          string
	Token         string
	ServiceName   string
	ServiceHost   string
	CheckInterval time.Duration
	CheckTimeout  time.Duration
}

// LoadConfig reads Consul settings from the environment. It reports false
// when CONSUL_HTTP_ADDR is unset, which skips registration.
func LoadConfig() (*Config, bool) {
	addr := config.GetEnvOrDefault("CONSUL_HTTP_ADDR", "")
	if addr == "" {
		return nil, false
	}

	return &Config{
		Addr:          addr,
		Token:         config.GetEnvOrDefault("CONSUL_HTTP_TOKEN", ""),
		ServiceName:   config.GetEnvOrDefault("CONSUL_SERVICE_NAME", "sima-api"),
		ServiceHost:   config.GetEnvOrDefault("API_HOST", "localhost"),
		CheckInterval: config.GetEnvDuration("CONSUL_CHECK_INTERVAL", 10*time.Second),
		CheckTimeout:  config.GetEnvDuration("CONSUL_CHECK_TIMEOUT", 3*time.Second),
	}, true
}

// Client wraps the Consul API client
type Client struct {
	api *consulapi.Client
	cfg *Config
}

// NewClient creates a Consul client, authenticating with cfg.Token when set
func NewClient(cfg *Config) (*Client, error) {
	apiConfig := consulapi.DefaultConfig()
	apiConfig.Address = cfg.Addr
	if cfg.Token != "" {
		apiConfig.Token = cfg.Token
	}

	client, err := consulapi.NewClient(apiConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create consul client: %w", err)
	}

	return &Client{api: client, cfg: cfg}, nil
}

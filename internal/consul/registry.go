package consul

import (
	"fmt"
	"log/slog"

	consulapi "github.com/hashicorp/consul/api"
)

// ServiceID is the stable registration id for this host and port, so a
// restarted instance replaces its previous entry.
func (c *Client) ServiceID(port int) string {
	return fmt.Sprintf("%s-%s-%d", c.cfg.ServiceName, c.cfg.ServiceHost, port)
}

func (c *Client) registration(port int) *consulapi.AgentServiceRegistration {
	return &consulapi.AgentServiceRegistration{
		ID:      c.ServiceID(port),
		Name:    c.cfg.ServiceName,
		Address: c.cfg.ServiceHost,
		Port:    port,
		Tags:    []string{"inventory", "api"},
		Check: &consulapi.AgentServiceCheck{
			HTTP:                           fmt.Sprintf("http://%s:%d/health", c.cfg.ServiceHost, port),
			Interval:                       c.cfg.CheckInterval.String(),
			Timeout:                        c.cfg.CheckTimeout.String(),
			DeregisterCriticalServiceAfter: "1m",
		},
	}
}

// Register registers the API listening on port and returns its service id.
// A stale registration with the same id is removed first.
func (c *Client) Register(port int) (string, error) {
	reg := c.registration(port)

	_ = c.api.Agent().ServiceDeregister(reg.ID)

	if err := c.api.Agent().ServiceRegister(reg); err != nil {
		return "", fmt.Errorf("failed to register service: %w", err)
	}

	slog.Info("Registered with Consul", "service_id", reg.ID, "address", c.cfg.Addr)
	return reg.ID, nil
}

// Deregister removes a service from Consul
func (c *Client) Deregister(serviceID string) error {
	if err := c.api.Agent().ServiceDeregister(serviceID); err != nil {
		return fmt.Errorf("failed to deregister service: %w", err)
	}
	return nil
}

package discovery

import (
	"fmt"
	"log"
	"strconv"

	"profile-service/internal/config"

	"github.com/hashicorp/consul/api"
)

type ServiceRegistry struct {
	client *api.Client
	config *config.Config
}

func NewServiceRegistry(cfg *config.Config) (*ServiceRegistry, error) {
	consulConfig := api.DefaultConfig()
	consulConfig.Address = cfg.Consul.ConsulAddress

	client, err := api.NewClient(consulConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Consul client: %w", err)
	}

	return &ServiceRegistry{
		client: client,
		config: cfg,
	}, nil
}

func (sr *ServiceRegistry) Register() error {
	httpPort, _ := strconv.Atoi(sr.config.Server.Port)

	registration := &api.AgentServiceRegistration{
		ID:      sr.config.Server.ServiceID + "-http",
		Name:    sr.config.Server.ServiceName,
		Port:    httpPort,
		Address: sr.config.Server.ServiceAddress,
		Check: &api.AgentServiceCheck{
			HTTP:     fmt.Sprintf("http://%s:%s/health", sr.config.Server.ServiceAddress, sr.config.Server.Port),
			Interval: "10s",
			Timeout:  "5s",
		},
		Tags: []string{"profile", "http"},
		Meta: map[string]string{
			"protocol": "http",
		},
	}

	if err := sr.client.Agent().ServiceRegister(registration); err != nil {
		return fmt.Errorf("failed to register HTTP service with Consul: %w", err)
	}

	log.Println("Successfully registered HTTP service with Consul")
	return nil
}

func (sr *ServiceRegistry) Deregister() error {
	if err := sr.client.Agent().ServiceDeregister(sr.config.Server.ServiceID + "-http"); err != nil {
		log.Printf("Error deregistering HTTP service: %v", err)
	}

	return nil
}

package handlers

import (
	"fmt"
	"sort"

	"github.com/sirupsen/logrus"

	"localtradefinder-api/internal/config"
	"localtradefinder-api/internal/middleware"
	"localtradefinder-api/internal/services"
)

// Registry holds every endpoint by function name
type Registry struct {
	endpoints map[string]*Endpoint
}

// RegistryConfig holds the dependencies shared by all endpoints
type RegistryConfig struct {
	Config   *config.Config
	Services *services.ServiceContainer
	Logger   *logrus.Logger
}

// NewRegistry builds all endpoints against cfg
func NewRegistry(cfg *RegistryConfig) (*Registry, error) {
	if cfg == nil || cfg.Services == nil {
		return nil, fmt.Errorf("services cannot be nil")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	var adminToken string
	if cfg.Config != nil {
		adminToken = cfg.Config.Admin.Token
	}
	gatekeeper := middleware.NewGatekeeper(adminToken)

	f := &functions{services: cfg.Services}
	registry := &Registry{endpoints: make(map[string]*Endpoint)}
	for _, e := range f.endpoints() {
		e.config = cfg.Config
		e.gatekeeper = gatekeeper
		e.sessions = cfg.Services.Accounts
		e.logger = logger
		registry.endpoints[e.Name] = e
	}

	return registry, nil
}

// Endpoint returns the endpoint deployed as name
func (r *Registry) Endpoint(name string) (*Endpoint, bool) {
	e, ok := r.endpoints[name]
	return e, ok
}

// Names returns all function names in sorted order
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.endpoints))
	for name := range r.endpoints {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

package server

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"localtradefinder-api/internal/adapters/supabase"
	"localtradefinder-api/internal/config"
	"localtradefinder-api/internal/handlers"
	"localtradefinder-api/internal/middleware"
	"localtradefinder-api/internal/services"
)

// Container holds all application dependencies
type Container struct {
	Config   *config.Config
	Logger   *logrus.Logger
	Services *services.ServiceContainer
	Registry *handlers.Registry

	// Internal dependencies
	backend *supabase.Client
}

// NewContainer creates a new dependency injection container. Missing backend
// credentials are not an error here; each function reports the keys it needs.
func NewContainer(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	logger := config.ConfigureLogging(cfg)

	backend := supabase.New(supabase.Options{
		URL:            cfg.Supabase.URL,
		AnonKey:        cfg.Supabase.AnonKey,
		ServiceRoleKey: cfg.Supabase.ServiceRoleKey,
		Logger:         logger,
	})

	serviceContainer, err := services.NewServiceContainer(backend, backend, &services.ServiceConfig{
		Redirect: middleware.DefaultRedirectPolicy,
		Logger:   logger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create service container: %w", err)
	}

	registry, err := handlers.NewRegistry(&handlers.RegistryConfig{
		Config:   cfg,
		Services: serviceContainer,
		Logger:   logger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create function registry: %w", err)
	}

	return &Container{
		Config:   cfg,
		Logger:   logger,
		Services: serviceContainer,
		Registry: registry,
		backend:  backend,
	}, nil
}

// Endpoint returns the function deployed as name
func (c *Container) Endpoint(name string) (*handlers.Endpoint, error) {
	endpoint, ok := c.Registry.Endpoint(name)
	if !ok {
		return nil, fmt.Errorf("unknown function %q", name)
	}
	return endpoint, nil
}

// Close cleans up all resources
func (c *Container) Close() error {
	if c.backend != nil {
		if err := c.backend.Close(); err != nil {
			return fmt.Errorf("failed to close backend client: %w", err)
		}
	}
	return nil
}

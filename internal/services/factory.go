package services

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"localtradefinder-api/internal/adapters/supabase"
	"localtradefinder-api/internal/middleware"
)

// ServiceContainer holds all service instances
type ServiceContainer struct {
	Applications ApplicationService
	Reviews      ReviewService
	Accounts     AccountService
	Photos       PhotoService
}

// ServiceConfig holds configuration for services
type ServiceConfig struct {
	Redirect middleware.RedirectPolicy
	Logger   *logrus.Logger
}

// NewServiceContainer creates a new service container with all services
func NewServiceContainer(backend Backend, storage supabase.ObjectStorage, config *ServiceConfig) (*ServiceContainer, error) {
	if backend == nil {
		return nil, fmt.Errorf("backend cannot be nil")
	}
	if storage == nil {
		return nil, fmt.Errorf("object storage cannot be nil")
	}

	if config == nil {
		config = &ServiceConfig{}
	}
	if config.Redirect.Fallback == "" {
		config.Redirect = middleware.DefaultRedirectPolicy
	}
	logger := config.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	return &ServiceContainer{
		Applications: NewApplicationService(backend, logger),
		Reviews:      NewReviewService(backend, logger),
		Accounts:     NewAccountService(backend, config.Redirect, logger),
		Photos:       NewPhotoService(storage, logger),
	}, nil
}

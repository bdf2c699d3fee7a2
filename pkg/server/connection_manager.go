package server

import (
	"context"
	"sync"
	"time"

	"localtradefinder-api/internal/config"
	"localtradefinder-api/pkg/lambda"
)

// ConnectionManager keeps the container alive across warm invocations of a function
type ConnectionManager struct {
	container   *Container
	lastUsed    time.Time
	mu          sync.RWMutex
	initialized bool
	initOnce    sync.Once
	initErr     error
	config      *config.Config
}

var (
	globalConnectionManager *ConnectionManager
	connectionManagerOnce   sync.Once
)

// GetConnectionManager returns the global connection manager instance
func GetConnectionManager() *ConnectionManager {
	connectionManagerOnce.Do(func() {
		globalConnectionManager = &ConnectionManager{}
	})
	return globalConnectionManager
}

// Initialize builds the container from cfg. Only the first call has any effect.
func (cm *ConnectionManager) Initialize(cfg *config.Config) error {
	cm.initOnce.Do(func() {
		cm.mu.Lock()
		defer cm.mu.Unlock()

		cm.config = cfg
		container, err := NewContainer(cfg)
		if err != nil {
			cm.initErr = err
			return
		}

		cm.container = container
		cm.lastUsed = time.Now()
		cm.initialized = true
	})

	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return cm.initErr
}

// GetContainer returns the container, loading configuration on first use
func (cm *ConnectionManager) GetContainer(ctx context.Context) (*Container, error) {
	cm.mu.Lock()
	if cm.initialized && cm.container != nil {
		cm.lastUsed = time.Now()
		container := cm.container
		cm.mu.Unlock()
		return container, nil
	}
	cm.mu.Unlock()

	cfg, err := config.GetOptimizedConfig()
	if err != nil {
		return nil, err
	}
	if err := cm.Initialize(cfg); err != nil {
		return nil, err
	}

	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return cm.container, nil
}

// IsHealthy reports whether the container was built and used recently
func (cm *ConnectionManager) IsHealthy() bool {
	cm.mu.RLock()
	defer cm.mu.RUnlock()

	if !cm.initialized || cm.container == nil {
		return false
	}

	// Idle runtimes are likely to have had their sockets reaped
	return time.Since(cm.lastUsed) < 5*time.Minute
}

// Cleanup releases the container's resources
func (cm *ConnectionManager) Cleanup() error {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	if cm.container != nil {
		if err := cm.container.Close(); err != nil {
			return err
		}
		cm.container = nil
	}

	cm.initialized = false
	cm.initErr = nil
	cm.initOnce = sync.Once{}
	return nil
}

// Function returns the Lambda entry point for the named function
func Function(name string) lambda.HandlerFunc {
	return GetConnectionManager().Function(name)
}

// Function returns a handler that serves name from this manager's container
func (cm *ConnectionManager) Function(name string) lambda.HandlerFunc {
	return func(ctx context.Context, req *lambda.Request) (*lambda.Response, error) {
		container, err := cm.GetContainer(ctx)
		if err != nil {
			return nil, err
		}

		endpoint, err := container.Endpoint(name)
		if err != nil {
			return nil, err
		}
		return endpoint.Handle(ctx, req)
	}
}

// Package di provides dependency injection container
package di

import (
	"log/slog"

	"github.com/ssargent/scryptd/pkg/api" //nolint:depguard
	"github.com/ssargent/scryptd/pkg/client"
	"github.com/ssargent/scryptd/pkg/dispatch"
	"github.com/ssargent/scryptd/pkg/hasher"
)

// DispatcherFactory creates the worker pool behind the server
type DispatcherFactory func(config dispatch.Config, logger *slog.Logger) *dispatch.Dispatcher

// ClientFactory creates the client used by the hash and compare commands
type ClientFactory func(config client.Config, logger *slog.Logger) *client.Client

// Container holds all the dependencies for the application
type Container struct {
	serverFactory     api.ServerFactory
	dispatcherFactory DispatcherFactory
	clientFactory     ClientFactory
}

// NewContainer creates a new dependency injection container
func NewContainer() *Container {
	return &Container{
		serverFactory: api.NewServerFactory(),
		dispatcherFactory: func(config dispatch.Config, logger *slog.Logger) *dispatch.Dispatcher {
			return dispatch.New(hasher.New(), config, logger)
		},
		clientFactory: client.New,
	}
}

// GetServerFactory returns the server factory
func (c *Container) GetServerFactory() api.ServerFactory {
	return c.serverFactory
}

// GetDispatcherFactory returns the dispatcher factory
func (c *Container) GetDispatcherFactory() DispatcherFactory {
	return c.dispatcherFactory
}

// GetClientFactory returns the client factory
func (c *Container) GetClientFactory() ClientFactory {
	return c.clientFactory
}

// SetServerFactory allows overriding the server factory (for testing)
func (c *Container) SetServerFactory(factory api.ServerFactory) {
	c.serverFactory = factory
}

// SetClientFactory allows overriding the client factory (for testing)
func (c *Container) SetClientFactory(factory ClientFactory) {
	c.clientFactory = factory
}

// Package api provides factory implementations for dependency injection
package api

import "log/slog"

// DefaultServerFactory is the default implementation of ServerFactory
type DefaultServerFactory struct{}

// NewServerFactory creates a new server factory
func NewServerFactory() ServerFactory {
	return &DefaultServerFactory{}
}

// CreateServerStarter creates a server with its own metrics registry
func (f *DefaultServerFactory) CreateServerStarter(deriver Deriver, config ServerConfig, logger *slog.Logger) ServerStarter {
	return NewServer(deriver, config, NewMetrics(), logger)
}

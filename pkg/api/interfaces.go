// Package api provides interfaces for dependency injection
package api

import (
	"context"
	"log/slog"

	"github.com/ssargent/scryptd/pkg/dispatch"
	"github.com/ssargent/scryptd/pkg/params"
)

// Deriver runs hash and compare operations for the handlers
type Deriver interface {
	Hash(ctx context.Context, data string, p params.ScryptParams) ([]byte, error)
	Compare(ctx context.Context, data string, encoded []byte) (bool, error)
	Stats() dispatch.Stats
}

// ServerStarter defines the interface for running the API server
type ServerStarter interface {
	// Run serves until ctx is cancelled, then shuts the listener down
	Run(ctx context.Context) error
}

// ServerFactory creates server instances
type ServerFactory interface {
	// CreateServerStarter creates a server for the given deriver and configuration
	CreateServerStarter(deriver Deriver, config ServerConfig, logger *slog.Logger) ServerStarter
}

package api

import (
	"time"

	"github.com/ssargent/scryptd/pkg/dispatch"
)

// APIResponse represents a standard API response
type APIResponse struct {
	Result interface{} `json:"result,omitempty"`
	Error  string      `json:"error,omitempty"`
}

// HealthResponse is the result of GET /health
type HealthResponse struct {
	Status  string         `json:"status"`
	Workers dispatch.Stats `json:"workers"`
}

// ServerConfig holds configuration for the API server
type ServerConfig struct {
	IP              string
	Port            int
	AllowedOrigins  []string
	EnableMetrics   bool
	ShutdownTimeout time.Duration
	Certificates    *CertificateStore // nil serves plain HTTP
}

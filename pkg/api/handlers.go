package api

import (
	"context"
	"encoding/base64"
	"log/slog"
	"net/http"
	"time"

	"github.com/ssargent/scryptd/pkg/params"
	"github.com/ssargent/scryptd/pkg/wire"
)

// Server holds the API server state
type Server struct {
	deriver Deriver
	config  ServerConfig
	metrics *Metrics
	logger  *slog.Logger
	router  http.Handler
}

// NewServer creates a new API server
func NewServer(deriver Deriver, config ServerConfig, metrics *Metrics, logger *slog.Logger) *Server {
	if metrics == nil {
		metrics = NewMetrics()
	}
	if logger == nil {
		logger = slog.Default()
	}
	if config.ShutdownTimeout <= 0 {
		config.ShutdownTimeout = defaultShutdownTimeout
	}

	s := &Server{
		deriver: deriver,
		config:  config,
		metrics: metrics,
		logger:  logger,
	}
	s.router = s.routes()
	return s
}

// ServeHTTP dispatches to the server's router
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// handleHealth godoc
//
//	@Summary		Health check
//	@Description	Get the health status of the service and its worker pool
//	@Tags			health
//	@Produce		json
//	@Success		200	{object}	APIResponse{result=HealthResponse}
//	@Router			/health [get]
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.metrics.RecordHealthCheck(true)
	sendSuccess(w, HealthResponse{
		Status:  "healthy",
		Workers: s.deriver.Stats(),
	})
}

// handleHash godoc
//
//	@Summary		Hash data
//	@Description	Derive an scrypt key for data with a random salt and return the encoded record
//	@Tags			scrypt
//	@Accept			json
//	@Produce		json
//	@Param			request	body		wire.HashRequest	true	"Data and scrypt parameters"
//	@Success		200		{object}	APIResponse{result=string}	"base64 record, or error"
//	@Failure		400		{object}	APIResponse
//	@Router			/hash [post]
func (s *Server) handleHash(w http.ResponseWriter, r *http.Request) {
	req, err := wire.DecodeHashRequest(r.Body)
	if err != nil {
		sendError(w, err.Error(), http.StatusBadRequest)
		return
	}

	start := time.Now()
	encoded, err := s.deriver.Hash(r.Context(), req.Data, req.ScryptParams)
	s.metrics.RecordDerivation("hash", err == nil, time.Since(start))
	if err != nil {
		s.sendOperationError(w, r, "hash", err)
		return
	}

	sendSuccess(w, base64.StdEncoding.EncodeToString(encoded))
}

// handleCompare godoc
//
//	@Summary		Compare data
//	@Description	Report whether data matches a base64 encoded record
//	@Tags			scrypt
//	@Accept			json
//	@Produce		json
//	@Param			request	body		wire.CompareRequest	true	"Data and encoded record"
//	@Success		200		{object}	APIResponse{result=bool}	"match flag, or error"
//	@Failure		400		{object}	APIResponse
//	@Router			/compare [post]
func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	req, err := wire.DecodeCompareRequest(r.Body)
	if err != nil {
		sendError(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := params.ValidateData(req.Data); err != nil {
		s.sendOperationError(w, r, "compare", err)
		return
	}
	encoded, err := base64.StdEncoding.DecodeString(req.Hash)
	if err != nil {
		s.sendOperationError(w, r, "compare", wire.ErrInvalidEncoding)
		return
	}

	start := time.Now()
	match, err := s.deriver.Compare(r.Context(), req.Data, encoded)
	s.metrics.RecordDerivation("compare", err == nil, time.Since(start))
	if err != nil {
		s.sendOperationError(w, r, "compare", err)
		return
	}

	sendSuccess(w, match)
}

func handleNotFound(w http.ResponseWriter, r *http.Request) {
	sendError(w, "Not found", http.StatusNotFound)
}

// sendOperationError reports a failed operation on a well-formed request.
// Only the public message leaves the process.
func (s *Server) sendOperationError(w http.ResponseWriter, r *http.Request, op string, err error) {
	msg := wire.Message(err)
	level := slog.LevelDebug
	if msg == wire.InternalErrorMessage {
		level = slog.LevelError
	}
	s.logger.Log(r.Context(), level, "operation failed",
		"request_id", RequestID(r.Context()),
		"op", op,
		"error", err)
	sendError(w, msg, http.StatusOK)
}

// startMetricsUpdater periodically copies worker pool stats into gauges
func (s *Server) startMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(metricsInterval)
	defer ticker.Stop()

	for {
		s.metrics.UpdatePoolStats(s.deriver.Stats())
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

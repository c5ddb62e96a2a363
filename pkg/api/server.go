// Package api scryptd REST API
//
// @title           scryptd REST API
// @version         1.0.0
// @description     Offloads scrypt hashing and verification to a bounded worker pool.
// @host            localhost:8080
// @BasePath        /
package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/swaggo/swag"
	"golang.org/x/sync/errgroup"
)

const (
	defaultShutdownTimeout = 10 * time.Second
	metricsInterval        = 5 * time.Second
)

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()

	r.Use(requestID)
	r.Use(requestLogger(s.logger))
	r.Use(middleware.Recoverer)
	if len(s.config.AllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   s.config.AllowedOrigins,
			AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders:   []string{"Content-Type", requestIDHeader},
			ExposedHeaders:   []string{requestIDHeader},
			AllowCredentials: false,
			MaxAge:           300,
		}))
	}

	// Unknown routes and wrong methods look the same to callers
	r.NotFound(handleNotFound)
	r.MethodNotAllowed(handleNotFound)

	r.Group(func(r chi.Router) {
		r.Use(limitBody(maxRequestBody))

		r.Post("/hash", s.metrics.InstrumentHandler("POST", "/hash", s.handleHash))
		r.Post("/compare", s.metrics.InstrumentHandler("POST", "/compare", s.handleCompare))
	})

	r.Get("/health", s.metrics.InstrumentHandler("GET", "/health", s.handleHealth))

	if s.config.EnableMetrics {
		r.Handle("/metrics", s.metrics.Handler())
	}

	r.Get("/swagger/*", s.handleSwagger)

	return r
}

// Run listens on the configured address and serves until ctx is cancelled
func (s *Server) Run(ctx context.Context) error {
	addr := net.JoinHostPort(s.config.IP, strconv.Itoa(s.config.Port))
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled, then shuts down gracefully
// within the configured timeout. ln is closed on return.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	if SwaggerInfo != nil {
		SwaggerInfo.Host = ln.Addr().String()
	}

	srv := &http.Server{
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
		ErrorLog:          slog.NewLogLogger(s.logger.Handler(), slog.LevelWarn),
	}

	scheme := "http"
	if s.config.Certificates != nil {
		scheme = "https"
		srv.TLSConfig = s.config.Certificates.TLSConfig()
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.logger.Info("starting scryptd server",
			"addr", ln.Addr().String(),
			"scheme", scheme,
			"metrics", s.config.EnableMetrics)

		var err error
		if srv.TLSConfig != nil {
			err = srv.ServeTLS(ln, "", "")
		} else {
			err = srv.Serve(ln)
		}
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	})

	g.Go(func() error {
		<-gctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
		defer cancel()

		s.logger.Info("shutting down scryptd server")
		return srv.Shutdown(shutdownCtx)
	})

	g.Go(func() error {
		s.startMetricsUpdater(gctx)
		return nil
	})

	return g.Wait()
}

const swaggerUI = `<!DOCTYPE html>
<html>
<head>
	 <title>scryptd API Documentation</title>
	 <link rel="stylesheet" type="text/css" href="https://unpkg.com/swagger-ui-dist@3.25.0/swagger-ui.css" />
</head>
<body>
	 <div id="swagger-ui"></div>
	 <script src="https://unpkg.com/swagger-ui-dist@3.25.0/swagger-ui-bundle.js"></script>
	 <script>
	   window.onload = function() {
	     SwaggerUIBundle({
	       url: '/swagger/swagger.json',
	       dom_id: '#swagger-ui',
	       presets: [
	         SwaggerUIBundle.presets.apis,
	         SwaggerUIBundle.presets.standalone
	       ]
	     });
	   };
	 </script>
</body>
</html>`

func (s *Server) handleSwagger(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case "/swagger/", "/swagger/index.html":
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(swaggerUI))
	case "/swagger/swagger.json":
		doc, err := swag.ReadDoc(SwaggerInfo.InstanceName())
		if err != nil {
			s.logger.Error("failed to generate swagger doc", "error", err)
			sendError(w, "Failed to generate Swagger documentation", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(doc))
	default:
		handleNotFound(w, r)
	}
}

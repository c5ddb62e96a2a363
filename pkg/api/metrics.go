package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ssargent/scryptd/pkg/dispatch"
)

const (
	statusSuccess = "success"
	statusError   = "error"
)

// Metrics holds all Prometheus metrics for the API
type Metrics struct {
	registry *prometheus.Registry

	// HTTP request metrics
	httpRequestsTotal    *prometheus.CounterVec
	httpRequestDuration  *prometheus.HistogramVec
	httpRequestsInFlight *prometheus.GaugeVec

	// Derivation metrics
	derivationsTotal   *prometheus.CounterVec
	derivationDuration *prometheus.HistogramVec

	// Worker pool metrics
	workersLive   prometheus.Gauge
	workersIdle   prometheus.Gauge
	workersQueued prometheus.Gauge

	// Health check metrics
	healthChecksTotal *prometheus.CounterVec
}

// NewMetrics creates all Prometheus metrics on a private registry, so any
// number of servers can coexist in one process.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	m := &Metrics{
		registry: reg,

		httpRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "scryptd_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status_code"},
		),

		httpRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "scryptd_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "endpoint"},
		),

		httpRequestsInFlight: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "scryptd_http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed",
			},
			[]string{"method", "endpoint"},
		),

		derivationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "scryptd_derivations_total",
				Help: "Total number of hash and compare operations",
			},
			[]string{"operation", "status"},
		),

		// scrypt runs take tens of milliseconds to seconds
		derivationDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "scryptd_derivation_duration_seconds",
				Help:    "Hash and compare duration in seconds, including queueing",
				Buckets: prometheus.ExponentialBuckets(0.005, 2, 12),
			},
			[]string{"operation"},
		),

		workersLive: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "scryptd_workers_live",
				Help: "Number of live derivation workers",
			},
		),

		workersIdle: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "scryptd_workers_idle",
				Help: "Number of idle derivation workers",
			},
		),

		workersQueued: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "scryptd_jobs_queued",
				Help: "Number of jobs waiting for a worker",
			},
		),

		healthChecksTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "scryptd_health_checks_total",
				Help: "Total number of health checks",
			},
			[]string{"status"},
		),
	}

	return m
}

// Handler returns the exposition handler for this registry
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// RecordHTTPRequest records an HTTP request
func (m *Metrics) RecordHTTPRequest(method, endpoint string, statusCode int, duration time.Duration) {
	statusCodeStr := strconv.Itoa(statusCode)

	m.httpRequestsTotal.WithLabelValues(method, endpoint, statusCodeStr).Inc()
	m.httpRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// RecordDerivation records a hash or compare operation
func (m *Metrics) RecordDerivation(operation string, success bool, duration time.Duration) {
	status := statusSuccess
	if !success {
		status = statusError
	}

	m.derivationsTotal.WithLabelValues(operation, status).Inc()
	m.derivationDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// UpdatePoolStats updates worker pool gauges
func (m *Metrics) UpdatePoolStats(stats dispatch.Stats) {
	m.workersLive.Set(float64(stats.Live))
	m.workersIdle.Set(float64(stats.Idle))
	m.workersQueued.Set(float64(stats.Queued))
}

// RecordHealthCheck records a health check
func (m *Metrics) RecordHealthCheck(success bool) {
	status := statusSuccess
	if !success {
		status = statusError
	}
	m.healthChecksTotal.WithLabelValues(status).Inc()
}

// InstrumentHandler instruments an HTTP handler with metrics
func (m *Metrics) InstrumentHandler(method, endpoint string, handler http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		gauge := m.httpRequestsInFlight.WithLabelValues(method, endpoint)
		gauge.Inc()
		defer gauge.Dec()

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		handler(rw, r)

		m.RecordHTTPRequest(method, endpoint, rw.statusCode, time.Since(start))
	}
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics represents the collection of all Prometheus metrics. A nil
// *Metrics is valid and records nothing.
type Metrics struct {
	// Standard metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Business metrics
	RecordsWritten  *prometheus.CounterVec
	Logins          *prometheus.CounterVec
	InjectedErrors  *prometheus.CounterVec
	ActiveSessions  prometheus.Gauge
	RateLimitedHits prometheus.Counter

	gatherer prometheus.Gatherer
}

// NewMetrics creates the metrics and registers them with reg. A nil reg
// gets a private registry.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	m := &Metrics{}

	m.HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "condo_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	m.HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "condo_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	m.RecordsWritten = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "condo_records_written_total",
			Help: "Records created, updated or deleted per resource",
		},
		[]string{"resource", "op"},
	)

	m.Logins = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "condo_logins_total",
			Help: "Login attempts by outcome",
		},
		[]string{"outcome"},
	)

	m.InjectedErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "condo_mock_injected_errors_total",
			Help: "Errors injected by the mock API per kind",
		},
		[]string{"kind"},
	)

	m.ActiveSessions = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "condo_active_sessions",
			Help: "Sessions created minus sessions ended in this process",
		},
	)

	m.RateLimitedHits = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "condo_rate_limited_total",
			Help: "Requests rejected by the login rate limiter",
		},
	)

	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.RecordsWritten,
		m.Logins,
		m.InjectedErrors,
		m.ActiveSessions,
		m.RateLimitedHits,
	)

	if g, ok := reg.(prometheus.Gatherer); ok {
		m.gatherer = g
	} else {
		m.gatherer = prometheus.DefaultGatherer
	}
	return m
}

// Middleware tracks request counts and latency by route pattern.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	if m == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)

		// ServeMux fills in Pattern; raw paths would explode label cardinality.
		path := r.Pattern
		if path == "" {
			path = "unmatched"
		}
		m.HTTPRequestsTotal.WithLabelValues(r.Method, path, http.StatusText(rw.statusCode)).Inc()
		m.HTTPRequestDuration.WithLabelValues(r.Method, path).Observe(time.Since(start).Seconds())
	})
}

// responseWriter is a wrapper to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// RecordWrite counts a create, update or delete on resource.
func (m *Metrics) RecordWrite(resource, op string) {
	if m == nil {
		return
	}
	m.RecordsWritten.WithLabelValues(resource, op).Inc()
}

// RecordLogin counts a login attempt. outcome is "success", "invalid" or "error".
func (m *Metrics) RecordLogin(outcome string) {
	if m == nil {
		return
	}
	m.Logins.WithLabelValues(outcome).Inc()
}

// RecordInjectedError counts a simulated failure.
func (m *Metrics) RecordInjectedError(kind string) {
	if m == nil {
		return
	}
	m.InjectedErrors.WithLabelValues(kind).Inc()
}

// SessionStarted and SessionEnded move the active session gauge.
func (m *Metrics) SessionStarted() {
	if m == nil {
		return
	}
	m.ActiveSessions.Inc()
}

func (m *Metrics) SessionEnded() {
	if m == nil {
		return
	}
	m.ActiveSessions.Dec()
}

// RecordRateLimited counts a rejected request.
func (m *Metrics) RecordRateLimited() {
	if m == nil {
		return
	}
	m.RateLimitedHits.Inc()
}

// Handler returns the Prometheus HTTP handler for the registry the metrics
// were registered with.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

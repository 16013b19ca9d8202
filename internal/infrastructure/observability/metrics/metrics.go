// Package metrics bundles the Prometheus collectors exposed on /metrics.
package metrics

import (
	"bufio"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "marine_dashboard"

// Metrics bundles prometheus collectors used by the dashboard and the analyzer.
type Metrics struct {
	registry *prometheus.Registry
	routes   map[string]struct{}

	RequestsTotal        *prometheus.CounterVec
	RequestDurationSec   *prometheus.HistogramVec
	MeasurementsRecorded *prometheus.CounterVec
	MeasurementsRejected *prometheus.CounterVec
	AlertsRaised         prometheus.Counter
	Identifications      *prometheus.CounterVec
	OceanHealthScore     *prometheus.GaugeVec
	AnalyzerCycles       *prometheus.CounterVec
	AuthFailures         prometheus.Counter
	RateLimitDropped     prometheus.Counter
}

func New(registry *prometheus.Registry) *Metrics {
	m := &Metrics{
		registry: registry,
		routes:   make(map[string]struct{}),
		RequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests.",
		}, []string{"route", "method", "status"}),
		RequestDurationSec: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method", "status"}),
		MeasurementsRecorded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "measurements_recorded_total",
			Help:      "Total number of measurement points recorded, by ingestion source.",
		}, []string{"source"}),
		MeasurementsRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "measurement_batches_rejected_total",
			Help:      "Total number of measurement batches rejected by validation.",
		}, []string{"source"}),
		AlertsRaised: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "alerts_raised_total",
			Help:      "Total number of anomaly alerts raised during ingestion.",
		}),
		Identifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "species_identifications_total",
			Help:      "Total number of species identification requests.",
		}, []string{"source", "outcome"}),
		OceanHealthScore: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "ocean_health_score",
			Help:      "Latest ocean health score (0-100) per location.",
		}, []string{"location"}),
		AnalyzerCycles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "health_analyzer_cycles_total",
			Help:      "Total number of health analyzer cycles.",
		}, []string{"result"}),
		AuthFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "auth_failures_total",
			Help:      "Total number of rejected bearer tokens.",
		}),
		RateLimitDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ratelimit_dropped_total",
			Help:      "Total number of requests dropped by the rate limiter.",
		}),
	}

	registry.MustRegister(
		m.RequestsTotal,
		m.RequestDurationSec,
		m.MeasurementsRecorded,
		m.MeasurementsRejected,
		m.AlertsRaised,
		m.Identifications,
		m.OceanHealthScore,
		m.AnalyzerCycles,
		m.AuthFailures,
		m.RateLimitDropped,
	)

	return m
}

// NewDefault creates a registry with Go runtime and process collectors.
func NewDefault() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		prometheus.NewGoCollector(),
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
	)
	return New(registry)
}

// RegisterWebSocketClients exposes the current number of connected dashboard clients.
func (m *Metrics) RegisterWebSocketClients(count func() int) {
	m.registry.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "websocket_clients",
		Help:      "Number of connected WebSocket clients.",
	}, func() float64 {
		return float64(count())
	}))
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// TrackRoutes adds API paths that get their own route label. Must be called
// before the middleware serves requests.
func (m *Metrics) TrackRoutes(paths ...string) {
	for _, p := range paths {
		m.routes[p] = struct{}{}
	}
}

func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		startedAt := time.Now()
		wrapped := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapped, r)

		status := strconv.Itoa(wrapped.statusCode)
		route := m.normalizeRoute(r.URL.Path)
		m.RequestsTotal.WithLabelValues(route, r.Method, status).Inc()
		m.RequestDurationSec.WithLabelValues(route, r.Method, status).Observe(time.Since(startedAt).Seconds())
	})
}

// normalizeRoute keeps label cardinality bounded: ids and unknown paths are collapsed.
func (m *Metrics) normalizeRoute(path string) string {
	if _, ok := m.routes[path]; ok {
		return path
	}

	switch {
	case path == "/" || path == "/dashboard" || path == "/species" || path == "/fisheries" || path == "/alerts":
		return "page"
	case path == "/ws" || path == "/metrics" || path == "/healthz" || path == "/readyz":
		return path
	case strings.HasPrefix(path, "/static/"):
		return "/static/*"
	case strings.HasPrefix(path, "/api/alerts/") && strings.HasSuffix(path, "/resolve"):
		return "/api/alerts/{id}/resolve"
	case strings.HasPrefix(path, "/api/v1/health-analyzer/"):
		return "/api/v1/health-analyzer/*"
	case strings.HasPrefix(path, "/api/"):
		return "/api/other"
	default:
		return "other"
	}
}

type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (rw *statusRecorder) WriteHeader(statusCode int) {
	rw.statusCode = statusCode
	rw.ResponseWriter.WriteHeader(statusCode)
}

// Hijack passes websocket upgrades through wrapped ResponseWriter.
func (rw *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hijacker, ok := rw.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, fmt.Errorf("response writer does not support hijacking")
	}
	return hijacker.Hijack()
}

func (rw *statusRecorder) Flush() {
	if flusher, ok := rw.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}

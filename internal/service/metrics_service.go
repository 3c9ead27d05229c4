package service

import (
	"database/sql"
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService encapsulates Prometheus instrumentation for inbound requests and peer calls.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	peerDuration    *prometheus.HistogramVec
	peerTotal       *prometheus.CounterVec
	enrichFallbacks *prometheus.CounterVec
}

// NewMetricsService registers core Prometheus collectors on a private registry.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	peerDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "peer_call_duration_seconds",
		Help:    "Duration of calls to sibling services, retries included",
		Buckets: prometheus.DefBuckets,
	}, []string{"service", "operation"})

	peerTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "peer_calls_total",
		Help: "Total number of calls to sibling services by outcome",
	}, []string{"service", "operation", "outcome"})

	enrichFallbacks := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "view_enrichment_fallbacks_total",
		Help: "Read-model fields rendered with a placeholder because a lookup failed",
	}, []string{"field"})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, peerDuration, peerTotal, enrichFallbacks, goroutines)

	return &MetricsService{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		peerDuration:    peerDuration,
		peerTotal:       peerTotal,
		enrichFallbacks: enrichFallbacks,
	}
}

// RegisterDBStats exports connection pool statistics of db under the given database name.
func (m *MetricsService) RegisterDBStats(db *sql.DB, name string) error {
	if m == nil || db == nil {
		return nil
	}
	return m.registry.Register(collectors.NewDBStatsCollector(db, name))
}

// Handler exposes the Prometheus HTTP handler.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// Registry returns the underlying registry.
func (m *MetricsService) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// ObserveHTTPRequest records request metrics.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
}

// ObservePeerCall records one logical call to a sibling service.
func (m *MetricsService) ObservePeerCall(service, operation, outcome string, duration time.Duration) {
	if m == nil {
		return
	}
	m.peerDuration.WithLabelValues(service, operation).Observe(duration.Seconds())
	m.peerTotal.WithLabelValues(service, operation, outcome).Inc()
}

// RecordEnrichmentFallback counts a placeholder rendered for field.
func (m *MetricsService) RecordEnrichmentFallback(field string) {
	if m == nil {
		return
	}
	m.enrichFallbacks.WithLabelValues(field).Inc()
}

package service

import (
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService encapsulates Prometheus instrumentation.
type MetricsService struct {
	registry            *prometheus.Registry
	handler             http.Handler
	requestDuration     *prometheus.HistogramVec
	requestTotal        *prometheus.CounterVec
	cacheLatency        prometheus.Observer
	cacheHits           prometheus.Counter
	cacheMisses         prometheus.Counter
	requestsCreated     *prometheus.CounterVec
	settlementsCreated  prometheus.Counter
	settlementConflicts prometheus.Counter
}

// NewMetricsService registers the HTTP, cache and domain collectors on a private registry.
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

	cacheLatency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "cache_latency_seconds",
		Help:    "Latency for cache lookups",
		Buckets: prometheus.DefBuckets,
	})

	cacheHits := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cache_hits_total",
		Help: "Total cache hits",
	})

	cacheMisses := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cache_misses_total",
		Help: "Total cache misses",
	})

	requestsCreated := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "requests_created_total",
		Help: "Requests created, by type",
	}, []string{"type"})

	settlementsCreated := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "settlements_created_total",
		Help: "Settlements created",
	})

	settlementConflicts := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "settlement_conflicts_total",
		Help: "Settlement creations rejected because the request already had one",
	})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, cacheLatency, cacheHits, cacheMisses, requestsCreated, settlementsCreated, settlementConflicts, goroutines)

	return &MetricsService{
		registry:            registry,
		handler:             promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration:     requestDuration,
		requestTotal:        requestTotal,
		cacheLatency:        cacheLatency,
		cacheHits:           cacheHits,
		cacheMisses:         cacheMisses,
		requestsCreated:     requestsCreated,
		settlementsCreated:  settlementsCreated,
		settlementConflicts: settlementConflicts,
	}
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

// ObserveHTTPRequest records request metrics.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
}

// RecordCacheOperation records a cache hit or miss.
func (m *MetricsService) RecordCacheOperation(hit bool, duration time.Duration) {
	if m == nil {
		return
	}
	m.cacheLatency.Observe(duration.Seconds())
	if hit {
		m.cacheHits.Inc()
	} else {
		m.cacheMisses.Inc()
	}
}

// RequestCreated counts a persisted request.
func (m *MetricsService) RequestCreated(requestType string) {
	if m == nil {
		return
	}
	m.requestsCreated.WithLabelValues(requestType).Inc()
}

// SettlementCreated counts a persisted settlement.
func (m *MetricsService) SettlementCreated() {
	if m == nil {
		return
	}
	m.settlementsCreated.Inc()
}

// SettlementConflict counts a rejected duplicate settlement.
func (m *MetricsService) SettlementConflict() {
	if m == nil {
		return
	}
	m.settlementConflicts.Inc()
}

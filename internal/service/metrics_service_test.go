package service

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsServiceHandlerExposesCollectors(t *testing.T) {
	metrics := NewMetricsService()
	metrics.ObserveHTTPRequest(http.MethodGet, "/requests", http.StatusOK, 20*time.Millisecond)
	metrics.RequestCreated("REFUND")
	metrics.SettlementCreated()
	metrics.SettlementConflict()

	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.requestTotal.WithLabelValues(http.MethodGet, "/requests", "200")))

	rec := httptest.NewRecorder()
	metrics.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "http_requests_total")
	assert.Contains(t, body, `requests_created_total{type="REFUND"} 1`)
	assert.Contains(t, body, "settlements_created_total 1")
	assert.Contains(t, body, "settlement_conflicts_total 1")
	assert.Contains(t, body, "goroutines_total")
}

func TestMetricsServiceNilIsSafe(t *testing.T) {
	var metrics *MetricsService
	metrics.ObserveHTTPRequest(http.MethodGet, "/", http.StatusOK, time.Millisecond)
	metrics.RecordCacheOperation(true, time.Millisecond)
	metrics.RequestCreated("CREDIT")
	metrics.SettlementCreated()
	metrics.SettlementConflict()

	rec := httptest.NewRecorder()
	metrics.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

package prometheus

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/AssetHunter-Intelligence/internal/infrastructure/monitoring/logging"
)

func newTestMetrics(t *testing.T) (*AppMetrics, MetricsCollector) {
	t.Helper()
	collector, err := NewMetricsCollector(CollectorConfig{Namespace: "hunter"}, logging.NewNopLogger())
	require.NoError(t, err)
	return NewAppMetrics(collector), collector
}

func scrape(t *testing.T, collector MetricsCollector) string {
	t.Helper()
	rec := httptest.NewRecorder()
	collector.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	return rec.Body.String()
}

func TestNewMetricsCollector_RequiresNamespace(t *testing.T) {
	_, err := NewMetricsCollector(CollectorConfig{}, logging.NewNopLogger())
	assert.Error(t, err)
}

func TestAppMetrics_Exposition(t *testing.T) {
	m, collector := newTestMetrics(t)

	m.RecordScan("success", 3*time.Second, 12, 4)
	m.RecordSearch("chrome", 5, 800*time.Millisecond)
	m.RecordSearch("shopify", 0, 200*time.Millisecond)
	m.RecordLLMCall("verify", true, time.Second)
	m.RecordLLMCall("analyze", false, 2*time.Second)
	m.RecordCacheAccess("search", true)
	m.RecordCacheAccess("search", false)
	m.SetComponentHealth("serpapi", true)
	m.SetComponentHealth("gemini", false)
	m.RecordHTTPRequest(http.MethodPost, "/scan", http.StatusOK, 150*time.Millisecond)

	body := scrape(t, collector)
	assert.Contains(t, body, `hunter_scans_total{status="success"} 1`)
	assert.Contains(t, body, `hunter_search_requests_total{marketplace="chrome",status="ok"} 1`)
	assert.Contains(t, body, `hunter_search_requests_total{marketplace="shopify",status="empty"} 1`)
	assert.Contains(t, body, `hunter_llm_requests_total{operation="verify",status="success"} 1`)
	assert.Contains(t, body, `hunter_llm_requests_total{operation="analyze",status="failure"} 1`)
	assert.Contains(t, body, `hunter_cache_hits_total{cache="search"} 1`)
	assert.Contains(t, body, `hunter_cache_misses_total{cache="search"} 1`)
	assert.Contains(t, body, `hunter_health_check_status{component="serpapi"} 1`)
	assert.Contains(t, body, `hunter_health_check_status{component="gemini"} 0`)
	assert.Contains(t, body, `hunter_http_requests_total{method="POST",path="/scan",status_code="200"} 1`)
}

func TestAppMetrics_NilReceiverIsSafe(t *testing.T) {
	var m *AppMetrics
	assert.NotPanics(t, func() {
		m.RecordScan("success", time.Second, 1, 1)
		m.RecordSearch("chrome", 0, time.Second)
		m.RecordLLMCall("verify", true, time.Second)
		m.RecordCacheAccess("search", true)
		m.SetComponentHealth("serpapi", true)
		m.RecordHTTPRequest(http.MethodGet, "/health", http.StatusOK, time.Millisecond)
	})
}

func TestRegisterCounter_DuplicateReturnsExisting(t *testing.T) {
	collector, err := NewMetricsCollector(CollectorConfig{Namespace: "hunter"}, logging.NewNopLogger())
	require.NoError(t, err)

	a := collector.RegisterCounter("dup_total", "dup", "label")
	b := collector.RegisterCounter("dup_total", "dup", "label")
	a.WithLabelValues("x").Inc()
	b.WithLabelValues("x").Inc()

	body := scrape(t, collector)
	assert.Contains(t, body, `hunter_dup_total{label="x"} 2`)
}

func TestTimer_ObservesElapsed(t *testing.T) {
	collector, err := NewMetricsCollector(CollectorConfig{Namespace: "hunter"}, logging.NewNopLogger())
	require.NoError(t, err)
	hist := collector.RegisterHistogram("op_duration_seconds", "op", nil)

	timer := NewTimer(hist.WithLabelValues())
	timer.ObserveDuration()

	body := scrape(t, collector)
	assert.Contains(t, body, "hunter_op_duration_seconds_count 1")
}

func TestTimer_NilHistogram(t *testing.T) {
	assert.NotPanics(t, func() { NewTimer(nil).ObserveDuration() })
}

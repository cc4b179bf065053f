package prometheus

import (
	"strconv"
	"time"
)

// AppMetrics holds the service's instrumentation.
type AppMetrics struct {
	// HTTP layer
	HTTPRequestsTotal   CounterVec
	HTTPRequestDuration HistogramVec
	HTTPActiveRequests  GaugeVec

	// Scan pipeline
	ScansTotal       CounterVec
	ScanDuration     HistogramVec
	ScanAssetsFound  HistogramVec
	ScanMarketplaces HistogramVec

	// Search collaborator
	SearchRequestsTotal CounterVec
	SearchDuration      HistogramVec

	// Generative collaborator
	LLMRequestsTotal   CounterVec
	LLMRequestDuration HistogramVec

	// Cache
	CacheHitsTotal   CounterVec
	CacheMissesTotal CounterVec

	// Health
	HealthCheckStatus GaugeVec
}

var (
	DefaultHTTPDurationBuckets = []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}
	DefaultScanDurationBuckets = []float64{.5, 1, 2, 5, 10, 30, 60, 120, 300}
	DefaultLLMDurationBuckets  = []float64{.5, 1, 2, 5, 10, 30, 60}
	DefaultCountBuckets        = []float64{0, 1, 5, 10, 25, 50, 100, 250}
)

// NewAppMetrics registers all service metrics against the collector.
func NewAppMetrics(collector MetricsCollector) *AppMetrics {
	m := &AppMetrics{}

	m.HTTPRequestsTotal = collector.RegisterCounter("http_requests_total", "Total HTTP requests", "method", "path", "status_code")
	m.HTTPRequestDuration = collector.RegisterHistogram("http_request_duration_seconds", "HTTP request duration", DefaultHTTPDurationBuckets, "method", "path")
	m.HTTPActiveRequests = collector.RegisterGauge("http_active_requests", "Active HTTP requests", "method", "path")

	m.ScansTotal = collector.RegisterCounter("scans_total", "Marketplace scans", "status")
	m.ScanDuration = collector.RegisterHistogram("scan_duration_seconds", "Scan duration", DefaultScanDurationBuckets, "status")
	m.ScanAssetsFound = collector.RegisterHistogram("scan_assets_found", "Assets found per scan", DefaultCountBuckets)
	m.ScanMarketplaces = collector.RegisterHistogram("scan_marketplaces", "Marketplaces covered per scan", []float64{1, 2, 4, 8, 14})

	m.SearchRequestsTotal = collector.RegisterCounter("search_requests_total", "Search collaborator requests", "marketplace", "status")
	m.SearchDuration = collector.RegisterHistogram("search_request_duration_seconds", "Search collaborator duration", DefaultHTTPDurationBuckets, "marketplace")

	m.LLMRequestsTotal = collector.RegisterCounter("llm_requests_total", "Generative collaborator requests", "operation", "status")
	m.LLMRequestDuration = collector.RegisterHistogram("llm_request_duration_seconds", "Generative collaborator duration", DefaultLLMDurationBuckets, "operation")

	m.CacheHitsTotal = collector.RegisterCounter("cache_hits_total", "Cache hits", "cache")
	m.CacheMissesTotal = collector.RegisterCounter("cache_misses_total", "Cache misses", "cache")

	m.HealthCheckStatus = collector.RegisterGauge("health_check_status", "Component health (1=up, 0=down)", "component")

	return m
}

// Helpers tolerate a nil receiver so instrumentation stays optional in tests
// and the CLI path.

func (m *AppMetrics) RecordHTTPRequest(method, path string, statusCode int, duration time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(statusCode)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

func (m *AppMetrics) RecordScan(status string, duration time.Duration, assetsFound, marketplaces int) {
	if m == nil {
		return
	}
	m.ScansTotal.WithLabelValues(status).Inc()
	m.ScanDuration.WithLabelValues(status).Observe(duration.Seconds())
	m.ScanAssetsFound.WithLabelValues().Observe(float64(assetsFound))
	m.ScanMarketplaces.WithLabelValues().Observe(float64(marketplaces))
}

func (m *AppMetrics) RecordSearch(marketplace string, results int, duration time.Duration) {
	if m == nil {
		return
	}
	status := "ok"
	if results == 0 {
		status = "empty"
	}
	m.SearchRequestsTotal.WithLabelValues(marketplace, status).Inc()
	m.SearchDuration.WithLabelValues(marketplace).Observe(duration.Seconds())
}

func (m *AppMetrics) RecordLLMCall(operation string, success bool, duration time.Duration) {
	if m == nil {
		return
	}
	status := "success"
	if !success {
		status = "failure"
	}
	m.LLMRequestsTotal.WithLabelValues(operation, status).Inc()
	m.LLMRequestDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

func (m *AppMetrics) RecordCacheAccess(cache string, hit bool) {
	if m == nil {
		return
	}
	if hit {
		m.CacheHitsTotal.WithLabelValues(cache).Inc()
	} else {
		m.CacheMissesTotal.WithLabelValues(cache).Inc()
	}
}

func (m *AppMetrics) SetComponentHealth(component string, up bool) {
	if m == nil {
		return
	}
	v := 0.0
	if up {
		v = 1.0
	}
	m.HealthCheckStatus.WithLabelValues(component).Set(v)
}

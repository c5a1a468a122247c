// Package metrics provides Prometheus metrics for the scoreboard service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Refresh cycle results.
const (
	ResultSuccess    = "success"
	ResultFetchError = "fetch_error"
	ResultError      = "error"
)

// Manager owns every Prometheus collector of the scoreboard service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Refresh loop
	refreshCycles      *prometheus.CounterVec
	refreshDuration    prometheus.Histogram
	lastSuccessUnix    prometheus.Gauge
	generating         prometheus.Gauge
	fetchDuration      prometheus.Histogram
	fetchErrors        prometheus.Counter
	renderDuration     prometheus.Histogram
	teamsRendered      prometheus.Gauge
	teamsDropped       prometheus.Counter
	logoMisses         *prometheus.CounterVec
	fontFallbacks      prometheus.Counter
	imagesPublished    prometheus.Counter
	publishErrors      *prometheus.CounterVec
	publishedImageSize prometheus.Gauge

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // metrics registry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "scoreboard",
		subsystem:        "overlay",
		histogramBuckets: []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000},
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() { //nolint:funlen // one place for every collector
	auto := promauto.With(m.registry)

	m.refreshCycles = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "refresh_cycles_total",
		Help:      "Refresh cycles by result",
	}, []string{"result"})

	m.refreshDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "refresh_duration_milliseconds",
		Help:      "Duration of a full fetch-render-publish cycle",
		Buckets:   m.histogramBuckets,
	})

	m.lastSuccessUnix = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "last_success_unixtime",
		Help:      "Unix time of the last successfully published scoreboard",
	})

	m.generating = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "generating",
		Help:      "1 while a refresh cycle is in progress",
	})

	m.fetchDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "fetch_duration_milliseconds",
		Help:      "Spreadsheet fetch latency",
		Buckets:   m.histogramBuckets,
	})

	m.fetchErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "fetch_errors_total",
		Help:      "Spreadsheet fetches that failed",
	})

	m.renderDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "render_duration_milliseconds",
		Help:      "Compositing latency",
		Buckets:   m.histogramBuckets,
	})

	m.teamsRendered = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "teams_rendered",
		Help:      "Teams drawn in the last render",
	})

	m.teamsDropped = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "teams_dropped_total",
		Help:      "Teams beyond the layout slot count",
	})

	m.logoMisses = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "logo_misses_total",
		Help:      "Logos that could not be drawn, by reason",
	}, []string{"reason"})

	m.fontFallbacks = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "font_fallbacks_total",
		Help:      "Font sizes served by the fallback face",
	})

	m.imagesPublished = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "images_published_total",
		Help:      "Scoreboard images atomically published",
	})

	m.publishErrors = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "publish_errors_total",
		Help:      "Publish failures by target",
	}, []string{"target"})

	m.publishedImageSize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "published_image_bytes",
		Help:      "Size of the last published PNG",
	})

	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests by endpoint and method",
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.httpRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_request_duration_milliseconds",
			Help:      "HTTP request duration in milliseconds",
			Buckets:   m.histogramBuckets,
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_memory_usage_bytes",
		Help:      "System memory usage in bytes",
	})

	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_goroutine_count",
		Help:      "Number of goroutines",
	})

	m.systemGCPauseTime = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_gc_pause_time_milliseconds",
		Help:      "GC pause time in milliseconds",
		Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000},
	})
}

// Refresh loop metrics.

// RecordRefreshCycle counts a finished cycle and observes its duration.
func RecordRefreshCycle(result string, durationMs float64) {
	globalManager.refreshCycles.WithLabelValues(result).Inc()
	globalManager.refreshDuration.Observe(durationMs)
}

// UpdateLastSuccess sets the unix time of the last published scoreboard.
func UpdateLastSuccess(unix int64) {
	globalManager.lastSuccessUnix.Set(float64(unix))
}

// SetGenerating flags whether a cycle is in progress.
func SetGenerating(on bool) {
	if on {
		globalManager.generating.Set(1)
		return
	}
	globalManager.generating.Set(0)
}

// RecordFetchLatency records spreadsheet fetch latency.
func RecordFetchLatency(latencyMs float64) {
	globalManager.fetchDuration.Observe(latencyMs)
}

// RecordFetchError increments the fetch error counter.
func RecordFetchError() {
	globalManager.fetchErrors.Inc()
}

// RecordRenderLatency records compositing latency.
func RecordRenderLatency(latencyMs float64) {
	globalManager.renderDuration.Observe(latencyMs)
}

// UpdateTeamsRendered sets the number of teams drawn by the last render.
func UpdateTeamsRendered(count int) {
	globalManager.teamsRendered.Set(float64(count))
}

// RecordTeamsDropped adds teams that had no slot.
func RecordTeamsDropped(count int) {
	globalManager.teamsDropped.Add(float64(count))
}

// RecordLogoMiss counts a logo that was skipped.
func RecordLogoMiss(reason string) {
	globalManager.logoMisses.WithLabelValues(reason).Inc()
}

// RecordFontFallback counts a font size served by the fallback face.
func RecordFontFallback() {
	globalManager.fontFallbacks.Inc()
}

// RecordImagePublished counts a publish and records the PNG size.
func RecordImagePublished(sizeBytes int) {
	globalManager.imagesPublished.Inc()
	globalManager.publishedImageSize.Set(float64(sizeBytes))
}

// RecordPublishError counts a publish failure for target (file, s3).
func RecordPublishError(target string) {
	globalManager.publishErrors.WithLabelValues(target).Inc()
}

// HTTP metrics.

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// System Performance Metrics Functions.

// UpdateSystemMemoryUsage sets the system memory usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime records GC pause time in milliseconds.
func RecordSystemGCPauseTime(pauseMs float64) {
	globalManager.systemGCPauseTime.Observe(pauseMs)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

// Package metrics provides Prometheus metrics for the loggraph analysis pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns every Prometheus collector used by loggraph.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      prometheus.Labels
	registry         prometheus.Registerer

	// Parsing
	linesParsed      prometheus.Counter
	linesSkipped     prometheus.Counter
	eventsByKind     *prometheus.CounterVec
	playersSeen      prometheus.Gauge
	parseDuration    prometheus.Histogram
	parseFailures    *prometheus.CounterVec
	logsAnalyzed     prometheus.Counter
	logsDeduplicated prometheus.Counter

	// Timelines
	timelinesBuilt       prometheus.Counter
	timelinesDegenerate  prometheus.Counter
	timelineBuildLatency prometheus.Histogram
	timelineScale        prometheus.Histogram
	noteworthyMoments    prometheus.Counter
	lookupMisses         prometheus.Counter

	// Job queue
	queueSize          prometheus.Gauge
	queueCapacity      prometheus.Gauge
	queueEnqueued      prometheus.Counter
	queueDequeued      prometheus.Counter
	queueEnqueueErrors prometheus.Counter

	// Workers
	workerCount      prometheus.Gauge
	workerJobLatency prometheus.Histogram
	workerErrors     prometheus.Counter

	// Repository
	repositoryWrites    prometheus.Counter
	repositoryLatency   *prometheus.HistogramVec
	repositorySummaries prometheus.Gauge

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Errors
	errorsByComponent *prometheus.CounterVec
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
		namespace:        "loggraph",
		subsystem:        "analysis",
		histogramBuckets: prometheus.DefBuckets,
		constLabels:      prometheus.Labels{},
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) counter(name, help string) prometheus.Counter {
	return promauto.With(m.registry).NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	})
}

func (m *Manager) gauge(name, help string) prometheus.Gauge {
	return promauto.With(m.registry).NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	})
}

func (m *Manager) histogram(name, help string, buckets []float64) prometheus.Histogram {
	return promauto.With(m.registry).NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		Buckets:     buckets,
		ConstLabels: m.constLabels,
	})
}

func (m *Manager) counterVec(name, help string, labels ...string) *prometheus.CounterVec {
	return promauto.With(m.registry).NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	}, labels)
}

func (m *Manager) histogramVec(name, help string, labels ...string) *prometheus.HistogramVec {
	return promauto.With(m.registry).NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		Buckets:     m.histogramBuckets,
		ConstLabels: m.constLabels,
	}, labels)
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() {
	m.linesParsed = m.counter("lines_parsed_total", "Log lines that produced an event")
	m.linesSkipped = m.counter("lines_skipped_total", "Log lines that matched no grammar rule")
	m.eventsByKind = m.counterVec("events_total", "Parsed events by kind", "kind")
	m.playersSeen = m.gauge("players_registered", "Players registered by the most recent log read")
	m.parseDuration = m.histogram("parse_duration_milliseconds", "Time to read one full log", m.histogramBuckets)
	m.parseFailures = m.counterVec("parse_failures_total", "Fatal log read failures by reason", "reason")
	m.logsAnalyzed = m.counter("logs_analyzed_total", "Logs read and filtered")
	m.logsDeduplicated = m.counter("logs_deduplicated_total", "Uploaded logs recognised as already analyzed")

	m.timelinesBuilt = m.counter("timelines_built_total", "Per-player timelines built")
	m.timelinesDegenerate = m.counter("timelines_degenerate_total", "Timelines rejected for having fewer than two events")
	m.timelineBuildLatency = m.histogram("timeline_build_milliseconds", "Timeline build latency", m.histogramBuckets)
	m.timelineScale = m.histogram("timeline_scale", "Final global vertical scale per timeline",
		[]float64{0.05, 0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 1})
	m.noteworthyMoments = m.counter("noteworthy_moments_total", "Noteworthy moments detected")
	m.lookupMisses = m.counter("player_lookup_misses_total", "Requested identifiers with no matching player")

	m.queueSize = m.gauge("queue_size", "Jobs waiting in the batch queue")
	m.queueCapacity = m.gauge("queue_capacity", "Batch queue capacity")
	m.queueEnqueued = m.counter("queue_enqueued_total", "Jobs enqueued")
	m.queueDequeued = m.counter("queue_dequeued_total", "Jobs dequeued")
	m.queueEnqueueErrors = m.counter("queue_enqueue_errors_total", "Jobs rejected by the queue")

	m.workerCount = m.gauge("worker_count", "Batch workers running")
	m.workerJobLatency = m.histogram("worker_job_milliseconds", "Per-job processing latency", m.histogramBuckets)
	m.workerErrors = m.counter("worker_errors_total", "Jobs that finished with an error")

	m.repositoryWrites = m.counter("repository_writes_total", "Summaries written to the result store")
	m.repositoryLatency = m.histogramVec("repository_latency_milliseconds", "Result store latency by operation", "op")
	m.repositorySummaries = m.gauge("repository_summaries", "Summaries held for the most recently written log")

	m.httpRequests = m.counterVec("http_requests_total", "HTTP requests by endpoint, method and status", "endpoint", "method", "status_code")
	m.httpRequestDuration = m.histogramVec("http_request_duration_milliseconds", "HTTP request duration", "endpoint", "method", "status_code")

	m.errorsByComponent = m.counterVec("errors_total", "Errors by component and type", "component", "error_type")
}

// RecordLineParsed increments the parsed-line counter and the per-kind counter.
func RecordLineParsed(kind string) {
	globalManager.linesParsed.Inc()
	globalManager.eventsByKind.WithLabelValues(kind).Inc()
}

// RecordLineSkipped increments the skipped-line counter.
func RecordLineSkipped() {
	globalManager.linesSkipped.Inc()
}

// UpdatePlayersRegistered sets the registry size of the latest read.
func UpdatePlayersRegistered(count int) {
	globalManager.playersSeen.Set(float64(count))
}

// RecordParseDuration records the time to read one log in milliseconds.
func RecordParseDuration(ms float64) {
	globalManager.parseDuration.Observe(ms)
}

// RecordParseFailure records a fatal read failure.
func RecordParseFailure(reason string) {
	globalManager.parseFailures.WithLabelValues(reason).Inc()
}

// RecordLogAnalyzed increments the analyzed-log counter.
func RecordLogAnalyzed() {
	globalManager.logsAnalyzed.Inc()
}

// RecordLogDeduplicated increments the duplicate-upload counter.
func RecordLogDeduplicated() {
	globalManager.logsDeduplicated.Inc()
}

// RecordTimelineBuilt records one built timeline with its latency and final scale.
func RecordTimelineBuilt(latencyMs float64, scale float64, noteworthy int) {
	globalManager.timelinesBuilt.Inc()
	globalManager.timelineBuildLatency.Observe(latencyMs)
	globalManager.timelineScale.Observe(scale)
	globalManager.noteworthyMoments.Add(float64(noteworthy))
}

// RecordTimelineDegenerate increments the degenerate timeline counter.
func RecordTimelineDegenerate() {
	globalManager.timelinesDegenerate.Inc()
}

// RecordLookupMiss increments the player lookup miss counter.
func RecordLookupMiss() {
	globalManager.lookupMisses.Inc()
}

// UpdateQueueSize sets the current queue size.
func UpdateQueueSize(size int) {
	globalManager.queueSize.Set(float64(size))
}

// UpdateQueueCapacity sets the maximum queue capacity.
func UpdateQueueCapacity(capacity int) {
	globalManager.queueCapacity.Set(float64(capacity))
}

// RecordQueueEnqueue increments the enqueue counter.
func RecordQueueEnqueue() {
	globalManager.queueEnqueued.Inc()
}

// RecordQueueDequeue increments the dequeue counter.
func RecordQueueDequeue() {
	globalManager.queueDequeued.Inc()
}

// RecordQueueEnqueueError increments the enqueue error counter.
func RecordQueueEnqueueError() {
	globalManager.queueEnqueueErrors.Inc()
}

// UpdateWorkerCount sets the number of running workers.
func UpdateWorkerCount(count int) {
	globalManager.workerCount.Set(float64(count))
}

// RecordWorkerJobLatency records per-job latency in milliseconds.
func RecordWorkerJobLatency(latencyMs float64) {
	globalManager.workerJobLatency.Observe(latencyMs)
}

// RecordWorkerError increments the worker error counter.
func RecordWorkerError() {
	globalManager.workerErrors.Inc()
}

// RecordRepositoryWrite increments the summary write counter.
func RecordRepositoryWrite() {
	globalManager.repositoryWrites.Inc()
}

// RecordRepositoryLatency records result store latency for op.
func RecordRepositoryLatency(op string, latencyMs float64) {
	globalManager.repositoryLatency.WithLabelValues(op).Observe(latencyMs)
}

// UpdateRepositorySummaries sets the number of summaries held for a log.
func UpdateRepositorySummaries(count int) {
	globalManager.repositorySummaries.Set(float64(count))
}

// RecordHTTPRequest increments the HTTP request counter.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration in milliseconds.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorsByComponent.WithLabelValues(component, errorType).Inc()
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

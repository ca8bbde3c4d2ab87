// Package metrics provides Prometheus metrics for the linguist service.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns every Prometheus collector the service exposes.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Quality reports
	reportsCreated     *prometheus.CounterVec
	reportTransitions  *prometheus.CounterVec
	transitionRejected *prometheus.CounterVec

	// Quizzes
	quizAttempts      *prometheus.CounterVec
	quizScorePercent  prometheus.Histogram
	assignmentsIssued prometheus.Counter

	// Rescoring pipeline
	rescoreLatency     prometheus.Histogram
	rescoreErrors      prometheus.Counter
	jobsDuplicate      prometheus.Counter
	notificationsSent  *prometheus.CounterVec
	queueSize          prometheus.Gauge
	queueCapacity      prometheus.Gauge
	queueUtilization   prometheus.Gauge
	queueEnqueueErrors *prometheus.CounterVec
	workerCount        prometheus.Gauge
	workerErrors       *prometheus.CounterVec

	// Store and cache
	storeOperations *prometheus.CounterVec
	storeLatency    *prometheus.HistogramVec
	settingsCache   *prometheus.CounterVec

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Population
	totalFreelancers prometheus.Gauge
}

var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // registry served on /healthz

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager. Without WithPrometheusRegistry the
// collectors go to prometheus.DefaultRegisterer.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "linguist",
		subsystem:        "core",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) counterVec(name, help string, labels ...string) *prometheus.CounterVec {
	return promauto.With(m.registry).NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      name,
		Help:      help,
	}, labels)
}

func (m *Manager) counter(name, help string) prometheus.Counter {
	return promauto.With(m.registry).NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      name,
		Help:      help,
	})
}

func (m *Manager) gauge(name, help string) prometheus.Gauge {
	return promauto.With(m.registry).NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      name,
		Help:      help,
	})
}

func (m *Manager) initializeMetrics() { //nolint:funlen // one place for every collector
	auto := promauto.With(m.registry)

	m.reportsCreated = m.counterVec("reports_created_total", "Quality reports created by report type", "report_type")
	m.reportTransitions = m.counterVec("report_transitions_total", "Accepted quality report transitions", "action", "to")
	m.transitionRejected = m.counterVec("report_transitions_rejected_total", "Rejected quality report transitions by reason", "action", "reason")

	m.quizAttempts = m.counterVec("quiz_attempts_total", "Scored quiz attempts by outcome", "outcome")
	m.quizScorePercent = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "quiz_score_percent",
		Help:      "Distribution of quiz attempt percentages",
		Buckets:   prometheus.LinearBuckets(0, 10, 11),
	})
	m.assignmentsIssued = m.counter("quiz_assignments_total", "Quiz assignments created or refreshed")

	m.rescoreLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "rescore_latency_milliseconds",
		Help:      "Latency of freelancer quality rescoring jobs",
		Buckets:   m.histogramBuckets,
	})
	m.rescoreErrors = m.counter("rescore_errors_total", "Failed freelancer rescoring jobs")
	m.jobsDuplicate = m.counter("jobs_duplicate_total", "Jobs or submissions dropped as duplicates")
	m.notificationsSent = m.counterVec("notifications_total", "Notifications by kind and result", "kind", "result")
	m.queueSize = m.gauge("queue_size", "Current number of queued jobs")
	m.queueCapacity = m.gauge("queue_capacity", "Configured job queue capacity")
	m.queueUtilization = m.gauge("queue_utilization_ratio", "Queue size divided by capacity")
	m.queueEnqueueErrors = m.counterVec("queue_enqueue_errors_total", "Rejected enqueue attempts by reason", "reason")
	m.workerCount = m.gauge("worker_count", "Number of job workers")
	m.workerErrors = m.counterVec("worker_errors_total", "Job handler failures by job kind", "kind")

	m.storeOperations = m.counterVec("store_operations_total", "Entity store operations", "kind", "op", "result")
	m.storeLatency = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "store_latency_milliseconds",
		Help:      "Entity store operation latency",
		Buckets:   m.histogramBuckets,
	}, []string{"kind", "op"})
	m.settingsCache = m.counterVec("settings_cache_total", "Quality settings cache lookups", "result")

	m.httpRequests = m.counterVec("http_requests_total", "HTTP requests by endpoint, method and status", "endpoint", "method", "status_code")
	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_request_duration_milliseconds",
		Help:      "HTTP request duration in milliseconds",
		Buckets:   m.histogramBuckets,
	}, []string{"endpoint", "method", "status_code"})

	m.totalFreelancers = m.gauge("freelancers_total", "Freelancers known to the store")
}

// RecordReportCreated counts a new quality report.
func RecordReportCreated(reportType string) {
	globalManager.reportsCreated.WithLabelValues(reportType).Inc()
}

// RecordReportTransition counts an applied lifecycle transition.
func RecordReportTransition(action, to string) {
	globalManager.reportTransitions.WithLabelValues(action, to).Inc()
}

// RecordTransitionRejected counts a refused lifecycle transition.
func RecordTransitionRejected(action, reason string) {
	globalManager.transitionRejected.WithLabelValues(action, reason).Inc()
}

// RecordQuizAttempt records a scored attempt.
func RecordQuizAttempt(passed bool, percentage int) {
	outcome := "failed"
	if passed {
		outcome = "passed"
	}
	globalManager.quizAttempts.WithLabelValues(outcome).Inc()
	globalManager.quizScorePercent.Observe(float64(percentage))
}

// RecordAssignment counts a created or refreshed quiz assignment.
func RecordAssignment() {
	globalManager.assignmentsIssued.Inc()
}

// RecordRescoreLatency records how long a rescoring job took.
func RecordRescoreLatency(latencyMs float64) {
	globalManager.rescoreLatency.Observe(latencyMs)
}

// RecordRescoreError counts a failed rescoring job.
func RecordRescoreError() {
	globalManager.rescoreErrors.Inc()
}

// RecordDuplicate counts a dropped duplicate job or submission.
func RecordDuplicate() {
	globalManager.jobsDuplicate.Inc()
}

// RecordNotification counts a notification attempt.
func RecordNotification(kind string, ok bool) {
	result := "sent"
	if !ok {
		result = "failed"
	}
	globalManager.notificationsSent.WithLabelValues(kind, result).Inc()
}

// UpdateQueue publishes queue size, capacity and utilization.
func UpdateQueue(size, capacity int) {
	globalManager.queueSize.Set(float64(size))
	globalManager.queueCapacity.Set(float64(capacity))
	if capacity > 0 {
		globalManager.queueUtilization.Set(float64(size) / float64(capacity))
	}
}

// RecordEnqueueError counts a rejected enqueue.
func RecordEnqueueError(reason string) {
	globalManager.queueEnqueueErrors.WithLabelValues(reason).Inc()
}

// UpdateWorkerCount sets the number of workers.
func UpdateWorkerCount(count int) {
	globalManager.workerCount.Set(float64(count))
}

// RecordWorkerError counts a failed job.
func RecordWorkerError(kind string) {
	globalManager.workerErrors.WithLabelValues(kind).Inc()
}

// RecordStoreOperation records one entity store call.
func RecordStoreOperation(kind, op string, err error, latencyMs float64) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	globalManager.storeOperations.WithLabelValues(kind, op, result).Inc()
	globalManager.storeLatency.WithLabelValues(kind, op).Observe(latencyMs)
}

// RecordSettingsCache records a settings cache hit, miss or error.
func RecordSettingsCache(result string) {
	globalManager.settingsCache.WithLabelValues(result).Inc()
}

// RecordHTTPRequest records an HTTP request and its duration.
func RecordHTTPRequest(endpoint, method, statusCode string, durationMs float64) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// UpdateTotalFreelancers sets the freelancer population gauge.
func UpdateTotalFreelancers(count int) {
	globalManager.totalFreelancers.Set(float64(count))
}

// GetRegistry returns the registry served on /healthz.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

var runtimeOnce sync.Once //nolint:gochecknoglobals // guards RegisterRuntimeCollectors

// RegisterRuntimeCollectors adds Go runtime and process metrics to the
// /healthz registry. Safe to call more than once.
func RegisterRuntimeCollectors() {
	runtimeOnce.Do(func() {
		customRegistry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	})
}

// Package metrics provides Prometheus metrics for the crease signup service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the crease service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Core Business Metrics - What really matters for signup tracking
	signupsTotal       prometheus.Counter
	quotaReachedTotal  prometheus.Counter
	goalieNotifications prometheus.Counter

	// Inbound Message Metrics - The interpretation pipeline
	messagesReceived    prometheus.Counter
	messagesDuplicate   prometheus.Counter
	messagesIgnored     *prometheus.CounterVec
	confirmationsByLevel *prometheus.CounterVec
	handlesExtracted    prometheus.Counter
	analysisLatency     prometheus.Histogram

	// Transport Metrics - External side effects
	smsSent      prometheus.Counter
	smsErrors    prometheus.Counter
	payoutsSent  prometheus.Counter
	payoutErrors prometheus.Counter

	// Queue Metrics - Inbound message queue performance
	queueSize              prometheus.Gauge
	queueCapacity          prometheus.Gauge
	queueUtilization       prometheus.Gauge
	queueEnqueueRate       prometheus.Counter
	queueDequeueRate       prometheus.Counter
	queueEnqueueErrors     prometheus.Counter
	queueProcessingLatency prometheus.Histogram

	// Worker Metrics - Processing performance
	workerActiveCount       prometheus.Gauge
	workerProcessingLatency prometheus.Histogram
	workerErrorRate         prometheus.Counter

	// HTTP Performance Metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Error Metrics - Per-component error tracking
	errorRateByComponent *prometheus.CounterVec

	// System Metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
}

var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

// Initialize global metrics.
func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "crease",
		subsystem:        "signup",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}

	// Apply all options
	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // long function required for comprehensive metrics initialization
	// Ensure metrics are registered on the configured registry (custom by default)
	auto := promauto.With(m.registry)

	// Core Business Metrics
	m.signupsTotal = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "signups_total",
		Help:      "Total number of accepted signups",
	})

	m.quotaReachedTotal = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "quota_reached_total",
		Help:      "Total number of weeks whose signup quota was reached",
	})

	m.goalieNotifications = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "goalie_notifications_total",
		Help:      "Total number of quota-reached notifications sent to the goalie contact",
	})

	// Inbound Message Metrics
	m.messagesReceived = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "messages_received_total",
		Help:      "Total number of inbound SMS messages received by the webhook",
	})

	m.messagesDuplicate = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "messages_duplicate_total",
		Help:      "Total number of inbound messages dropped as duplicate message ids",
	})

	m.messagesIgnored = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "messages_ignored_total",
			Help:      "Total number of inbound messages that produced no action, by reason",
		},
		[]string{"reason"},
	)

	m.confirmationsByLevel = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "confirmations_detected_total",
			Help:      "Total number of goalie confirmations detected, by confidence level",
		},
		[]string{"level"},
	)

	m.handlesExtracted = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "handles_extracted_total",
		Help:      "Total number of payment handles extracted from inbound messages",
	})

	m.analysisLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "analysis_latency_milliseconds",
		Help:      "Histogram of message analysis latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	// Transport Metrics
	m.smsSent = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "sms_sent_total",
		Help:      "Total number of outbound SMS messages sent",
	})

	m.smsErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "sms_errors_total",
		Help:      "Total number of outbound SMS send failures",
	})

	m.payoutsSent = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "payouts_sent_total",
		Help:      "Total number of goalie payouts sent",
	})

	m.payoutErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "payout_errors_total",
		Help:      "Total number of goalie payout failures",
	})

	// Queue Metrics
	m.queueSize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "queue_size",
		Help:      "Current size of the inbound message queue (backlog indicator)",
	})

	m.queueCapacity = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "queue_capacity",
		Help:      "Configured capacity of the inbound message queue",
	})

	m.queueUtilization = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "queue_utilization",
		Help:      "Queue utilization as a fraction of capacity",
	})

	m.queueEnqueueRate = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "queue_enqueue_total",
		Help:      "Total number of messages enqueued",
	})

	m.queueDequeueRate = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "queue_dequeue_total",
		Help:      "Total number of messages dequeued",
	})

	m.queueEnqueueErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "queue_enqueue_errors_total",
		Help:      "Total number of failed enqueue attempts (backpressure)",
	})

	m.queueProcessingLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "queue_processing_latency_milliseconds",
		Help:      "Histogram of enqueue latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	// Worker Metrics
	m.workerActiveCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "worker_active_count",
		Help:      "Number of active message workers",
	})

	m.workerProcessingLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "worker_processing_latency_milliseconds",
		Help:      "Histogram of end-to-end message processing latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.workerErrorRate = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "worker_errors_total",
		Help:      "Total number of worker processing errors",
	})

	// HTTP Performance Metrics
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
			Help:      "Histogram of HTTP request duration in milliseconds",
			Buckets:   m.histogramBuckets,
		},
		[]string{"endpoint", "method", "status_code"},
	)

	// Error Metrics
	m.errorRateByComponent = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "errors_by_component_total",
			Help:      "Total number of errors by component and error type",
		},
		[]string{"component", "error_type"},
	)

	// System Metrics
	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_memory_bytes",
		Help:      "System memory usage in bytes",
	})

	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_goroutine_count",
		Help:      "Number of goroutines",
	})
}

// Business metric helpers.

// RecordSignup increments the accepted signups counter.
func RecordSignup() {
	globalManager.signupsTotal.Inc()
}

// RecordQuotaReached increments the quota-reached counter.
func RecordQuotaReached() {
	globalManager.quotaReachedTotal.Inc()
}

// RecordGoalieNotified increments the goalie notification counter.
func RecordGoalieNotified() {
	globalManager.goalieNotifications.Inc()
}

// Inbound message metric helpers.

// RecordMessageReceived increments the inbound message counter.
func RecordMessageReceived() {
	globalManager.messagesReceived.Inc()
}

// RecordMessageDuplicate increments the duplicate message counter.
func RecordMessageDuplicate() {
	globalManager.messagesDuplicate.Inc()
}

// RecordMessageIgnored increments the ignored message counter for a reason.
func RecordMessageIgnored(reason string) {
	globalManager.messagesIgnored.WithLabelValues(reason).Inc()
}

// RecordConfirmationDetected increments the confirmation counter for a confidence level.
func RecordConfirmationDetected(level string) {
	globalManager.confirmationsByLevel.WithLabelValues(level).Inc()
}

// RecordHandleExtracted increments the extracted handles counter.
func RecordHandleExtracted() {
	globalManager.handlesExtracted.Inc()
}

// RecordAnalysisLatency records message analysis latency in milliseconds.
func RecordAnalysisLatency(latencyMs float64) {
	globalManager.analysisLatency.Observe(latencyMs)
}

// Transport metric helpers.

// RecordSMSSent increments the outbound SMS counter.
func RecordSMSSent() {
	globalManager.smsSent.Inc()
}

// RecordSMSError increments the SMS failure counter.
func RecordSMSError() {
	globalManager.smsErrors.Inc()
}

// RecordPayoutSent increments the payout counter.
func RecordPayoutSent() {
	globalManager.payoutsSent.Inc()
}

// RecordPayoutError increments the payout failure counter.
func RecordPayoutError() {
	globalManager.payoutErrors.Inc()
}

// Queue metric helpers.

// UpdateQueueSize sets the current queue size.
func UpdateQueueSize(size int) {
	globalManager.queueSize.Set(float64(size))
}

// UpdateQueueCapacity sets the queue capacity.
func UpdateQueueCapacity(capacity int) {
	globalManager.queueCapacity.Set(float64(capacity))
}

// UpdateQueueUtilization sets the queue utilization fraction.
func UpdateQueueUtilization(utilization float64) {
	globalManager.queueUtilization.Set(utilization)
}

// RecordQueueEnqueue increments the enqueue counter.
func RecordQueueEnqueue() {
	globalManager.queueEnqueueRate.Inc()
}

// RecordQueueDequeue increments the dequeue counter.
func RecordQueueDequeue() {
	globalManager.queueDequeueRate.Inc()
}

// RecordQueueEnqueueError increments the enqueue error counter.
func RecordQueueEnqueueError() {
	globalManager.queueEnqueueErrors.Inc()
}

// RecordQueueProcessingLatency records enqueue latency in milliseconds.
func RecordQueueProcessingLatency(latencyMs float64) {
	globalManager.queueProcessingLatency.Observe(latencyMs)
}

// Worker metric helpers.

// UpdateWorkerActiveCount sets the active worker count.
func UpdateWorkerActiveCount(count int) {
	globalManager.workerActiveCount.Set(float64(count))
}

// RecordWorkerProcessingLatency records end-to-end processing latency in milliseconds.
func RecordWorkerProcessingLatency(latencyMs float64) {
	globalManager.workerProcessingLatency.Observe(latencyMs)
}

// RecordWorkerError increments the worker error counter.
func RecordWorkerError() {
	globalManager.workerErrorRate.Inc()
}

// HTTP metric helpers.

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration in milliseconds.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, durationMs float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// Error metric helpers.

// RecordErrorByComponent records an error for a component and error type.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorRateByComponent.WithLabelValues(component, errorType).Inc()
}

// System metric helpers.

// UpdateSystemMemoryUsage sets the memory usage gauge.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the goroutine count gauge.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// GetRegistry returns the custom Prometheus registry used for serving /healthz.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

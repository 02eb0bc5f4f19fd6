// Package metrics provides Prometheus metrics for the gradebench sweep daemon.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Sweep metrics
	sweepsCompleted prometheus.Counter
	sweepDuration   prometheus.Histogram
	lastSweepUnix   prometheus.Gauge

	// Assignment metrics
	assignmentsProcessed prometheus.Counter
	assignmentErrors     prometheus.Counter

	// Submission metrics
	submissionsFetched prometheus.Counter
	submissionsGraded  prometheus.Counter
	submissionsSkipped *prometheus.CounterVec

	// Evaluation metrics
	evaluationLatency prometheus.Histogram
	evaluationErrors  prometheus.Counter
	stageExits        *prometheus.CounterVec

	// LMS client metrics
	pagesFetched    prometheus.Counter
	fetchErrors     prometheus.Counter
	publishSuccess  prometheus.Counter
	publishFailures prometheus.Counter

	// Worker metrics
	workerCount prometheus.Gauge
}

// Global metrics manager instance.
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
		namespace:        "gradebench",
		subsystem:        "sweep",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.sweepsCompleted = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "sweeps_completed_total",
		Help:      "Total number of completed grading sweeps",
	})

	m.sweepDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "sweep_duration_seconds",
		Help:      "Histogram of full sweep duration in seconds",
		Buckets:   m.histogramBuckets,
	})

	m.lastSweepUnix = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "last_sweep_unix",
		Help:      "Unix timestamp of the last completed sweep",
	})

	m.assignmentsProcessed = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "assignments_processed_total",
		Help:      "Total number of assignments processed across all sweeps",
	})

	m.assignmentErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "assignment_errors_total",
		Help:      "Total number of assignments aborted by an unexpected error",
	})

	m.submissionsFetched = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "submissions_fetched_total",
		Help:      "Total number of submissions fetched from the course service",
	})

	m.submissionsGraded = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "submissions_graded_total",
		Help:      "Total number of submissions graded and published",
	})

	m.submissionsSkipped = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "submissions_skipped_total",
			Help:      "Total number of submissions skipped, by reason",
		},
		[]string{"reason"},
	)

	m.evaluationLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "evaluation_latency_milliseconds",
		Help:      "Histogram of rubric evaluation latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.evaluationErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "evaluation_errors_total",
		Help:      "Total number of rubric evaluation errors",
	})

	m.stageExits = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "rubric_stage_exits_total",
			Help:      "Total number of rubric pipeline exits, by terminating stage",
		},
		[]string{"rubric", "stage"},
	)

	m.pagesFetched = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "submission_pages_fetched_total",
		Help:      "Total number of submission pages fetched",
	})

	m.fetchErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "fetch_errors_total",
		Help:      "Total number of failed fetches against the course service",
	})

	m.publishSuccess = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "publish_success_total",
		Help:      "Total number of grades successfully written back",
	})

	m.publishFailures = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "publish_failures_total",
		Help:      "Total number of rejected grade write-backs",
	})

	m.workerCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "worker_count",
		Help:      "Number of submission grading workers",
	})
}

// Package-level helpers on the global manager.

// RecordSweepCompleted increments the completed sweep counter and stamps the
// last sweep time.
func RecordSweepCompleted(unixTime int64) {
	globalManager.sweepsCompleted.Inc()
	globalManager.lastSweepUnix.Set(float64(unixTime))
}

// RecordSweepDuration records a full sweep duration in seconds.
func RecordSweepDuration(seconds float64) {
	globalManager.sweepDuration.Observe(seconds)
}

// RecordAssignmentProcessed increments the processed assignment counter.
func RecordAssignmentProcessed() {
	globalManager.assignmentsProcessed.Inc()
}

// RecordAssignmentError increments the aborted assignment counter.
func RecordAssignmentError() {
	globalManager.assignmentErrors.Inc()
}

// RecordSubmissionsFetched adds to the fetched submission counter.
func RecordSubmissionsFetched(count int) {
	globalManager.submissionsFetched.Add(float64(count))
}

// RecordSubmissionGraded increments the graded submission counter.
func RecordSubmissionGraded() {
	globalManager.submissionsGraded.Inc()
}

// RecordSubmissionSkipped increments the skipped submission counter for a reason.
func RecordSubmissionSkipped(reason string) {
	globalManager.submissionsSkipped.WithLabelValues(reason).Inc()
}

// RecordEvaluationLatency records a rubric evaluation latency in milliseconds.
func RecordEvaluationLatency(latencyMs float64) {
	globalManager.evaluationLatency.Observe(latencyMs)
}

// RecordEvaluationError increments the evaluation error counter.
func RecordEvaluationError() {
	globalManager.evaluationErrors.Inc()
}

// RecordStageExit increments the pipeline exit counter for a rubric stage.
func RecordStageExit(rubric, stage string) {
	globalManager.stageExits.WithLabelValues(rubric, stage).Inc()
}

// RecordPageFetched increments the fetched page counter.
func RecordPageFetched() {
	globalManager.pagesFetched.Inc()
}

// RecordFetchError increments the fetch error counter.
func RecordFetchError() {
	globalManager.fetchErrors.Inc()
}

// RecordPublishSuccess increments the successful write-back counter.
func RecordPublishSuccess() {
	globalManager.publishSuccess.Inc()
}

// RecordPublishFailure increments the rejected write-back counter.
func RecordPublishFailure() {
	globalManager.publishFailures.Inc()
}

// UpdateWorkerCount sets the grading worker gauge.
func UpdateWorkerCount(count int) {
	globalManager.workerCount.Set(float64(count))
}

// GetRegistry returns the custom Prometheus registry for the metrics endpoint.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

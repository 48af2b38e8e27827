package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// SchedulerMetricsCollector records build queue activity. It implements
// common.SchedulerMetrics and the progress store's failure counter.
type SchedulerMetricsCollector struct {
	submissions         *prometheus.CounterVec
	waits               *prometheus.CounterVec
	waitSeconds         *prometheus.HistogramVec
	fatals              *prometheus.CounterVec
	queuedSteps         *prometheus.GaugeVec
	totalSteps          *prometheus.GaugeVec
	persistenceFailures *prometheus.CounterVec
}

// NewSchedulerMetricsCollector creates a new scheduler metrics collector
func NewSchedulerMetricsCollector() *SchedulerMetricsCollector {
	return &SchedulerMetricsCollector{
		// Items handed to the game per queue
		submissions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "scheduler",
				Name:      "submissions_total",
				Help:      "Total number of constructions submitted by queue, name and level",
			},
			[]string{"queue", "name", "level"},
		),

		waits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "scheduler",
				Name:      "waits_total",
				Help:      "Total number of waits by queue and reason",
			},
			[]string{"queue", "reason"},
		),

		waitSeconds: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "scheduler",
				Name:      "wait_duration_seconds",
				Help:      "Distribution of scheduled waits",
				Buckets:   []float64{1, 10, 60, 300, 600, 1800, 3600, 4 * 3600, 12 * 3600, 48 * 3600},
			},
			[]string{"queue", "reason"},
		),

		fatals: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "scheduler",
				Name:      "fatal_total",
				Help:      "Total number of runs stopped by a fatal condition",
			},
			[]string{"reason"},
		),

		queuedSteps: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "scheduler",
				Name:      "plan_queued_steps",
				Help:      "Plan steps already handed to the game",
			},
			[]string{"queue"},
		),

		totalSteps: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "scheduler",
				Name:      "plan_steps",
				Help:      "Total plan steps",
			},
			[]string{"queue"},
		),

		persistenceFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "progress",
				Name:      "write_failures_total",
				Help:      "Progress writes that failed",
			},
			[]string{"queue"},
		),
	}
}

// Register registers all scheduler metrics with the Prometheus registry
func (c *SchedulerMetricsCollector) Register() error {
	return register(
		c.submissions,
		c.waits,
		c.waitSeconds,
		c.fatals,
		c.queuedSteps,
		c.totalSteps,
		c.persistenceFailures,
	)
}

// RecordSubmission records a construction handed to the game
func (c *SchedulerMetricsCollector) RecordSubmission(queue, name string, level int) {
	c.submissions.WithLabelValues(queue, name, strconv.Itoa(level)).Inc()
}

// RecordWait records a scheduled wait
func (c *SchedulerMetricsCollector) RecordWait(queue, reason string, wait time.Duration) {
	c.waits.WithLabelValues(queue, reason).Inc()
	c.waitSeconds.WithLabelValues(queue, reason).Observe(wait.Seconds())
}

// RecordFatal records the reason a run stopped
func (c *SchedulerMetricsCollector) RecordFatal(reason string) {
	c.fatals.WithLabelValues(reason).Inc()
}

// SetProgress publishes how far a plan has been queued
func (c *SchedulerMetricsCollector) SetProgress(queue string, queued, total int) {
	c.queuedSteps.WithLabelValues(queue).Set(float64(queued))
	c.totalSteps.WithLabelValues(queue).Set(float64(total))
}

// RecordPersistenceFailure counts a failed progress write
func (c *SchedulerMetricsCollector) RecordPersistenceFailure(queue string) {
	c.persistenceFailures.WithLabelValues(queue).Inc()
}

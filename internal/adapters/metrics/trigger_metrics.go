package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// TriggerMetricsCollector handles HTTP trigger metrics
type TriggerMetricsCollector struct {
	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
	runsTotal    *prometheus.CounterVec
	runsActive   prometheus.Gauge
}

// NewTriggerMetricsCollector creates a new trigger metrics collector
func NewTriggerMetricsCollector() *TriggerMetricsCollector {
	return &TriggerMetricsCollector{
		httpRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "trigger",
				Name:      "http_requests_total",
				Help:      "Total number of trigger requests by route and status code",
			},
			[]string{"route", "status_code"},
		),

		httpDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "trigger",
				Name:      "http_request_duration_seconds",
				Help:      "Trigger request duration distribution",
				Buckets:   []float64{0.01, 0.1, 1, 10, 60, 600, 3600, 6 * 3600},
			},
			[]string{"route"},
		),

		// Subprocess runs by exit code
		runsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "trigger",
				Name:      "runs_total",
				Help:      "Total number of scheduler runs by exit code",
			},
			[]string{"exit_code"},
		),

		runsActive: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "trigger",
				Name:      "runs_active",
				Help:      "Scheduler runs currently in progress",
			},
		),
	}
}

// Register registers all trigger metrics with the Prometheus registry
func (c *TriggerMetricsCollector) Register() error {
	return register(c.httpRequests, c.httpDuration, c.runsTotal, c.runsActive)
}

// RecordHTTPRequest records a completed trigger request
func (c *TriggerMetricsCollector) RecordHTTPRequest(route string, statusCode int, duration time.Duration) {
	c.httpRequests.WithLabelValues(route, strconv.Itoa(statusCode)).Inc()
	c.httpDuration.WithLabelValues(route).Observe(duration.Seconds())
}

// RunStarted marks a subprocess as running
func (c *TriggerMetricsCollector) RunStarted() {
	c.runsActive.Inc()
}

// RunFinished records a subprocess exit
func (c *TriggerMetricsCollector) RunFinished(exitCode int) {
	c.runsActive.Dec()
	c.runsTotal.WithLabelValues(strconv.Itoa(exitCode)).Inc()
}

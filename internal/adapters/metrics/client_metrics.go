package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var circuitStates = []string{"closed", "open", "half_open"}

// ClientMetricsCollector handles game frontend request metrics
type ClientMetricsCollector struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	circuitState    *prometheus.GaugeVec
}

// NewClientMetricsCollector creates a new client metrics collector
func NewClientMetricsCollector() *ClientMetricsCollector {
	return &ClientMetricsCollector{
		// Requests by page and outcome (ok, server_error, rate_limited, ...)
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "client",
				Name:      "requests_total",
				Help:      "Total number of game requests by page and outcome",
			},
			[]string{"page", "outcome"},
		),

		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "client",
				Name:      "request_duration_seconds",
				Help:      "Game request duration distribution",
				Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1.0, 2.0, 5.0, 10.0, 30.0},
			},
			[]string{"page"},
		),

		// One series per state, the current one set to 1
		circuitState: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "client",
				Name:      "circuit_state",
				Help:      "Circuit breaker state of the game client",
			},
			[]string{"state"},
		),
	}
}

// Register registers all client metrics with the Prometheus registry
func (c *ClientMetricsCollector) Register() error {
	return register(c.requestsTotal, c.requestDuration, c.circuitState)
}

// RecordRequest records one HTTP round trip
func (c *ClientMetricsCollector) RecordRequest(page, outcome string, duration time.Duration) {
	c.requestsTotal.WithLabelValues(page, outcome).Inc()
	c.requestDuration.WithLabelValues(page).Observe(duration.Seconds())
}

// SetCircuitState marks state as the current breaker state
func (c *ClientMetricsCollector) SetCircuitState(state string) {
	for _, s := range circuitStates {
		value := 0.0
		if s == state {
			value = 1
		}
		c.circuitState.WithLabelValues(s).Set(value)
	}
}

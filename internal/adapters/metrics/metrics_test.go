package metrics_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/pr0game-go/internal/adapters/metrics"
)

func TestSchedulerMetrics_ExposedThroughHandler(t *testing.T) {
	// Arrange
	metrics.InitRegistry()
	t.Cleanup(func() { metrics.Registry = nil })
	collector := metrics.NewSchedulerMetricsCollector()
	require.NoError(t, collector.Register())

	// Act
	collector.RecordSubmission("buildings", "Metallmine", 3)
	collector.RecordSubmission("buildings", "Metallmine", 3)
	collector.RecordWait("buildings", "resources", 90*time.Second)
	collector.SetProgress("research", 4, 20)
	collector.RecordPersistenceFailure("buildings")

	rec := httptest.NewRecorder()
	metrics.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)

	// Assert
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, string(body), `pr0game_scheduler_submissions_total{level="3",name="Metallmine",queue="buildings"} 2`)
	assert.Contains(t, string(body), `pr0game_scheduler_plan_queued_steps{queue="research"} 4`)
	assert.Contains(t, string(body), `pr0game_scheduler_plan_steps{queue="research"} 20`)
	assert.Contains(t, string(body), `pr0game_progress_write_failures_total{queue="buildings"} 1`)
	assert.Contains(t, string(body), `pr0game_scheduler_wait_duration_seconds_count{queue="buildings",reason="resources"} 1`)
}

func TestClientMetrics_CircuitStateIsOneHot(t *testing.T) {
	// Arrange
	metrics.InitRegistry()
	t.Cleanup(func() { metrics.Registry = nil })
	collector := metrics.NewClientMetricsCollector()
	require.NoError(t, collector.Register())

	// Act
	collector.SetCircuitState("closed")
	collector.SetCircuitState("open")
	collector.RecordRequest("buildings", "ok", 120*time.Millisecond)

	// Assert
	count, err := testutil.GatherAndCount(metrics.Registry, "pr0game_client_circuit_state")
	require.NoError(t, err)
	assert.Equal(t, 3, count)
	count, err = testutil.GatherAndCount(metrics.Registry, "pr0game_client_requests_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestCollectors_RegisterIsNoOpWhenDisabled(t *testing.T) {
	// Arrange
	metrics.Registry = nil

	// Act & Assert
	assert.False(t, metrics.IsEnabled())
	assert.NoError(t, metrics.NewTriggerMetricsCollector().Register())

	rec := httptest.NewRecorder()
	metrics.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestTriggerMetrics_RecordsRuns(t *testing.T) {
	// Arrange
	metrics.InitRegistry()
	t.Cleanup(func() { metrics.Registry = nil })
	collector := metrics.NewTriggerMetricsCollector()
	require.NoError(t, collector.Register())

	// Act
	collector.RunStarted()
	collector.RunFinished(1)
	collector.RecordHTTPRequest("start", http.StatusOK, 2*time.Second)

	// Assert
	count, err := testutil.GatherAndCount(metrics.Registry, "pr0game_trigger_runs_total", "pr0game_trigger_http_requests_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

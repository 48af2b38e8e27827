package persistence_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/pr0game-go/internal/adapters/persistence"
	"github.com/andrescamacho/pr0game-go/internal/application/common"
	"github.com/andrescamacho/pr0game-go/internal/domain/game"
	"github.com/andrescamacho/pr0game-go/internal/domain/plan"
	"github.com/andrescamacho/pr0game-go/test/helpers"
)

var queuedTime = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func samplePlan() plan.Plan {
	return plan.Plan{
		{Order: 0, Kind: plan.KindBuilding, Name: "Solarkraftwerk", Level: 1, Cost: plan.Cost{Met: 75, Kris: 30, EnergyProduction: 22}},
		{Order: 1, Kind: plan.KindResearchCheckpoint, Name: "Computertechnik", Level: 1},
		{Order: 2, Kind: plan.KindBuilding, Name: "Metallmine", Level: 1, Cost: plan.Cost{Met: 60, Kris: 15, Energy: 11}},
	}
}

func newStore(t *testing.T, dir, user string) (*persistence.ProgressStore, *helpers.MockLogger) {
	t.Helper()
	logger := helpers.NewMockLogger()
	store, err := persistence.NewProgressStore(common.WithLogger(context.Background(), logger), dir, user, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store, logger
}

func TestProgressStore_PathsCarryUserSuffix(t *testing.T) {
	// Arrange
	shared, _ := newStore(t, "/data", "")
	personal, _ := newStore(t, "/data", "alice")

	// Assert
	assert.Equal(t, filepath.Join("/data", "built-order.json"), shared.Path(game.BuildingQueue))
	assert.Equal(t, filepath.Join("/data", "researched-order.json"), shared.Path(game.ResearchQueue))
	assert.Equal(t, filepath.Join("/data", "built-order-alice.json"), personal.Path(game.BuildingQueue))
	assert.Equal(t, filepath.Join("/data", "researched-order-alice.json"), personal.Path(game.ResearchQueue))
}

func TestProgressStore_LoadBootstrapsMissingFile(t *testing.T) {
	// Arrange
	store, _ := newStore(t, t.TempDir(), "")

	// Act
	steps, err := store.Load(context.Background(), game.BuildingQueue, samplePlan())

	// Assert
	require.NoError(t, err)
	assert.Equal(t, samplePlan(), steps)
	_, statErr := os.Stat(store.Path(game.BuildingQueue))
	assert.NoError(t, statErr)
}

func TestProgressStore_AsyncProgressSurvivesRestart(t *testing.T) {
	// Arrange
	dir := t.TempDir()
	store, _ := newStore(t, dir, "alice")
	steps, err := store.Load(context.Background(), game.BuildingQueue, samplePlan())
	require.NoError(t, err)
	require.NoError(t, steps.MarkQueued(0, queuedTime))

	// Act
	store.SaveAsync(game.BuildingQueue, steps.Clone())
	require.NoError(t, store.Close())
	restarted, _ := newStore(t, dir, "alice")
	resumed, err := restarted.Load(context.Background(), game.BuildingQueue, samplePlan())

	// Assert
	require.NoError(t, err)
	index, next, err := resumed.Next()
	require.NoError(t, err)
	assert.Equal(t, 1, index)
	assert.Equal(t, "Computertechnik", next.Name)
	require.NotNil(t, resumed[0].QueuedAt)
	assert.True(t, queuedTime.Equal(*resumed[0].QueuedAt))
}

func TestProgressStore_LoadMergesOntoGrownPlan(t *testing.T) {
	// Arrange: progress persisted for the first step only
	store, _ := newStore(t, t.TempDir(), "")
	short := samplePlan()[:1]
	require.NoError(t, short.MarkQueued(0, queuedTime))
	require.NoError(t, store.Save(context.Background(), game.BuildingQueue, short))

	// Act
	steps, err := store.Load(context.Background(), game.BuildingQueue, samplePlan())

	// Assert
	require.NoError(t, err)
	require.Len(t, steps, 3)
	assert.True(t, steps[0].HasBeenQueued)
	assert.False(t, steps[1].HasBeenQueued)
	assert.False(t, steps[2].HasBeenQueued)
	assert.Equal(t, 11, steps[2].Cost.Energy)
}

func TestProgressStore_LoadRejectsMalformedProgress(t *testing.T) {
	// Arrange
	store, _ := newStore(t, t.TempDir(), "")
	path := store.Path(game.BuildingQueue)
	require.NoError(t, os.WriteFile(path, []byte(`[{"order": 0, "name": "Metallmine", "level": 0}]`), 0o644))

	// Act
	_, err := store.Load(context.Background(), game.BuildingQueue, samplePlan())

	// Assert
	var persistErr *persistence.PersistenceError
	require.ErrorAs(t, err, &persistErr)
	assert.Equal(t, path, persistErr.Path)
}

func TestProgressStore_ResetClearsQueueState(t *testing.T) {
	// Arrange
	store, _ := newStore(t, t.TempDir(), "")
	queued := samplePlan()
	require.NoError(t, queued.MarkQueued(0, queuedTime))
	require.NoError(t, store.Save(context.Background(), game.BuildingQueue, queued))

	// Act
	require.NoError(t, store.Reset(context.Background(), game.BuildingQueue, queued))
	steps, err := store.Load(context.Background(), game.BuildingQueue, samplePlan())

	// Assert
	require.NoError(t, err)
	assert.Zero(t, steps.QueuedCount())
}

func TestProgressStore_FailedBackgroundWriteIsLoggedNotFatal(t *testing.T) {
	// Arrange: the storage dir is a regular file, so every write fails
	blocker := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))
	store, logger := newStore(t, filepath.Join(blocker, "storage"), "")

	// Act
	store.SaveAsync(game.BuildingQueue, samplePlan())
	store.Flush()

	// Assert
	assert.Equal(t, int64(1), store.Failures())
	assert.True(t, logger.HasLevel(common.LevelError))
}

func TestProgressStore_FileFormat(t *testing.T) {
	// Arrange
	store, _ := newStore(t, t.TempDir(), "")
	steps := samplePlan()
	require.NoError(t, steps.MarkQueued(0, queuedTime))

	// Act
	require.NoError(t, store.Save(context.Background(), game.BuildingQueue, steps))

	// Assert
	data, err := os.ReadFile(store.Path(game.BuildingQueue))
	require.NoError(t, err)
	g := goldie.New(t, goldie.WithFixtureDir("testdata/golden"), goldie.WithNameSuffix(".golden"))
	g.Assert(t, "built_order", data)
}

package persistence_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/pr0game-go/internal/adapters/persistence"
	"github.com/andrescamacho/pr0game-go/internal/application/common"
	"github.com/andrescamacho/pr0game-go/internal/domain/game"
	"github.com/andrescamacho/pr0game-go/internal/domain/shared"
	"github.com/andrescamacho/pr0game-go/test/helpers"
)

func TestQueueEventRepository_RecordAndListRecent(t *testing.T) {
	// Arrange
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormQueueEventRepository(db)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	events := []*common.QueueEvent{
		{RunID: "r1", Player: "alice", Queue: "buildings", Type: common.EventSubmitted, Name: "Metallmine", Level: 1, Timestamp: base},
		{RunID: "r1", Player: "alice", Queue: "buildings", Type: common.EventWaiting, Name: "Metallmine", Level: 2, WaitSeconds: 300, Timestamp: base.Add(time.Minute)},
		{RunID: "r2", Player: "bob", Queue: "research", Type: common.EventSubmitted, Name: "Computertechnik", Level: 1, Timestamp: base.Add(2 * time.Minute)},
	}

	// Act
	for _, e := range events {
		require.NoError(t, repo.Record(ctx, e))
	}
	recent, err := repo.ListRecent(ctx, "alice", 10)

	// Assert
	require.NoError(t, err)
	assert.NotZero(t, events[0].ID)
	require.Len(t, recent, 2)
	assert.Equal(t, common.EventWaiting, recent[0].Type)
	assert.Equal(t, 300, recent[0].WaitSeconds)
	assert.Equal(t, "Metallmine", recent[1].Name)
}

func TestQueueEventRepository_ListRecentHonoursLimitAcrossPlayers(t *testing.T) {
	// Arrange
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormQueueEventRepository(db)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i, player := range []string{"alice", "bob", "carol"} {
		require.NoError(t, repo.Record(ctx, &common.QueueEvent{RunID: "r", Player: player, Type: common.EventSubmitted, Timestamp: base.Add(time.Duration(i) * time.Minute)}))
	}

	// Act
	recent, err := repo.ListRecent(ctx, "", 2)

	// Assert
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "carol", recent[0].Player)
	assert.Equal(t, "bob", recent[1].Player)
}

func TestNotificationLogRepository_DeduplicatesWithinWindow(t *testing.T) {
	// Arrange
	db := helpers.NewTestDB(t)
	clock := shared.NewMockClock(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	repo := persistence.NewGormNotificationLogRepository(db, clock)
	ctx := context.Background()

	// Act
	require.NoError(t, repo.Log(ctx, "alice", common.LevelInfo, "⏳ Waiting", true, nil))
	clock.Advance(30 * time.Second)
	require.NoError(t, repo.Log(ctx, "alice", common.LevelInfo, "⏳ Waiting", true, nil))
	clock.Advance(31 * time.Second)
	require.NoError(t, repo.Log(ctx, "alice", common.LevelInfo, "⏳ Waiting", true, map[string]interface{}{"wait_seconds": 60}))

	// Assert
	entries, err := repo.GetLogs(ctx, "alice", 10, nil, nil)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, float64(60), entries[0].Metadata["wait_seconds"])
	assert.Nil(t, entries[1].Metadata)
}

func TestNotificationLogRepository_FiltersByLevel(t *testing.T) {
	// Arrange
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormNotificationLogRepository(db, shared.NewMockClock(time.Time{}))
	ctx := context.Background()
	require.NoError(t, repo.Log(ctx, "alice", common.LevelInfo, "queued", true, nil))
	require.NoError(t, repo.Log(ctx, "alice", common.LevelError, "plan exhausted", false, nil))

	// Act
	level := common.LevelError
	entries, err := repo.GetLogs(ctx, "alice", 10, &level, nil)

	// Assert
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "plan exhausted", entries[0].Message)
	assert.False(t, entries[0].Delivered)
}

func TestStatisticsRepository_SnapshotHistory(t *testing.T) {
	// Arrange
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormStatisticsRepository(db)
	ctx := context.Background()
	first := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	// Act
	require.NoError(t, repo.SaveSnapshot(ctx, []game.PlayerStatistics{
		{Name: "alice", Rank: 12, Points: 1500, Category: game.StatisticsTotal, ServerDate: "01.03.2026", CheckedAt: first},
		{Name: "bob", Rank: 3, Points: 9000, Category: game.StatisticsTotal, ServerDate: "01.03.2026", CheckedAt: first},
	}))
	require.NoError(t, repo.SaveSnapshot(ctx, []game.PlayerStatistics{
		{Name: "alice", Rank: 10, Points: 1800, Category: game.StatisticsTotal, ServerDate: "02.03.2026", CheckedAt: first.Add(24 * time.Hour)},
	}))
	history, err := repo.History(ctx, "alice", game.StatisticsTotal, 0)

	// Assert
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, 1800, history[0].Points)
	assert.Equal(t, 10, history[0].Rank)
	assert.Equal(t, game.StatisticsTotal, history[1].Category)
}

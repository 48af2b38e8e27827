package stats

import (
	"context"
	"fmt"

	"github.com/andrescamacho/pr0game-go/internal/application/common"
	"github.com/andrescamacho/pr0game-go/internal/domain/game"
)

// Collector reads the public ranking and keeps a snapshot of it
type Collector struct {
	reader common.StatisticsReader
	repo   common.StatisticsRepository
	logger common.Logger
}

// NewCollector creates a collector that logs to the logger carried by ctx.
// repo may be nil to skip snapshots.
func NewCollector(ctx context.Context, reader common.StatisticsReader, repo common.StatisticsRepository) *Collector {
	return &Collector{reader: reader, repo: repo, logger: common.LoggerFromContext(ctx)}
}

// Collect reads one ranking category and stores it. A failed snapshot is
// logged; the ranking is still returned.
func (c *Collector) Collect(ctx context.Context, category game.StatisticsCategory) ([]game.PlayerStatistics, error) {
	rows, err := c.reader.PlayerStatistics(ctx, category)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s statistics: %w", category, err)
	}
	c.logger.Log(common.LevelVerbose, fmt.Sprintf("read %d %s statistics rows", len(rows), category), nil)

	if c.repo != nil {
		if err := c.repo.SaveSnapshot(ctx, rows); err != nil {
			c.logger.Log(common.LevelWarn, fmt.Sprintf("failed to store statistics snapshot: %v", err), map[string]interface{}{
				"category": category.String(),
			})
		}
	}
	return rows, nil
}

// Find returns the row of the named player
func Find(rows []game.PlayerStatistics, name string) (game.PlayerStatistics, bool) {
	for _, row := range rows {
		if row.Name == name {
			return row, true
		}
	}
	return game.PlayerStatistics{}, false
}

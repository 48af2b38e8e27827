package persistence

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/andrescamacho/pr0game-go/internal/domain/game"
)

// GormStatisticsRepository stores statistics snapshots
type GormStatisticsRepository struct {
	db *gorm.DB
}

func NewGormStatisticsRepository(db *gorm.DB) *GormStatisticsRepository {
	return &GormStatisticsRepository{db: db}
}

// SaveSnapshot inserts one row per player in a single transaction
func (r *GormStatisticsRepository) SaveSnapshot(ctx context.Context, stats []game.PlayerStatistics) error {
	if len(stats) == 0 {
		return nil
	}
	models := make([]PlayerStatisticsModel, len(stats))
	for i, s := range stats {
		models[i] = PlayerStatisticsModel{
			Name:       s.Name,
			Category:   s.Category.String(),
			Rank:       s.Rank,
			Points:     s.Points,
			ServerDate: s.ServerDate,
			CheckedAt:  s.CheckedAt,
		}
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&models).Error; err != nil {
			return fmt.Errorf("failed to save statistics snapshot: %w", err)
		}
		return nil
	})
}

// History returns the snapshots of one player in a category, newest first
func (r *GormStatisticsRepository) History(ctx context.Context, name string, category game.StatisticsCategory, limit int) ([]game.PlayerStatistics, error) {
	var models []PlayerStatisticsModel
	query := r.db.WithContext(ctx).
		Where("name = ? AND category = ?", name, category.String()).
		Order("checked_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to load statistics history: %w", err)
	}

	out := make([]game.PlayerStatistics, len(models))
	for i, m := range models {
		category, err := game.ParseStatisticsCategory(m.Category)
		if err != nil {
			return nil, err
		}
		out[i] = game.PlayerStatistics{
			Name:       m.Name,
			Rank:       m.Rank,
			Points:     m.Points,
			Category:   category,
			ServerDate: m.ServerDate,
			CheckedAt:  m.CheckedAt,
		}
	}
	return out, nil
}

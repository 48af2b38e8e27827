package persistence

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/andrescamacho/pr0game-go/internal/application/common"
)

// GormQueueEventRepository implements QueueEventRepository using GORM
type GormQueueEventRepository struct {
	db *gorm.DB
}

// NewGormQueueEventRepository creates a new GORM queue event repository
func NewGormQueueEventRepository(db *gorm.DB) *GormQueueEventRepository {
	return &GormQueueEventRepository{db: db}
}

// Record inserts an event and sets its ID
func (r *GormQueueEventRepository) Record(ctx context.Context, event *common.QueueEvent) error {
	model := &QueueEventModel{
		RunID:       event.RunID,
		Player:      event.Player,
		Queue:       event.Queue,
		Type:        event.Type,
		StepOrder:   event.Order,
		Name:        event.Name,
		Level:       event.Level,
		WaitSeconds: event.WaitSeconds,
		Message:     event.Message,
		Timestamp:   event.Timestamp,
	}
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to record queue event: %w", err)
	}
	event.ID = model.ID
	return nil
}

// ListRecent returns the newest events first. An empty player lists all players.
func (r *GormQueueEventRepository) ListRecent(ctx context.Context, player string, limit int) ([]common.QueueEvent, error) {
	var models []QueueEventModel

	query := r.db.WithContext(ctx)
	if player != "" {
		query = query.Where("player = ?", player)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Order("timestamp DESC").Order("id DESC").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to list queue events: %w", err)
	}

	events := make([]common.QueueEvent, len(models))
	for i, model := range models {
		events[i] = common.QueueEvent{
			ID:          model.ID,
			RunID:       model.RunID,
			Player:      model.Player,
			Queue:       model.Queue,
			Type:        model.Type,
			Order:       model.StepOrder,
			Name:        model.Name,
			Level:       model.Level,
			WaitSeconds: model.WaitSeconds,
			Message:     model.Message,
			Timestamp:   model.Timestamp,
		}
	}
	return events, nil
}

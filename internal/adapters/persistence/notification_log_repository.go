package persistence

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/andrescamacho/pr0game-go/internal/domain/shared"
)

// NotificationLogEntry represents a persisted notification
type NotificationLogEntry struct {
	ID        int
	Player    string
	Timestamp time.Time
	Level     string
	Message   string
	Delivered bool
	Metadata  map[string]interface{}
}

// GormNotificationLogRepository stores notifications with time-windowed
// deduplication
type GormNotificationLogRepository struct {
	db    *gorm.DB
	clock shared.Clock

	dedupCache   map[string]time.Time // key: player+level+message, value: last logged time
	dedupMu      sync.Mutex
	dedupWindow  time.Duration
	dedupMaxSize int
}

// NewGormNotificationLogRepository creates a new notification log repository
// If clock is nil, uses RealClock (production behavior)
func NewGormNotificationLogRepository(db *gorm.DB, clock shared.Clock) *GormNotificationLogRepository {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &GormNotificationLogRepository{
		db:           db,
		clock:        clock,
		dedupCache:   make(map[string]time.Time),
		dedupWindow:  60 * time.Second,
		dedupMaxSize: 10000,
	}
}

// Log writes a notification unless the same one was logged within the window
func (r *GormNotificationLogRepository) Log(ctx context.Context, player, level, message string, delivered bool, metadata map[string]interface{}) error {
	now := r.clock.Now()
	cacheKey := player + "|" + level + "|" + message

	r.dedupMu.Lock()
	if lastLogged, exists := r.dedupCache[cacheKey]; exists {
		if now.Sub(lastLogged) < r.dedupWindow {
			r.dedupMu.Unlock()
			return nil
		}
	}
	if len(r.dedupCache) >= r.dedupMaxSize {
		r.cleanupDedupCache()
	}
	r.dedupCache[cacheKey] = now
	r.dedupMu.Unlock()

	var metadataJSON string
	if len(metadata) > 0 {
		if jsonBytes, err := json.Marshal(metadata); err == nil {
			metadataJSON = string(jsonBytes)
		}
	}

	return r.db.WithContext(ctx).Create(&NotificationLogModel{
		Player:    player,
		Timestamp: now,
		Level:     level,
		Message:   message,
		Delivered: delivered,
		Metadata:  metadataJSON,
	}).Error
}

// cleanupDedupCache removes entries older than the window
// Must be called while holding dedupMu lock
func (r *GormNotificationLogRepository) cleanupDedupCache() {
	cutoff := r.clock.Now().Add(-r.dedupWindow)
	for key, timestamp := range r.dedupCache {
		if timestamp.Before(cutoff) {
			delete(r.dedupCache, key)
		}
	}
}

// GetLogs retrieves notifications for a player, newest first, with optional filtering
func (r *GormNotificationLogRepository) GetLogs(ctx context.Context, player string, limit int, level *string, since *time.Time) ([]NotificationLogEntry, error) {
	var models []NotificationLogModel

	query := r.db.WithContext(ctx).Where("player = ?", player)
	if level != nil {
		query = query.Where("level = ?", *level)
	}
	if since != nil {
		query = query.Where("timestamp > ?", *since)
	}
	query = query.Order("timestamp DESC").Limit(limit)

	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}

	entries := make([]NotificationLogEntry, len(models))
	for i, model := range models {
		var metadata map[string]interface{}
		if model.Metadata != "" {
			if err := json.Unmarshal([]byte(model.Metadata), &metadata); err != nil {
				metadata = nil
			}
		}
		entries[i] = NotificationLogEntry{
			ID:        model.ID,
			Player:    model.Player,
			Timestamp: model.Timestamp,
			Level:     model.Level,
			Message:   model.Message,
			Delivered: model.Delivered,
			Metadata:  metadata,
		}
	}
	return entries, nil
}

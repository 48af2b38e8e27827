package persistence

import (
	"time"
)

// QueueEventModel represents the queue_events table
type QueueEventModel struct {
	ID          int       `gorm:"column:id;primaryKey;autoIncrement"`
	RunID       string    `gorm:"column:run_id;index;not null"`
	Player      string    `gorm:"column:player;index;not null"`
	Queue       string    `gorm:"column:queue"`
	Type        string    `gorm:"column:type;not null"`
	StepOrder   int       `gorm:"column:step_order"`
	Name        string    `gorm:"column:name"`
	Level       int       `gorm:"column:level"`
	WaitSeconds int       `gorm:"column:wait_seconds;default:0"`
	Message     string    `gorm:"column:message;type:text"`
	Timestamp   time.Time `gorm:"column:timestamp;not null"`
}

func (QueueEventModel) TableName() string {
	return "queue_events"
}

// NotificationLogModel represents the notification_logs table
type NotificationLogModel struct {
	ID        int       `gorm:"column:id;primaryKey;autoIncrement"`
	Player    string    `gorm:"column:player;index;not null"`
	Timestamp time.Time `gorm:"column:timestamp;not null"`
	Level     string    `gorm:"column:level;not null;default:'info'"`
	Message   string    `gorm:"column:message;type:text;not null"`
	Delivered bool      `gorm:"column:delivered;not null;default:false"`
	Metadata  string    `gorm:"column:metadata;type:text"` // JSON as text
}

func (NotificationLogModel) TableName() string {
	return "notification_logs"
}

// PlayerStatisticsModel represents the player_statistics table
type PlayerStatisticsModel struct {
	ID         int       `gorm:"column:id;primaryKey;autoIncrement"`
	Name       string    `gorm:"column:name;index;not null"`
	Category   string    `gorm:"column:category;not null"`
	Rank       int       `gorm:"column:rank"`
	Points     int       `gorm:"column:points"`
	ServerDate string    `gorm:"column:server_date"`
	CheckedAt  time.Time `gorm:"column:checked_at;not null"`
}

func (PlayerStatisticsModel) TableName() string {
	return "player_statistics"
}

// AllModels lists every table for migrations
func AllModels() []interface{} {
	return []interface{}{
		&QueueEventModel{},
		&NotificationLogModel{},
		&PlayerStatisticsModel{},
	}
}

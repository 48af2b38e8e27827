package common

import (
	"context"
	"time"

	"github.com/andrescamacho/pr0game-go/internal/domain/game"
	"github.com/andrescamacho/pr0game-go/internal/domain/plan"
)

// LiveSystem is the running game the scheduler drives. Every call is bounded
// by the implementation's action timeout.
type LiveSystem interface {
	ResourceSnapshot(ctx context.Context) (game.Resources, error)
	HourlyProduction(ctx context.Context) (game.Production, error)
	BuildingLevels(ctx context.Context) (game.BuildingLevels, error)
	IsQueueActive(ctx context.Context, queue game.QueueKind) (bool, error)
	ActiveQueueRemaining(ctx context.Context, queue game.QueueKind) (time.Duration, error)
	QueuedItems(ctx context.Context, queue game.QueueKind) ([]game.QueueEntry, error)
	ResearchLabBusy(ctx context.Context) (bool, error)
	SubmitConstruction(ctx context.Context, queue game.QueueKind, name string) error
	Browse(ctx context.Context, page game.Page) error
}

// StatisticsReader reads the public player ranking
type StatisticsReader interface {
	PlayerStatistics(ctx context.Context, category game.StatisticsCategory) ([]game.PlayerStatistics, error)
}

// Notifier delivers categorized status messages to the operator
type Notifier interface {
	Notify(ctx context.Context, level, message string) error
}

// ProgressRepository persists which plan steps have been queued
type ProgressRepository interface {
	// Load returns the static plan merged with persisted progress, writing the
	// static plan first when nothing has been persisted yet
	Load(ctx context.Context, queue game.QueueKind, static plan.Plan) (plan.Plan, error)
	// Save writes progress and returns once it is durable
	Save(ctx context.Context, queue game.QueueKind, steps plan.Plan) error
	// SaveAsync hands progress to the background writer and returns immediately
	SaveAsync(queue game.QueueKind, steps plan.Plan)
}

// Queue event types
const (
	EventSubmitted = "submitted"
	EventWaiting   = "waiting"
	EventQueueBusy = "queue_busy"
	EventFatal     = "fatal"
)

// QueueEvent is one scheduler decision recorded for history
type QueueEvent struct {
	ID          int
	RunID       string
	Player      string
	Queue       string
	Type        string
	Order       int
	Name        string
	Level       int
	WaitSeconds int
	Message     string
	Timestamp   time.Time
}

// QueueEventRepository stores the queue history
type QueueEventRepository interface {
	Record(ctx context.Context, event *QueueEvent) error
	ListRecent(ctx context.Context, player string, limit int) ([]QueueEvent, error)
}

// StatisticsRepository stores statistics snapshots
type StatisticsRepository interface {
	SaveSnapshot(ctx context.Context, stats []game.PlayerStatistics) error
}

// DecisionJournal receives one record per scheduler decision
type DecisionJournal interface {
	Write(v any) error
}

// SchedulerMetrics records scheduler activity
type SchedulerMetrics interface {
	RecordSubmission(queue, name string, level int)
	RecordWait(queue, reason string, wait time.Duration)
	RecordFatal(reason string)
	SetProgress(queue string, queued, total int)
}

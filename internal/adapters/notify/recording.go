package notify

import (
	"context"
	"errors"
	"fmt"

	"github.com/andrescamacho/pr0game-go/internal/application/common"
)

// NotificationLog persists delivered and failed notifications
type NotificationLog interface {
	Log(ctx context.Context, player, level, message string, delivered bool, metadata map[string]interface{}) error
}

// Recording decorates a notifier and records every message with its
// delivery outcome
type Recording struct {
	next   common.Notifier
	log    NotificationLog
	player string
}

// NewRecording wraps next so that each notification is written to log
func NewRecording(next common.Notifier, log NotificationLog, player string) *Recording {
	return &Recording{next: next, log: log, player: player}
}

// Notify implements common.Notifier
func (r *Recording) Notify(ctx context.Context, level, message string) error {
	err := r.next.Notify(ctx, level, message)

	var metadata map[string]interface{}
	if err != nil {
		metadata = map[string]interface{}{"error": err.Error()}
	}
	if logErr := r.log.Log(ctx, r.player, level, message, err == nil, metadata); logErr != nil {
		return errors.Join(err, fmt.Errorf("failed to record notification: %w", logErr))
	}
	return err
}

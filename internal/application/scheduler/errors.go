package scheduler

import (
	"fmt"
	"strings"

	"github.com/andrescamacho/pr0game-go/internal/domain/game"
	"github.com/andrescamacho/pr0game-go/internal/domain/shared"
)

// QueueDesyncError is returned when the live queue does not hold exactly the
// item just submitted. Another actor is using the queue.
type QueueDesyncError struct {
	*shared.DomainError
	Queue   game.QueueKind
	Entries []game.QueueEntry
}

func NewQueueDesyncError(queue game.QueueKind, expected string, entries []game.QueueEntry) *QueueDesyncError {
	labels := make([]string, len(entries))
	for i, entry := range entries {
		labels[i] = fmt.Sprintf("%d.: %s %d", entry.Position, entry.Name, entry.Level)
	}
	return &QueueDesyncError{
		DomainError: shared.NewDomainError(fmt.Sprintf(
			"%s queue out of sync: expected only %q at position 1, found [%s]",
			queue, expected, strings.Join(labels, ", "),
		)),
		Queue:   queue,
		Entries: entries,
	}
}

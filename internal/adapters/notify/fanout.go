package notify

import (
	"context"
	"errors"

	"github.com/andrescamacho/pr0game-go/internal/application/common"
)

// Fanout delivers every message to all sinks. A failing sink does not stop
// the others.
type Fanout struct {
	sinks []common.Notifier
}

// NewFanout creates a fan-out over the given sinks; nil sinks are skipped
func NewFanout(sinks ...common.Notifier) *Fanout {
	f := &Fanout{}
	for _, sink := range sinks {
		if sink != nil {
			f.sinks = append(f.sinks, sink)
		}
	}
	return f
}

// Notify implements common.Notifier
func (f *Fanout) Notify(ctx context.Context, level, message string) error {
	var errs []error
	for _, sink := range f.sinks {
		if err := sink.Notify(ctx, level, message); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Len returns the number of sinks
func (f *Fanout) Len() int {
	return len(f.sinks)
}

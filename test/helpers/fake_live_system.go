package helpers

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/andrescamacho/pr0game-go/internal/domain/game"
	"github.com/andrescamacho/pr0game-go/internal/domain/plan"
	"github.com/andrescamacho/pr0game-go/internal/domain/shared"
)

// queuedItem is an item under construction on the fake planet
type queuedItem struct {
	entry    game.QueueEntry
	finishAt time.Time
}

// FakeLiveSystem simulates a planet: resources accrue with the clock,
// submissions pay their cost and complete after BuildDuration.
type FakeLiveSystem struct {
	mu sync.Mutex

	Clock         *shared.MockClock
	Levels        game.BuildingLevels
	Research      map[string]int
	Resources     game.Resources
	Production    game.Production
	BuildDuration time.Duration

	// ExtraQueued is appended to a queue right after every submission
	ExtraQueued *game.QueueEntry
	// SubmitErr and ReadErr fail the matching calls when set
	SubmitErr error
	ReadErr   error

	queues      map[game.QueueKind][]queuedItem
	lastAccrual time.Time

	Calls     map[string]int
	Submitted []string
	Browsed   []game.Page
}

// NewFakeLiveSystem creates a fake planet driven by the given clock
func NewFakeLiveSystem(clock *shared.MockClock) *FakeLiveSystem {
	return &FakeLiveSystem{
		Clock:         clock,
		Research:      make(map[string]int),
		BuildDuration: 10 * time.Minute,
		queues:        make(map[game.QueueKind][]queuedItem),
		lastAccrual:   clock.Now(),
		Calls:         make(map[string]int),
	}
}

// StartConstruction puts an item in a queue as if queued before the run started
func (f *FakeLiveSystem) StartConstruction(queue game.QueueKind, name string, level int, remaining time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queues[queue] = append(f.queues[queue], queuedItem{
		entry:    game.QueueEntry{Position: len(f.queues[queue]) + 1, Name: name, Level: level},
		finishAt: f.Clock.Now().Add(remaining),
	})
}

// advance accrues production and completes finished items. Caller holds mu.
func (f *FakeLiveSystem) advance() {
	now := f.Clock.Now()
	hours := now.Sub(f.lastAccrual).Hours()
	if hours > 0 {
		f.Resources.Met += int(f.Production.Met * hours)
		f.Resources.Kris += int(f.Production.Kris * hours)
		f.Resources.Deut += int(f.Production.Deut * hours)
		f.lastAccrual = now
	}

	for queue, items := range f.queues {
		var remaining []queuedItem
		for _, item := range items {
			if !now.Before(item.finishAt) {
				f.complete(queue, item.entry)
				continue
			}
			remaining = append(remaining, item)
		}
		for i := range remaining {
			remaining[i].entry.Position = i + 1
		}
		f.queues[queue] = remaining
	}
}

func (f *FakeLiveSystem) complete(queue game.QueueKind, entry game.QueueEntry) {
	if queue == game.ResearchQueue {
		f.Research[entry.Name] = entry.Level
		return
	}
	if kind, ok := game.ParseBuildingKind(entry.Name); ok {
		f.Levels.Set(kind, entry.Level)
	}
}

func (f *FakeLiveSystem) enter(call string) error {
	f.mu.Lock()
	f.Calls[call]++
	f.advance()
	return f.ReadErr
}

func (f *FakeLiveSystem) ResourceSnapshot(ctx context.Context) (game.Resources, error) {
	err := f.enter("ResourceSnapshot")
	defer f.mu.Unlock()
	return f.Resources, err
}

func (f *FakeLiveSystem) HourlyProduction(ctx context.Context) (game.Production, error) {
	err := f.enter("HourlyProduction")
	defer f.mu.Unlock()
	return f.Production, err
}

func (f *FakeLiveSystem) BuildingLevels(ctx context.Context) (game.BuildingLevels, error) {
	err := f.enter("BuildingLevels")
	defer f.mu.Unlock()
	return f.Levels, err
}

func (f *FakeLiveSystem) IsQueueActive(ctx context.Context, queue game.QueueKind) (bool, error) {
	err := f.enter("IsQueueActive")
	defer f.mu.Unlock()
	return len(f.queues[queue]) > 0, err
}

func (f *FakeLiveSystem) ActiveQueueRemaining(ctx context.Context, queue game.QueueKind) (time.Duration, error) {
	err := f.enter("ActiveQueueRemaining")
	defer f.mu.Unlock()
	items := f.queues[queue]
	if len(items) == 0 {
		return 0, err
	}
	return items[0].finishAt.Sub(f.Clock.Now()), err
}

func (f *FakeLiveSystem) QueuedItems(ctx context.Context, queue game.QueueKind) ([]game.QueueEntry, error) {
	err := f.enter("QueuedItems")
	defer f.mu.Unlock()
	entries := make([]game.QueueEntry, len(f.queues[queue]))
	for i, item := range f.queues[queue] {
		entries[i] = item.entry
	}
	return entries, err
}

func (f *FakeLiveSystem) ResearchLabBusy(ctx context.Context) (bool, error) {
	err := f.enter("ResearchLabBusy")
	defer f.mu.Unlock()
	for _, item := range f.queues[game.BuildingQueue] {
		if item.entry.Name == game.Forschungslabor.String() {
			return true, err
		}
	}
	return false, err
}

func (f *FakeLiveSystem) SubmitConstruction(ctx context.Context, queue game.QueueKind, name string) error {
	if err := f.enter("SubmitConstruction"); err != nil {
		f.mu.Unlock()
		return err
	}
	defer f.mu.Unlock()
	if f.SubmitErr != nil {
		return f.SubmitErr
	}

	var level int
	var cost plan.Cost
	if queue == game.ResearchQueue {
		kind, ok := game.ParseResearchKind(name)
		if !ok {
			return fmt.Errorf("no research named %q", name)
		}
		level = f.Research[name] + 1
		cost = plan.ResearchCost(kind, level)
	} else {
		kind, ok := game.ParseBuildingKind(name)
		if !ok {
			return fmt.Errorf("no building named %q", name)
		}
		level = f.Levels.Get(kind) + 1
		cost = plan.BuildingCost(kind, level)
	}
	if cost.Met > f.Resources.Met || cost.Kris > f.Resources.Kris || cost.Deut > f.Resources.Deut {
		return fmt.Errorf("not enough resources for %s %d", name, level)
	}
	f.Resources.Met -= cost.Met
	f.Resources.Kris -= cost.Kris
	f.Resources.Deut -= cost.Deut
	f.Resources.Energy -= cost.Energy
	f.Resources.Energy += cost.EnergyProduction

	f.queues[queue] = append(f.queues[queue], queuedItem{
		entry:    game.QueueEntry{Position: len(f.queues[queue]) + 1, Name: name, Level: level},
		finishAt: f.Clock.Now().Add(f.BuildDuration),
	})
	if f.ExtraQueued != nil {
		extra := *f.ExtraQueued
		extra.Position = len(f.queues[queue]) + 1
		f.queues[queue] = append(f.queues[queue], queuedItem{entry: extra, finishAt: f.Clock.Now().Add(2 * f.BuildDuration)})
	}
	f.Submitted = append(f.Submitted, fmt.Sprintf("%s %d", name, level))
	return nil
}

func (f *FakeLiveSystem) Browse(ctx context.Context, page game.Page) error {
	err := f.enter("Browse")
	defer f.mu.Unlock()
	f.Browsed = append(f.Browsed, page)
	return err
}

// CallCount returns how often a method was called
func (f *FakeLiveSystem) CallCount(call string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Calls[call]
}

// SubmittedSteps returns the labels of every submission in order
func (f *FakeLiveSystem) SubmittedSteps() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.Submitted))
	copy(out, f.Submitted)
	return out
}

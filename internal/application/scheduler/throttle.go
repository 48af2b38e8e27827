package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/andrescamacho/pr0game-go/internal/application/common"
	"github.com/andrescamacho/pr0game-go/internal/domain/game"
	"github.com/andrescamacho/pr0game-go/internal/domain/scheduling"
	"github.com/andrescamacho/pr0game-go/internal/domain/shared"
)

const (
	fallbackDelayMin  = 1001 * time.Millisecond
	fallbackDelaySpan = 4000 * time.Millisecond
)

// interactions maps a die roll to a cosmetic navigation. Rolls without an
// entry do nothing.
var interactions = map[int]struct {
	page  game.Page
	label string
}{
	1: {game.PageCurrent, "Refreshing current page."},
	2: {game.PageEmpire, "Navigating to Imperium view."},
	3: {game.PageResearch, "Navigating to research view."},
	4: {game.PageOverview, "Navigating to overview."},
	5: {game.PageTechtree, "Navigating to tech tree."},
	6: {game.PageGalaxy, "Navigating to galaxy."},
	7: {game.PageBuildings, "Navigating to building overview."},
}

const interactionRolls = 8

// Throttler injects randomized pauses and page visits between actions so the
// session does not follow a fixed rhythm
type Throttler struct {
	live    common.LiveSystem
	clock   shared.Clock
	random  scheduling.Random
	logger  common.Logger
	min     time.Duration
	max     time.Duration
	enabled bool
}

// NewThrottler creates a throttler pausing between min and max. When enabled
// is false Interact only pauses.
func NewThrottler(live common.LiveSystem, clock shared.Clock, random scheduling.Random, logger common.Logger, min, max time.Duration, enabled bool) *Throttler {
	return &Throttler{
		live:    live,
		clock:   clock,
		random:  random,
		logger:  logger,
		min:     min,
		max:     max,
		enabled: enabled,
	}
}

// Delay draws a uniform pause in [min, max] with millisecond resolution
func (t *Throttler) Delay() time.Duration {
	if t.max <= t.min {
		return fallbackDelayMin + time.Duration(t.random.Intn(int(fallbackDelaySpan/time.Millisecond)))*time.Millisecond
	}
	span := int((t.max-t.min)/time.Millisecond) + 1
	return t.min + time.Duration(t.random.Intn(span))*time.Millisecond
}

// Pause sleeps for one random delay
func (t *Throttler) Pause(ctx context.Context) error {
	delay := t.Delay()
	t.logger.Log(common.LevelDebug, fmt.Sprintf("waiting for %dms", delay.Milliseconds()), nil)
	return t.clock.Sleep(ctx, delay)
}

// Interact pauses, performs at most one random navigation, and pauses again
func (t *Throttler) Interact(ctx context.Context) error {
	if !t.enabled {
		return nil
	}
	t.logger.Log(common.LevelVerbose, "Simulating erratic player interaction.", nil)
	if err := t.Pause(ctx); err != nil {
		return err
	}

	if interaction, ok := interactions[t.random.Intn(interactionRolls)]; ok {
		t.logger.Log(common.LevelVerbose, interaction.label, nil)
		if err := t.live.Browse(ctx, interaction.page); err != nil {
			return fmt.Errorf("player interaction: %w", err)
		}
	} else {
		t.logger.Log(common.LevelVerbose, "Do nothing.", nil)
	}

	return t.Pause(ctx)
}

package scheduler

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/andrescamacho/pr0game-go/internal/application/common"
	"github.com/andrescamacho/pr0game-go/internal/domain/game"
	"github.com/andrescamacho/pr0game-go/internal/domain/plan"
	"github.com/andrescamacho/pr0game-go/internal/domain/scheduling"
)

// waitForActiveQueue sleeps until the running item of a queue completes
func (s *Scheduler) waitForActiveQueue(ctx context.Context, queue game.QueueKind) error {
	remaining, err := s.live.ActiveQueueRemaining(ctx, queue)
	if err != nil {
		return fmt.Errorf("read %s queue remaining time: %w", queue, err)
	}
	entries, err := s.live.QueuedItems(ctx, queue)
	if err != nil {
		return fmt.Errorf("read %s queue: %w", queue, err)
	}

	running := "unknown item"
	event := &common.QueueEvent{Queue: queue.String(), Type: common.EventQueueBusy}
	if len(entries) > 0 {
		running = fmt.Sprintf("%s %d", entries[0].Name, entries[0].Level)
		event.Name = entries[0].Name
		event.Level = entries[0].Level
	}

	wait := remaining + s.throttler.Delay()
	event.WaitSeconds = int(wait.Seconds())
	event.Message = fmt.Sprintf("⏳ Active queue for %s found. Waiting %s.", running, formatWait(remaining))

	s.report(ctx, common.LevelInfo, event.Message, map[string]interface{}{
		"queue":             queue.String(),
		"remaining_seconds": int(remaining.Seconds()),
	})
	s.record(ctx, event)
	s.journalize(nil, "queue_busy", queue.String(), event.Name, event.Level, wait, running)
	s.metrics.RecordWait(queue.String(), "active_queue", wait)

	return s.clock.Sleep(ctx, wait)
}

// waitForResources sleeps until the bottleneck resource covers the step
func (s *Scheduler) waitForResources(ctx context.Context, state *runState, queue game.QueueKind, step plan.Step, decision scheduling.Decision) error {
	production, err := s.live.HourlyProduction(ctx)
	if err != nil {
		return fmt.Errorf("read hourly production: %w", err)
	}

	estimate := s.estimator.Estimate(step.Cost, state.resources, production)
	message := fmt.Sprintf("⏳ Waiting for %s. %s requires %s",
		formatWait(estimate.Wait), step.Label(), describeMissing(decision.Missing))
	metadata := map[string]interface{}{
		"queue":        queue.String(),
		"computed":     estimate.Computed,
		"wait_seconds": int(estimate.Wait.Seconds()),
	}
	if estimate.Computed {
		metadata["bottleneck"] = estimate.Times.Bottleneck()
	}

	s.report(ctx, common.LevelInfo, message, metadata)
	s.record(ctx, &common.QueueEvent{
		Queue:       queue.String(),
		Type:        common.EventWaiting,
		Order:       step.Order,
		Name:        step.Name,
		Level:       step.Level,
		WaitSeconds: int(estimate.Wait.Seconds()),
		Message:     message,
	})
	s.journalize(state, "wait_resources", queue.String(), step.Name, step.Level, estimate.Wait, describeMissing(decision.Missing))

	reason := "resources"
	if !estimate.Computed {
		reason = "resources_fallback"
	}
	s.metrics.RecordWait(queue.String(), reason, estimate.Wait)

	return s.clock.Sleep(ctx, estimate.Wait)
}

// submit queues a step live, verifies the queue holds only that step, and
// records progress
func (s *Scheduler) submit(ctx context.Context, state *runState, queue game.QueueKind, steps plan.Plan, index int, step plan.Step) error {
	if queue == game.BuildingQueue {
		s.report(ctx, common.LevelBuildingLevels, state.levels.String(), nil)
		s.report(ctx, common.LevelCurrentResources, state.resources.String(), nil)
	}

	if err := s.live.SubmitConstruction(ctx, queue, step.Name); err != nil {
		return fmt.Errorf("submit %s: %w", step.Label(), err)
	}

	entries, err := s.live.QueuedItems(ctx, queue)
	if err != nil {
		return fmt.Errorf("verify %s queue: %w", queue, err)
	}
	if len(entries) == 0 || entries[0].Name != step.Name || entries[0].Level != step.Level {
		return NewQueueDesyncError(queue, step.Label(), entries)
	}

	if err := steps.MarkQueued(index, s.clock.Now()); err != nil {
		return err
	}
	s.progress.SaveAsync(queue, steps.Clone())

	var message string
	if queue == game.ResearchQueue {
		message = fmt.Sprintf("🧬 Next research added to queue: %s Level %d", step.Name, step.Level)
	} else {
		message = fmt.Sprintf("🏗 Next building added to queue #%d: %s Level %d", state.iteration, step.Name, step.Level)
	}
	s.report(ctx, common.LevelInfo, message, map[string]interface{}{"queue": queue.String(), "order": step.Order})
	s.record(ctx, &common.QueueEvent{
		Queue:   queue.String(),
		Type:    common.EventSubmitted,
		Order:   step.Order,
		Name:    step.Name,
		Level:   step.Level,
		Message: message,
	})
	s.journalize(state, "submitted", queue.String(), step.Name, step.Level, 0, "")
	s.metrics.RecordSubmission(queue.String(), step.Name, step.Level)
	s.metrics.SetProgress(queue.String(), steps.QueuedCount(), len(steps))

	// the submitted item must be the only one: this process owns the queue
	if len(entries) > 1 {
		return NewQueueDesyncError(queue, step.Label(), entries)
	}
	return nil
}

// researchDetour runs one pass of the research plan for a checkpoint of the
// build plan. The checkpoint is marked queued once a research item is queued.
func (s *Scheduler) researchDetour(ctx context.Context, state *runState, checkpoint int, step plan.Step) error {
	s.logger.Log(common.LevelVerbose, fmt.Sprintf("Research checkpoint %s reached.", step.Label()), nil)

	busy, err := s.live.ResearchLabBusy(ctx)
	if err != nil {
		return fmt.Errorf("check research lab: %w", err)
	}
	if busy {
		entries, err := s.live.QueuedItems(ctx, game.BuildingQueue)
		if err != nil {
			return fmt.Errorf("read building queue: %w", err)
		}
		if len(entries) > 0 && entries[0].Name == game.Forschungslabor.String() {
			return s.waitForActiveQueue(ctx, game.BuildingQueue)
		}
		// the upgrade finished in the meantime; re-read the lab level after a pause
		s.logger.Log(common.LevelDebug, "Research lab upgrade finished meanwhile, restarting queue.", nil)
		return s.throttler.Pause(ctx)
	}

	active, err := s.live.IsQueueActive(ctx, game.ResearchQueue)
	if err != nil {
		return fmt.Errorf("check research queue: %w", err)
	}
	if active {
		return s.waitForActiveQueue(ctx, game.ResearchQueue)
	}

	index, research, err := state.research.Next()
	if err != nil {
		return err
	}
	state.track(game.ResearchQueue, research)
	if err := scheduling.ValidateResearchLab(research, state.levels.Forschungslabor); err != nil {
		return err
	}

	decision, err := s.gate.Check(research, state.resources)
	if err != nil {
		return err
	}
	if !decision.Ready {
		return s.waitForResources(ctx, state, game.ResearchQueue, research, decision)
	}

	if err := s.submit(ctx, state, game.ResearchQueue, state.research, index, research); err != nil {
		return err
	}

	if err := state.build.MarkQueued(checkpoint, s.clock.Now()); err != nil {
		return err
	}
	s.progress.SaveAsync(game.BuildingQueue, state.build.Clone())
	s.metrics.SetProgress(game.BuildingQueue.String(), state.build.QueuedCount(), len(state.build))
	return nil
}

// formatWait renders a duration as 1hr2min3s
func formatWait(d time.Duration) string {
	total := int(d.Round(time.Second).Seconds())
	hours := total / 3600
	minutes := (total % 3600) / 60
	seconds := total % 60
	if hours > 0 {
		return fmt.Sprintf("%dhr%dmin%ds", hours, minutes, seconds)
	}
	return fmt.Sprintf("%dmin%ds", minutes, seconds)
}

func describeMissing(missing game.Resources) string {
	var parts []string
	if missing.Met > 0 {
		parts = append(parts, fmt.Sprintf("%d more Met", missing.Met))
	}
	if missing.Kris > 0 {
		parts = append(parts, fmt.Sprintf("%d more Kris", missing.Kris))
	}
	if missing.Deut > 0 {
		parts = append(parts, fmt.Sprintf("%d more Deut", missing.Deut))
	}
	if len(parts) == 0 {
		return "nothing more"
	}
	return strings.Join(parts, " and ") + "."
}

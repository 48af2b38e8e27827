package scheduler

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/andrescamacho/pr0game-go/internal/application/common"
	"github.com/andrescamacho/pr0game-go/internal/domain/game"
	"github.com/andrescamacho/pr0game-go/internal/domain/plan"
	"github.com/andrescamacho/pr0game-go/internal/domain/scheduling"
	"github.com/andrescamacho/pr0game-go/internal/domain/shared"
)

// Config holds the tunables of a scheduler run
type Config struct {
	EnergyDeficitAllowed int
	WaitBuffer           time.Duration
	RecheckInterval      time.Duration
	RecheckVariance      time.Duration
	InteractionDelayMin  time.Duration
	InteractionDelayMax  time.Duration
	PlayerInteractions   bool

	// MaxIterations stops the run after that many decisions. Zero runs until a fatal error.
	MaxIterations int

	// BuildOrder and ResearchOrder replace the default plans when set
	BuildOrder    plan.Plan
	ResearchOrder plan.Plan
}

// Dependencies are the collaborators of a scheduler. Live and Progress are
// required; everything else falls back to a no-op or real implementation.
type Dependencies struct {
	Live     common.LiveSystem
	Progress common.ProgressRepository
	Notifier common.Notifier
	Logger   common.Logger
	Events   common.QueueEventRepository
	Journal  common.DecisionJournal
	Metrics  common.SchedulerMetrics
	Clock    shared.Clock
	Random   scheduling.Random
}

// Scheduler drives the building queue through the build plan, detouring into
// the research plan at checkpoints
type Scheduler struct {
	cfg       Config
	live      common.LiveSystem
	progress  common.ProgressRepository
	notifier  common.Notifier
	logger    common.Logger
	events    common.QueueEventRepository
	journal   common.DecisionJournal
	metrics   common.SchedulerMetrics
	clock     shared.Clock
	gate      *scheduling.ResourceGate
	estimator *scheduling.WaitEstimator
	throttler *Throttler

	runID  string
	player string
}

// runState is carried from one iteration to the next
type runState struct {
	iteration int
	build     plan.Plan
	research  plan.Plan
	levels    game.BuildingLevels
	resources game.Resources

	// queue and step are the item under evaluation in the current iteration
	queue game.QueueKind
	step  *plan.Step
}

func (r *runState) track(queue game.QueueKind, step plan.Step) {
	r.queue = queue
	r.step = &step
}

// current returns the step under evaluation, falling back to the next
// building step when the iteration failed before selecting one
func (r *runState) current() (game.QueueKind, plan.Step, bool) {
	if r.step != nil {
		return r.queue, *r.step, true
	}
	if _, step, err := r.build.Next(); err == nil {
		return game.BuildingQueue, step, true
	}
	return game.BuildingQueue, plan.Step{}, false
}

// NewScheduler wires a scheduler for one account. Without deps.Logger it logs
// to the logger carried by ctx.
func NewScheduler(ctx context.Context, cfg Config, deps Dependencies, runID, player string) *Scheduler {
	if deps.Clock == nil {
		deps.Clock = shared.NewRealClock()
	}
	if deps.Random == nil {
		deps.Random = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if deps.Logger == nil {
		deps.Logger = common.LoggerFromContext(ctx)
	}
	if deps.Notifier == nil {
		deps.Notifier = noopNotifier{}
	}
	if deps.Metrics == nil {
		deps.Metrics = noopMetrics{}
	}
	if cfg.BuildOrder == nil {
		cfg.BuildOrder = plan.DefaultBuildOrder()
	}
	if cfg.ResearchOrder == nil {
		cfg.ResearchOrder = plan.DefaultResearchOrder()
	}

	return &Scheduler{
		cfg:       cfg,
		live:      deps.Live,
		progress:  deps.Progress,
		notifier:  deps.Notifier,
		logger:    deps.Logger,
		events:    deps.Events,
		journal:   deps.Journal,
		metrics:   deps.Metrics,
		clock:     deps.Clock,
		gate:      scheduling.NewResourceGate(cfg.EnergyDeficitAllowed),
		estimator: scheduling.NewWaitEstimator(cfg.WaitBuffer, cfg.RecheckInterval, cfg.RecheckVariance, deps.Random),
		throttler: NewThrottler(deps.Live, deps.Clock, deps.Random, deps.Logger,
			cfg.InteractionDelayMin, cfg.InteractionDelayMax, cfg.PlayerInteractions),
		runID:  runID,
		player: player,
	}
}

// Run loops until a fatal error, context cancellation, or MaxIterations.
// Fatal errors are reported before being returned.
func (s *Scheduler) Run(ctx context.Context) error {
	state, err := s.load(ctx)
	if err != nil {
		return s.fail(ctx, nil, err)
	}

	s.logger.Log(common.LevelVerbose, fmt.Sprintf("Scheduler run %s started for %q", s.runID, s.player), map[string]interface{}{
		"build_queued":    state.build.QueuedCount(),
		"build_total":     len(state.build),
		"research_queued": state.research.QueuedCount(),
		"research_total":  len(state.research),
	})

	for s.cfg.MaxIterations == 0 || state.iteration < s.cfg.MaxIterations {
		if err := s.iterate(ctx, state); err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			return s.fail(ctx, state, err)
		}
		state.iteration++
	}
	return nil
}

func (s *Scheduler) load(ctx context.Context) (*runState, error) {
	build, err := s.progress.Load(ctx, game.BuildingQueue, s.cfg.BuildOrder)
	if err != nil {
		return nil, fmt.Errorf("load build progress: %w", err)
	}
	research, err := s.progress.Load(ctx, game.ResearchQueue, s.cfg.ResearchOrder)
	if err != nil {
		return nil, fmt.Errorf("load research progress: %w", err)
	}

	s.metrics.SetProgress(game.BuildingQueue.String(), build.QueuedCount(), len(build))
	s.metrics.SetProgress(game.ResearchQueue.String(), research.QueuedCount(), len(research))
	return &runState{build: build, research: research}, nil
}

// iterate performs one decision: read, select, then detour, wait, or submit
func (s *Scheduler) iterate(ctx context.Context, state *runState) error {
	state.step = nil
	s.logger.Log(common.LevelVerbose, fmt.Sprintf("Building queue #%d initialized. Extracting current build levels and resources.", state.iteration), nil)

	levels, err := s.live.BuildingLevels(ctx)
	if err != nil {
		return fmt.Errorf("read building levels: %w", err)
	}
	resources, err := s.live.ResourceSnapshot(ctx)
	if err != nil {
		return fmt.Errorf("read resources: %w", err)
	}
	state.levels = levels
	state.resources = resources

	if err := s.throttler.Interact(ctx); err != nil {
		return err
	}

	index, step, err := state.build.Next()
	if err != nil {
		return err
	}
	state.track(game.BuildingQueue, step)

	if step.IsResearchCheckpoint() {
		return s.researchDetour(ctx, state, index, step)
	}

	// a restart mid-build leaves the previous item running; levels are only
	// meaningful once it has finished
	active, err := s.live.IsQueueActive(ctx, game.BuildingQueue)
	if err != nil {
		return fmt.Errorf("check building queue: %w", err)
	}
	if active {
		return s.waitForActiveQueue(ctx, game.BuildingQueue)
	}

	if err := scheduling.ValidateBuildingLevel(step, levels); err != nil {
		return err
	}

	decision, err := s.gate.Check(step, resources)
	if err != nil {
		return err
	}
	if !decision.Ready {
		return s.waitForResources(ctx, state, game.BuildingQueue, step, decision)
	}

	return s.submit(ctx, state, game.BuildingQueue, state.build, index, step)
}

// fail reports a fatal error and returns it
func (s *Scheduler) fail(ctx context.Context, state *runState, err error) error {
	reason := fatalReason(err)
	metadata := map[string]interface{}{"reason": reason}
	event := &common.QueueEvent{Type: common.EventFatal, Message: err.Error()}

	if state != nil {
		metadata["iteration"] = state.iteration
		if queue, step, ok := state.current(); ok {
			metadata["queue"] = queue.String()
			metadata["step"] = step.Name
			metadata["level"] = step.Level
			event.Queue = queue.String()
			event.Order = step.Order
			event.Name = step.Name
			event.Level = step.Level

			missing := s.gate.Missing(step, state.resources)
			metadata["missing_met"] = missing.Met
			metadata["missing_kris"] = missing.Kris
			metadata["missing_deut"] = missing.Deut
			metadata["missing_energy"] = missing.Energy
		}
		metadata["met"] = state.resources.Met
		metadata["kris"] = state.resources.Kris
		metadata["deut"] = state.resources.Deut
		metadata["energy"] = state.resources.Energy
	}

	s.metrics.RecordFatal(reason)
	s.record(ctx, event)
	s.journalize(state, "fatal", event.Queue, event.Name, event.Level, 0, err.Error())
	s.report(ctx, common.LevelError, err.Error(), metadata)
	return err
}

func fatalReason(err error) string {
	var (
		exhausted *plan.PlanExhaustedError
		already   *plan.AlreadyQueuedError
		violation *scheduling.PreconditionViolationError
		labLow    *scheduling.ResearchLabTooLowError
		energy    *scheduling.InsufficientEnergyError
		desync    *QueueDesyncError
	)
	switch {
	case errors.As(err, &exhausted):
		return "plan_exhausted"
	case errors.As(err, &already):
		return "already_queued"
	case errors.As(err, &violation):
		return "precondition_violation"
	case errors.As(err, &labLow):
		return "research_lab_too_low"
	case errors.As(err, &energy):
		return "insufficient_energy"
	case errors.As(err, &desync):
		return "queue_desync"
	case errors.Is(err, context.DeadlineExceeded):
		return "action_timeout"
	default:
		return "live_system"
	}
}

// report logs a message and forwards notifiable levels to the notifier
func (s *Scheduler) report(ctx context.Context, level, message string, metadata map[string]interface{}) {
	s.logger.Log(level, message, metadata)

	switch level {
	case common.LevelInfo, common.LevelError, common.LevelBuildingLevels, common.LevelCurrentResources:
		if err := s.notifier.Notify(ctx, level, message); err != nil {
			s.logger.Log(common.LevelWarn, fmt.Sprintf("notification failed: %v", err), nil)
		}
	}
}

func (s *Scheduler) record(ctx context.Context, event *common.QueueEvent) {
	if s.events == nil {
		return
	}
	event.RunID = s.runID
	event.Player = s.player
	event.Timestamp = s.clock.Now()
	if err := s.events.Record(ctx, event); err != nil {
		s.logger.Log(common.LevelWarn, fmt.Sprintf("failed to record queue event: %v", err), nil)
	}
}

// decisionRecord is one line of the decision journal
type decisionRecord struct {
	Time        time.Time      `json:"time"`
	RunID       string         `json:"run_id"`
	Player      string         `json:"player"`
	Iteration   int            `json:"iteration"`
	Decision    string         `json:"decision"`
	Queue       string         `json:"queue,omitempty"`
	Step        string         `json:"step,omitempty"`
	Level       int            `json:"level,omitempty"`
	WaitSeconds float64        `json:"wait_seconds,omitempty"`
	Detail      string         `json:"detail,omitempty"`
	Resources   game.Resources `json:"resources"`
}

func (s *Scheduler) journalize(state *runState, decision, queue, step string, level int, wait time.Duration, detail string) {
	if s.journal == nil {
		return
	}
	rec := decisionRecord{
		Time:        s.clock.Now(),
		RunID:       s.runID,
		Player:      s.player,
		Decision:    decision,
		Queue:       queue,
		Step:        step,
		Level:       level,
		WaitSeconds: wait.Seconds(),
		Detail:      detail,
	}
	if state != nil {
		rec.Iteration = state.iteration
		rec.Resources = state.resources
	}
	if err := s.journal.Write(rec); err != nil {
		s.logger.Log(common.LevelWarn, fmt.Sprintf("failed to write decision journal: %v", err), nil)
	}
}

type noopNotifier struct{}

func (noopNotifier) Notify(context.Context, string, string) error { return nil }

type noopMetrics struct{}

func (noopMetrics) RecordSubmission(string, string, int)     {}
func (noopMetrics) RecordWait(string, string, time.Duration) {}
func (noopMetrics) RecordFatal(string)                       {}
func (noopMetrics) SetProgress(string, int, int)             {}

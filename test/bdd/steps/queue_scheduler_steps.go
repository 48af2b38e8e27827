package steps

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/cucumber/godog"

	"github.com/andrescamacho/pr0game-go/internal/application/common"
	"github.com/andrescamacho/pr0game-go/internal/application/scheduler"
	"github.com/andrescamacho/pr0game-go/internal/domain/game"
	"github.com/andrescamacho/pr0game-go/internal/domain/plan"
	"github.com/andrescamacho/pr0game-go/internal/domain/shared"
	"github.com/andrescamacho/pr0game-go/test/helpers"
)

type queueSchedulerContext struct {
	clock    *shared.MockClock
	live     *helpers.FakeLiveSystem
	progress *helpers.MockProgressRepository
	notifier *helpers.MockNotifier
	events   *helpers.MockQueueEventRepository
	cfg      scheduler.Config
	err      error
}

func (ctx *queueSchedulerContext) reset() {
	ctx.clock = shared.NewMockClock(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	ctx.live = helpers.NewFakeLiveSystem(ctx.clock)
	ctx.progress = helpers.NewMockProgressRepository()
	ctx.notifier = helpers.NewMockNotifier()
	ctx.events = helpers.NewMockQueueEventRepository()
	ctx.cfg = scheduler.Config{
		EnergyDeficitAllowed: 50,
		WaitBuffer:           5 * time.Second,
		RecheckInterval:      10 * time.Minute,
		RecheckVariance:      time.Minute,
	}
	ctx.err = nil
}

// Setup steps

func (ctx *queueSchedulerContext) aPlanetWithResources(met, kris, deut int) error {
	ctx.live.Resources = game.Resources{Met: met, Kris: kris, Deut: deut}
	return nil
}

func (ctx *queueSchedulerContext) anHourlyProductionOf(met, kris, deut int) error {
	ctx.live.Production = game.Production{Met: float64(met), Kris: float64(kris), Deut: float64(deut)}
	return nil
}

func (ctx *queueSchedulerContext) theSchedulerRunsForIterations(n int) error {
	ctx.cfg.MaxIterations = n
	return nil
}

func (ctx *queueSchedulerContext) thePlanetHasBuildingAtLevel(name string, level int) error {
	kind, ok := game.ParseBuildingKind(name)
	if !ok {
		return fmt.Errorf("unknown building %q", name)
	}
	ctx.live.Levels.Set(kind, level)
	return nil
}

func (ctx *queueSchedulerContext) isUnderConstructionFor(name string, level int, remaining string) error {
	d, err := time.ParseDuration(remaining)
	if err != nil {
		return err
	}
	ctx.live.StartConstruction(game.BuildingQueue, name, level, d)
	return nil
}

func (ctx *queueSchedulerContext) theBuildOrder(table *godog.Table) error {
	if len(table.Rows) < 2 {
		return fmt.Errorf("build order table needs a header and at least one row")
	}

	header := make(map[string]int)
	for i, cell := range table.Rows[0].Cells {
		header[cell.Value] = i
	}

	var steps plan.Plan
	for i, row := range table.Rows[1:] {
		value := func(col string) string { return row.Cells[header[col]].Value }
		number := func(col string) (int, error) { return strconv.Atoi(value(col)) }

		kind, err := parseStepKind(value("kind"))
		if err != nil {
			return err
		}
		level, err := number("level")
		if err != nil {
			return err
		}
		met, err := number("met")
		if err != nil {
			return err
		}
		kris, err := number("kris")
		if err != nil {
			return err
		}
		deut, err := number("deut")
		if err != nil {
			return err
		}

		steps = append(steps, plan.Step{
			Order: i,
			Kind:  kind,
			Name:  value("name"),
			Level: level,
			Cost:  plan.Cost{Met: met, Kris: kris, Deut: deut},
		})
	}
	ctx.cfg.BuildOrder = steps
	return nil
}

func parseStepKind(name string) (plan.Kind, error) {
	for _, k := range []plan.Kind{plan.KindBuilding, plan.KindResearch, plan.KindResearchCheckpoint} {
		if k.String() == name {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown step kind %q", name)
}

// Action steps

func (ctx *queueSchedulerContext) theSchedulerRuns() error {
	runCtx := common.WithLogger(context.Background(), helpers.NewMockLogger())
	s := scheduler.NewScheduler(runCtx, ctx.cfg, scheduler.Dependencies{
		Live:     ctx.live,
		Progress: ctx.progress,
		Notifier: ctx.notifier,
		Events:   ctx.events,
		Clock:    ctx.clock,
		Random:   helpers.StubRandom{Value: 0},
	}, "run-bdd", "tester")
	ctx.err = s.Run(runCtx)
	return nil
}

// Assertion steps

func (ctx *queueSchedulerContext) theRunShouldSucceed() error {
	if ctx.err != nil {
		return fmt.Errorf("expected run to succeed, got: %w", ctx.err)
	}
	return nil
}

func (ctx *queueSchedulerContext) theRunShouldFailWith(fragment string) error {
	if ctx.err == nil {
		return fmt.Errorf("expected run to fail with %q, but it succeeded", fragment)
	}
	if !strings.Contains(ctx.err.Error(), fragment) {
		return fmt.Errorf("expected error containing %q, got %q", fragment, ctx.err.Error())
	}
	return nil
}

func (ctx *queueSchedulerContext) theSubmittedStepsShouldBe(expected string) error {
	got := strings.Join(ctx.live.SubmittedSteps(), ",")
	if got != expected {
		return fmt.Errorf("expected submitted steps %q, got %q", expected, got)
	}
	return nil
}

func (ctx *queueSchedulerContext) nothingShouldHaveBeenSubmitted() error {
	if submitted := ctx.live.SubmittedSteps(); len(submitted) > 0 {
		return fmt.Errorf("expected no submissions, got %v", submitted)
	}
	return nil
}

func (ctx *queueSchedulerContext) stepQueued(queue game.QueueKind, index int, want bool) error {
	steps := ctx.progress.Snapshot(queue)
	if index >= len(steps) {
		return fmt.Errorf("%s progress has %d steps, no step %d", queue, len(steps), index)
	}
	if steps[index].HasBeenQueued != want {
		return fmt.Errorf("expected %s step %d queued=%t, got %t", queue, index, want, steps[index].HasBeenQueued)
	}
	return nil
}

func (ctx *queueSchedulerContext) buildStepShouldBeQueued(index int) error {
	return ctx.stepQueued(game.BuildingQueue, index, true)
}

func (ctx *queueSchedulerContext) buildStepShouldNotBeQueued(index int) error {
	return ctx.stepQueued(game.BuildingQueue, index, false)
}

func (ctx *queueSchedulerContext) researchStepShouldBeQueued(index int) error {
	return ctx.stepQueued(game.ResearchQueue, index, true)
}

func (ctx *queueSchedulerContext) theSchedulerShouldHaveSlept(expected string) error {
	want, err := time.ParseDuration(expected)
	if err != nil {
		return err
	}
	sleeps := ctx.clock.Sleeps()
	if len(sleeps) != 1 || sleeps[0] != want {
		return fmt.Errorf("expected a single sleep of %s, got %v", want, sleeps)
	}
	return nil
}

func (ctx *queueSchedulerContext) theRecordedEventsShouldBe(expected string) error {
	got := strings.Join(ctx.events.Types(), ",")
	if got != expected {
		return fmt.Errorf("expected events %q, got %q", expected, got)
	}
	return nil
}

func (ctx *queueSchedulerContext) anErrorNotificationShouldHaveBeenSent() error {
	if len(ctx.notifier.ByLevel(common.LevelError)) == 0 {
		return fmt.Errorf("expected an error notification")
	}
	return nil
}

// InitializeQueueSchedulerScenario registers the queue scheduler steps
func InitializeQueueSchedulerScenario(sc *godog.ScenarioContext) {
	schedCtx := &queueSchedulerContext{}

	sc.Before(func(ctx context.Context, s *godog.Scenario) (context.Context, error) {
		schedCtx.reset()
		return ctx, nil
	})

	sc.Step(`^a planet with (\d+) Met, (\d+) Kris and (\d+) Deut$`, schedCtx.aPlanetWithResources)
	sc.Step(`^an hourly production of (\d+) Met, (\d+) Kris and (\d+) Deut$`, schedCtx.anHourlyProductionOf)
	sc.Step(`^the scheduler runs for (\d+) iterations?$`, schedCtx.theSchedulerRunsForIterations)
	sc.Step(`^the planet has "([^"]*)" at level (\d+)$`, schedCtx.thePlanetHasBuildingAtLevel)
	sc.Step(`^"([^"]*)" level (\d+) is under construction for "([^"]*)"$`, schedCtx.isUnderConstructionFor)
	sc.Step(`^the build order:$`, schedCtx.theBuildOrder)
	sc.Step(`^the scheduler runs$`, schedCtx.theSchedulerRuns)
	sc.Step(`^the run should succeed$`, schedCtx.theRunShouldSucceed)
	sc.Step(`^the run should fail with "([^"]*)"$`, schedCtx.theRunShouldFailWith)
	sc.Step(`^the submitted steps should be "([^"]*)"$`, schedCtx.theSubmittedStepsShouldBe)
	sc.Step(`^nothing should have been submitted$`, schedCtx.nothingShouldHaveBeenSubmitted)
	sc.Step(`^build step (\d+) should be queued$`, schedCtx.buildStepShouldBeQueued)
	sc.Step(`^build step (\d+) should not be queued$`, schedCtx.buildStepShouldNotBeQueued)
	sc.Step(`^research step (\d+) should be queued$`, schedCtx.researchStepShouldBeQueued)
	sc.Step(`^the scheduler should have slept "([^"]*)"$`, schedCtx.theSchedulerShouldHaveSlept)
	sc.Step(`^the recorded events should be "([^"]*)"$`, schedCtx.theRecordedEventsShouldBe)
	sc.Step(`^an error notification should have been sent$`, schedCtx.anErrorNotificationShouldHaveBeenSent)
}

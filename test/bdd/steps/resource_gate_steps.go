package steps

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cucumber/godog"

	"github.com/andrescamacho/pr0game-go/internal/domain/game"
	"github.com/andrescamacho/pr0game-go/internal/domain/plan"
	"github.com/andrescamacho/pr0game-go/internal/domain/scheduling"
	"github.com/andrescamacho/pr0game-go/test/helpers"
)

const (
	gateRecheckInterval = 10 * time.Minute
	gateRecheckVariance = time.Minute
)

type resourceGateContext struct {
	allowance  int
	buffer     time.Duration
	step       plan.Step
	available  game.Resources
	production game.Production
	decision   scheduling.Decision
	estimate   scheduling.Estimate
	err        error
}

func (ctx *resourceGateContext) reset() {
	*ctx = resourceGateContext{}
}

func (ctx *resourceGateContext) anAllowedEnergyDeficitOf(allowance int) error {
	ctx.allowance = allowance
	return nil
}

func (ctx *resourceGateContext) aWaitBufferOf(buffer string) error {
	d, err := time.ParseDuration(buffer)
	if err != nil {
		return err
	}
	ctx.buffer = d
	return nil
}

func (ctx *resourceGateContext) aStepCosting(kind string, met, kris, deut int) error {
	k := plan.KindBuilding
	if kind == "research" {
		k = plan.KindResearch
	}
	ctx.step = plan.Step{Kind: k, Name: "Step", Level: 1, Cost: plan.Cost{Met: met, Kris: kris, Deut: deut}}
	return nil
}

func (ctx *resourceGateContext) aBuildingStepNeedingEnergy(met, kris, deut, energy int) error {
	ctx.step = plan.Step{Kind: plan.KindBuilding, Name: "Metallmine", Level: 1,
		Cost: plan.Cost{Met: met, Kris: kris, Deut: deut, Energy: energy}}
	return nil
}

func (ctx *resourceGateContext) availableResourcesOf(met, kris, deut, energy int) error {
	ctx.available = game.Resources{Met: met, Kris: kris, Deut: deut, Energy: energy}
	return nil
}

func (ctx *resourceGateContext) hourlyProductionOf(met, kris, deut int) error {
	ctx.production = game.Production{Met: float64(met), Kris: float64(kris), Deut: float64(deut)}
	return nil
}

func (ctx *resourceGateContext) theStepIsChecked() error {
	gate := scheduling.NewResourceGate(ctx.allowance)
	ctx.decision, ctx.err = gate.Check(ctx.step, ctx.available)
	if ctx.err != nil || ctx.decision.Ready {
		return nil
	}
	estimator := scheduling.NewWaitEstimator(ctx.buffer, gateRecheckInterval, gateRecheckVariance, helpers.StubRandom{Value: 0.5})
	ctx.estimate = estimator.Estimate(ctx.step.Cost, ctx.available, ctx.production)
	return nil
}

func (ctx *resourceGateContext) theStepShouldBeReady() error {
	if ctx.err != nil {
		return fmt.Errorf("unexpected gate error: %w", ctx.err)
	}
	if !ctx.decision.Ready {
		return fmt.Errorf("expected step to be ready, missing %+v", ctx.decision.Missing)
	}
	return nil
}

func (ctx *resourceGateContext) theStepShouldNotBeReady() error {
	if ctx.err != nil {
		return fmt.Errorf("unexpected gate error: %w", ctx.err)
	}
	if ctx.decision.Ready {
		return fmt.Errorf("expected step to wait for resources")
	}
	return nil
}

func (ctx *resourceGateContext) theComputedWaitShouldBe(seconds int) error {
	if !ctx.estimate.Computed {
		return fmt.Errorf("expected a computed wait, got fallback %s", ctx.estimate.Wait)
	}
	if got := ctx.estimate.Times.Max(); got != seconds {
		return fmt.Errorf("expected %d seconds, got %d", seconds, got)
	}
	if want := time.Duration(seconds)*time.Second + ctx.buffer; ctx.estimate.Wait != want {
		return fmt.Errorf("expected wait %s including buffer, got %s", want, ctx.estimate.Wait)
	}
	return nil
}

func (ctx *resourceGateContext) theBottleneckShouldBe(resource string) error {
	if got := ctx.estimate.Times.Bottleneck(); got != resource {
		return fmt.Errorf("expected bottleneck %q, got %q", resource, got)
	}
	return nil
}

func (ctx *resourceGateContext) theWaitShouldBeTheFallbackInterval() error {
	if ctx.estimate.Computed {
		return fmt.Errorf("expected the fallback interval, got computed wait %s", ctx.estimate.Wait)
	}
	// a draw of 0.5 sits in the middle of the jitter range
	if ctx.estimate.Wait != gateRecheckInterval {
		return fmt.Errorf("expected %s, got %s", gateRecheckInterval, ctx.estimate.Wait)
	}
	return nil
}

func (ctx *resourceGateContext) theGateShouldFailWithInsufficientEnergy() error {
	var energy *scheduling.InsufficientEnergyError
	if !errors.As(ctx.err, &energy) {
		return fmt.Errorf("expected InsufficientEnergyError, got %v", ctx.err)
	}
	return nil
}

// InitializeResourceGateScenario registers the resource gate and wait estimator steps
func InitializeResourceGateScenario(sc *godog.ScenarioContext) {
	gateCtx := &resourceGateContext{}

	sc.Before(func(ctx context.Context, s *godog.Scenario) (context.Context, error) {
		gateCtx.reset()
		return ctx, nil
	})

	sc.Step(`^an allowed energy deficit of (\d+)$`, gateCtx.anAllowedEnergyDeficitOf)
	sc.Step(`^a wait buffer of "([^"]*)"$`, gateCtx.aWaitBufferOf)
	sc.Step(`^a (building|research) step costing (\d+) Met, (\d+) Kris and (\d+) Deut$`, gateCtx.aStepCosting)
	sc.Step(`^a building step costing (\d+) Met, (\d+) Kris and (\d+) Deut needing (\d+) Energy$`, gateCtx.aBuildingStepNeedingEnergy)
	sc.Step(`^available resources of (\d+) Met, (\d+) Kris, (\d+) Deut and (\d+) Energy$`, gateCtx.availableResourcesOf)
	sc.Step(`^hourly production of (\d+) Met, (\d+) Kris and (\d+) Deut$`, gateCtx.hourlyProductionOf)
	sc.Step(`^the step is checked$`, gateCtx.theStepIsChecked)
	sc.Step(`^the step should be ready$`, gateCtx.theStepShouldBeReady)
	sc.Step(`^the step should not be ready$`, gateCtx.theStepShouldNotBeReady)
	sc.Step(`^the computed wait should be (\d+) seconds$`, gateCtx.theComputedWaitShouldBe)
	sc.Step(`^the bottleneck should be "([^"]*)"$`, gateCtx.theBottleneckShouldBe)
	sc.Step(`^the wait should be the fallback interval$`, gateCtx.theWaitShouldBeTheFallbackInterval)
	sc.Step(`^the gate should fail with insufficient energy$`, gateCtx.theGateShouldFailWithInsufficientEnergy)
}

package scheduling_test

import (
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/pr0game-go/internal/domain/game"
	"github.com/andrescamacho/pr0game-go/internal/domain/plan"
	"github.com/andrescamacho/pr0game-go/internal/domain/scheduling"
)

type fixedRandom struct{ value float64 }

func (f fixedRandom) Float64() float64 { return f.value }
func (f fixedRandom) Intn(n int) int   { return int(f.value * float64(n)) }

func buildingStep(name string, level int, cost plan.Cost) plan.Step {
	return plan.Step{Kind: plan.KindBuilding, Name: name, Level: level, Cost: cost}
}

func TestResourceWaitTimes_BottleneckDominates(t *testing.T) {
	// Arrange
	cost := plan.Cost{Met: 1000, Kris: 500, Deut: 0}
	available := game.Resources{Met: 200, Kris: 500, Deut: 1000}
	production := game.Production{Met: 100, Kris: 50, Deut: 10}

	// Act
	times, ok := scheduling.ResourceWaitTimes(cost, available, production)

	// Assert
	require.True(t, ok)
	assert.Equal(t, scheduling.WaitTimes{Met: 28800, Kris: 0, Deut: 0}, times)
	assert.Equal(t, 28800, times.Max())
	assert.Equal(t, "met", times.Bottleneck())
}

func TestResourceWaitTimes_IncludesDeuterium(t *testing.T) {
	cost := plan.Cost{Met: 100, Kris: 100, Deut: 1000}
	available := game.Resources{Met: 0, Kris: 0, Deut: 0}
	production := game.Production{Met: 3600, Kris: 3600, Deut: 10}

	times, ok := scheduling.ResourceWaitTimes(cost, available, production)

	require.True(t, ok)
	assert.Equal(t, 360000, times.Max())
	assert.Equal(t, "deut", times.Bottleneck())
}

func TestResourceWaitTimes_RoundsUp(t *testing.T) {
	times, ok := scheduling.ResourceWaitTimes(
		plan.Cost{Kris: 1},
		game.Resources{},
		game.Production{Kris: 7},
	)

	require.True(t, ok)
	assert.Equal(t, 515, times.Kris) // 3600/7 = 514.28
}

func TestResourceWaitTimes_UnknownProductionForDeficitOnly(t *testing.T) {
	_, ok := scheduling.ResourceWaitTimes(
		plan.Cost{Met: 100, Deut: 50},
		game.Resources{Met: 0, Deut: 50},
		game.Production{Met: 30, Deut: 0},
	)
	assert.True(t, ok, "deut is covered so its zero production does not matter")

	_, ok = scheduling.ResourceWaitTimes(
		plan.Cost{Met: 100, Deut: 60},
		game.Resources{Met: 0, Deut: 50},
		game.Production{Met: 30, Deut: 0},
	)
	assert.False(t, ok)
}

func TestWaitEstimator_AddsBufferToComputedWait(t *testing.T) {
	estimator := scheduling.NewWaitEstimator(5*time.Second, 10*time.Minute, time.Minute, fixedRandom{0.5})

	estimate := estimator.Estimate(
		plan.Cost{Met: 1000, Kris: 500},
		game.Resources{Met: 200, Kris: 500, Deut: 1000},
		game.Production{Met: 100, Kris: 50, Deut: 10},
	)

	assert.True(t, estimate.Computed)
	assert.Equal(t, 28800*time.Second+5*time.Second, estimate.Wait)
}

func TestWaitEstimator_FallbackJitterIsSymmetric(t *testing.T) {
	tests := []struct {
		random float64
		want   time.Duration
	}{
		{0, 9 * time.Minute},
		{0.5, 10 * time.Minute},
		{0.75, 10*time.Minute + 30*time.Second},
	}

	for _, tt := range tests {
		estimator := scheduling.NewWaitEstimator(5*time.Second, 10*time.Minute, time.Minute, fixedRandom{tt.random})

		estimate := estimator.Estimate(plan.Cost{Met: 10}, game.Resources{}, game.Production{})

		assert.False(t, estimate.Computed)
		assert.Equal(t, tt.want, estimate.Wait)
	}
}

func TestWaitEstimator_FallbackStaysWithinVariance(t *testing.T) {
	estimator := scheduling.NewWaitEstimator(0, 10*time.Minute, time.Minute, rand.New(rand.NewSource(42)))

	for i := 0; i < 200; i++ {
		wait := estimator.Fallback()
		assert.GreaterOrEqual(t, wait, 9*time.Minute)
		assert.LessOrEqual(t, wait, 11*time.Minute)
	}
}

func TestResourceGate_InsufficientEnergyIsFatal(t *testing.T) {
	gate := scheduling.NewResourceGate(50)
	step := buildingStep("Metallmine", 9, plan.Cost{Met: 10, Energy: 500})

	decision, err := gate.Check(step, game.Resources{Met: 0, Energy: 100})

	var energyErr *scheduling.InsufficientEnergyError
	require.True(t, errors.As(err, &energyErr))
	assert.Equal(t, 500, energyErr.Required)
	assert.Equal(t, 100, energyErr.Available)
	assert.False(t, decision.Ready)
}

func TestResourceGate_EnergyAllowanceTolerated(t *testing.T) {
	gate := scheduling.NewResourceGate(50)
	step := buildingStep("Metallmine", 3, plan.Cost{Met: 100, Energy: 40})

	decision, err := gate.Check(step, game.Resources{Met: 100, Energy: -10})

	require.NoError(t, err)
	assert.True(t, decision.Ready)
}

func TestResourceGate_IgnoresEnergyForResearch(t *testing.T) {
	gate := scheduling.NewResourceGate(0)
	step := plan.Step{Kind: plan.KindResearch, Name: "Computertechnik", Level: 1, Cost: plan.Cost{Kris: 400, Deut: 600}}

	decision, err := gate.Check(step, game.Resources{Kris: 100, Deut: 600, Energy: -500})

	require.NoError(t, err)
	assert.False(t, decision.Ready)
	assert.Equal(t, game.Resources{Kris: 300}, decision.Missing)
}

func TestResourceGate_MissingIncludesEnergyBeyondAllowance(t *testing.T) {
	gate := scheduling.NewResourceGate(50)
	step := buildingStep("Metallmine", 9, plan.Cost{Met: 300, Kris: 100, Deut: 40, Energy: 500})

	missing := gate.Missing(step, game.Resources{Met: 100, Kris: 100, Energy: 100})

	assert.Equal(t, game.Resources{Met: 200, Deut: 40, Energy: 350}, missing)
}

func TestResourceGate_MissingIgnoresEnergyForResearch(t *testing.T) {
	gate := scheduling.NewResourceGate(0)
	step := plan.Step{Kind: plan.KindResearch, Name: "Energietechnik", Level: 1, Cost: plan.Cost{Kris: 800, Deut: 400, Energy: 10}}

	missing := gate.Missing(step, game.Resources{Kris: 800, Energy: -100})

	assert.Equal(t, game.Resources{Deut: 400}, missing)
}

func TestValidateBuildingLevel(t *testing.T) {
	levels := game.BuildingLevels{Metallmine: 1}

	err := scheduling.ValidateBuildingLevel(buildingStep("Metallmine", 3, plan.Cost{}), levels)

	var violation *scheduling.PreconditionViolationError
	require.True(t, errors.As(err, &violation))
	assert.Equal(t, 2, violation.ExpectedLevel)
	assert.Equal(t, 1, violation.ActualLevel)

	assert.NoError(t, scheduling.ValidateBuildingLevel(buildingStep("Metallmine", 2, plan.Cost{}), levels))
	assert.NoError(t, scheduling.ValidateBuildingLevel(buildingStep("Kristallmine", 1, plan.Cost{}), levels))
	assert.Error(t, scheduling.ValidateBuildingLevel(buildingStep("Metallmine", 1, plan.Cost{}), levels))
}

func TestValidateResearchLab(t *testing.T) {
	step := plan.DefaultResearchOrder()[4] // Spionagetechnik 1

	err := scheduling.ValidateResearchLab(step, 2)

	var tooLow *scheduling.ResearchLabTooLowError
	require.True(t, errors.As(err, &tooLow))
	assert.Equal(t, 3, tooLow.RequiredLab)
	assert.NoError(t, scheduling.ValidateResearchLab(step, 3))
}

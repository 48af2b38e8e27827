package scheduling

import (
	"github.com/andrescamacho/pr0game-go/internal/domain/game"
	"github.com/andrescamacho/pr0game-go/internal/domain/plan"
)

// Decision is the outcome of the resource gate
type Decision struct {
	Ready bool
	// Missing holds the shortfall per primary resource; zero where the stock suffices
	Missing game.Resources
}

// ResourceGate decides whether a step is affordable right now
type ResourceGate struct {
	energyAllowance int
}

// NewResourceGate creates a gate tolerating the given energy deficit
func NewResourceGate(energyAllowance int) *ResourceGate {
	return &ResourceGate{energyAllowance: energyAllowance}
}

// Check returns READY or WAIT for a step. Energy is checked first and only for
// buildings; a shortfall beyond the allowance is fatal.
func (g *ResourceGate) Check(step plan.Step, available game.Resources) (Decision, error) {
	if step.IsBuilding() && available.Energy+g.energyAllowance < step.Cost.Energy {
		return Decision{}, NewInsufficientEnergyError(
			step.Name, step.Level, step.Cost.Energy, available.Energy, g.energyAllowance,
		)
	}

	missing := g.Missing(step, available)
	ready := missing.Met == 0 && missing.Kris == 0 && missing.Deut == 0
	return Decision{Ready: ready, Missing: missing}, nil
}

// Missing returns the shortfall per resource. Energy counts only for buildings
// and only beyond the allowed deficit.
func (g *ResourceGate) Missing(step plan.Step, available game.Resources) game.Resources {
	missing := game.Resources{
		Met:  shortfall(step.Cost.Met, available.Met),
		Kris: shortfall(step.Cost.Kris, available.Kris),
		Deut: shortfall(step.Cost.Deut, available.Deut),
	}
	if step.IsBuilding() {
		missing.Energy = shortfall(step.Cost.Energy, available.Energy+g.energyAllowance)
	}
	return missing
}

func shortfall(cost, available int) int {
	if cost > available {
		return cost - available
	}
	return 0
}

package scheduling

import (
	"github.com/andrescamacho/pr0game-go/internal/domain/game"
	"github.com/andrescamacho/pr0game-go/internal/domain/plan"
)

// ValidateBuildingLevel checks that the building currently sits one level below
// the step's target. For level 1 that means it has not been built yet.
func ValidateBuildingLevel(step plan.Step, levels game.BuildingLevels) error {
	kind, err := step.Building()
	if err != nil {
		return err
	}
	actual := levels.Get(kind)
	if actual != step.Level-1 {
		return NewPreconditionViolationError(step.Name, step.Level, actual)
	}
	return nil
}

// ValidateResearchLab checks the research lab is high enough for the step
func ValidateResearchLab(step plan.Step, labLevel int) error {
	if labLevel < step.MinResearchLabLevel {
		return NewResearchLabTooLowError(step.Name, step.Level, step.MinResearchLabLevel, labLevel)
	}
	return nil
}

package scheduling

import (
	"fmt"

	"github.com/andrescamacho/pr0game-go/internal/domain/shared"
)

// PreconditionViolationError is returned when the live building level does not
// match the level the plan expects before the step
type PreconditionViolationError struct {
	*shared.DomainError
	Name          string
	Level         int
	ExpectedLevel int
	ActualLevel   int
}

func NewPreconditionViolationError(name string, level, actual int) *PreconditionViolationError {
	return &PreconditionViolationError{
		DomainError: shared.NewDomainError(fmt.Sprintf(
			"cannot build %s %d: live level is %d, expected %d",
			name, level, actual, level-1,
		)),
		Name:          name,
		Level:         level,
		ExpectedLevel: level - 1,
		ActualLevel:   actual,
	}
}

// ResearchLabTooLowError is returned when a research step needs a higher lab
type ResearchLabTooLowError struct {
	*shared.DomainError
	Name        string
	Level       int
	RequiredLab int
	ActualLab   int
}

func NewResearchLabTooLowError(name string, level, required, actual int) *ResearchLabTooLowError {
	return &ResearchLabTooLowError{
		DomainError: shared.NewDomainError(fmt.Sprintf(
			"cannot research %s %d: research lab level %d is below required %d",
			name, level, actual, required,
		)),
		Name:        name,
		Level:       level,
		RequiredLab: required,
		ActualLab:   actual,
	}
}

// InsufficientEnergyError is returned when a building needs more energy than is
// available plus the allowed deficit. Waiting never resolves it.
type InsufficientEnergyError struct {
	*shared.DomainError
	Name      string
	Level     int
	Required  int
	Available int
	Allowance int
}

func NewInsufficientEnergyError(name string, level, required, available, allowance int) *InsufficientEnergyError {
	return &InsufficientEnergyError{
		DomainError: shared.NewDomainError(fmt.Sprintf(
			"insufficient energy for %s %d: need %d, have %d (allowed deficit %d)",
			name, level, required, available, allowance,
		)),
		Name:      name,
		Level:     level,
		Required:  required,
		Available: available,
		Allowance: allowance,
	}
}

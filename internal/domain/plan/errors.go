package plan

import (
	"fmt"

	"github.com/andrescamacho/pr0game-go/internal/domain/shared"
)

// PlanExhaustedError is returned when every step of a plan has been queued
type PlanExhaustedError struct {
	*shared.DomainError
	Steps int
}

func NewPlanExhaustedError(steps int) *PlanExhaustedError {
	return &PlanExhaustedError{
		DomainError: shared.NewDomainError(fmt.Sprintf("plan exhausted: all %d steps have been queued, extend the plan", steps)),
		Steps:       steps,
	}
}

// AlreadyQueuedError is returned when a step would be marked queued twice
type AlreadyQueuedError struct {
	*shared.DomainError
	Index int
	Name  string
	Level int
}

func NewAlreadyQueuedError(index int, step Step) *AlreadyQueuedError {
	return &AlreadyQueuedError{
		DomainError: shared.NewDomainError(fmt.Sprintf("%s has already been queued (index %d)", step.Label(), index)),
		Index:       index,
		Name:        step.Name,
		Level:       step.Level,
	}
}

// InvalidStepIndexError is returned for indices outside the plan
type InvalidStepIndexError struct {
	*shared.DomainError
	Index int
	Len   int
}

func NewInvalidStepIndexError(index, length int) *InvalidStepIndexError {
	return &InvalidStepIndexError{
		DomainError: shared.NewDomainError(fmt.Sprintf("invalid step index %d for plan of %d steps", index, length)),
		Index:       index,
		Len:         length,
	}
}

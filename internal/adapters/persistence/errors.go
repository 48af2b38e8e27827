package persistence

import (
	"fmt"

	"github.com/andrescamacho/pr0game-go/internal/domain/shared"
)

// PersistenceError wraps a failed progress read or write
type PersistenceError struct {
	*shared.DomainError
	Path string
	Err  error
}

func NewPersistenceError(op, path string, err error) *PersistenceError {
	return &PersistenceError{
		DomainError: shared.NewDomainError(fmt.Sprintf("%s %s: %v", op, path, err)),
		Path:        path,
		Err:         err,
	}
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

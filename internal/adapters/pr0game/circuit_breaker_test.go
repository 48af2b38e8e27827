package pr0game_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/pr0game-go/internal/adapters/pr0game"
	"github.com/andrescamacho/pr0game-go/internal/domain/shared"
)

var errServer = errors.New("server down")

func failing() error { return errServer }
func healthy() error { return nil }

func TestCircuitBreaker_OpensAfterMaxFailures(t *testing.T) {
	// Arrange
	clock := shared.NewMockClock(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	cb := pr0game.NewCircuitBreaker(2, time.Minute, clock)

	// Act
	_ = cb.Call(failing)
	_ = cb.Call(failing)
	err := cb.Call(healthy)

	// Assert
	assert.ErrorIs(t, err, pr0game.ErrCircuitOpen)
	assert.Equal(t, pr0game.CircuitOpen, cb.GetState())
}

func TestCircuitBreaker_HalfOpenTrialClosesOnSuccess(t *testing.T) {
	// Arrange
	clock := shared.NewMockClock(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	cb := pr0game.NewCircuitBreaker(1, time.Minute, clock)
	_ = cb.Call(failing)
	clock.Advance(time.Minute)

	// Act
	err := cb.Call(healthy)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, pr0game.CircuitClosed, cb.GetState())
}

func TestCircuitBreaker_HalfOpenTrialFailureReopens(t *testing.T) {
	// Arrange
	clock := shared.NewMockClock(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	cb := pr0game.NewCircuitBreaker(3, time.Minute, clock)
	for i := 0; i < 3; i++ {
		_ = cb.Call(failing)
	}
	clock.Advance(2 * time.Minute)

	// Act
	err := cb.Call(failing)

	// Assert
	assert.ErrorIs(t, err, errServer)
	assert.Equal(t, pr0game.CircuitOpen, cb.GetState())
}

func TestCircuitBreaker_CancellationIsNotAFailure(t *testing.T) {
	// Arrange
	clock := shared.NewMockClock(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	cb := pr0game.NewCircuitBreaker(1, time.Minute, clock)

	// Act
	err := cb.Call(func() error { return context.Canceled })

	// Assert
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, pr0game.CircuitClosed, cb.GetState())
}

package helpers

import (
	"context"
	"sync"

	"github.com/andrescamacho/pr0game-go/internal/domain/game"
	"github.com/andrescamacho/pr0game-go/internal/domain/plan"
)

// MockProgressRepository keeps progress in memory and writes synchronously
type MockProgressRepository struct {
	mu        sync.Mutex
	Persisted map[game.QueueKind]plan.Plan
	Saves     map[game.QueueKind]int
	LoadErr   error
}

// NewMockProgressRepository creates an empty in-memory progress store
func NewMockProgressRepository() *MockProgressRepository {
	return &MockProgressRepository{
		Persisted: make(map[game.QueueKind]plan.Plan),
		Saves:     make(map[game.QueueKind]int),
	}
}

func (m *MockProgressRepository) Load(ctx context.Context, queue game.QueueKind, static plan.Plan) (plan.Plan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.LoadErr != nil {
		return nil, m.LoadErr
	}
	persisted, ok := m.Persisted[queue]
	if !ok {
		persisted = static.Clone()
		m.Persisted[queue] = persisted
	}
	return plan.Merge(static, persisted), nil
}

func (m *MockProgressRepository) Save(ctx context.Context, queue game.QueueKind, steps plan.Plan) error {
	m.SaveAsync(queue, steps)
	return nil
}

func (m *MockProgressRepository) SaveAsync(queue game.QueueKind, steps plan.Plan) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Persisted[queue] = steps.Clone()
	m.Saves[queue]++
}

// Snapshot returns a copy of the persisted progress of a queue
func (m *MockProgressRepository) Snapshot(queue game.QueueKind) plan.Plan {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Persisted[queue].Clone()
}

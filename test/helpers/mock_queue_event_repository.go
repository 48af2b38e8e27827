package helpers

import (
	"context"
	"sync"

	"github.com/andrescamacho/pr0game-go/internal/application/common"
)

// MockQueueEventRepository stores queue events in memory
type MockQueueEventRepository struct {
	mu        sync.Mutex
	Events    []common.QueueEvent
	RecordErr error
}

func NewMockQueueEventRepository() *MockQueueEventRepository {
	return &MockQueueEventRepository{}
}

func (m *MockQueueEventRepository) Record(ctx context.Context, event *common.QueueEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.RecordErr != nil {
		return m.RecordErr
	}
	event.ID = len(m.Events) + 1
	m.Events = append(m.Events, *event)
	return nil
}

func (m *MockQueueEventRepository) ListRecent(ctx context.Context, player string, limit int) ([]common.QueueEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []common.QueueEvent
	for i := len(m.Events) - 1; i >= 0 && (limit <= 0 || len(out) < limit); i-- {
		if player == "" || m.Events[i].Player == player {
			out = append(out, m.Events[i])
		}
	}
	return out, nil
}

// Types returns the event types in recording order
func (m *MockQueueEventRepository) Types() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	types := make([]string, len(m.Events))
	for i, e := range m.Events {
		types[i] = e.Type
	}
	return types
}

// MockDecisionJournal keeps journal records in memory
type MockDecisionJournal struct {
	mu      sync.Mutex
	Records []any
}

func (m *MockDecisionJournal) Write(v any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Records = append(m.Records, v)
	return nil
}

func (m *MockDecisionJournal) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Records)
}

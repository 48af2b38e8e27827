package helpers

import (
	"context"
	"sync"
)

// Notification is one message received by MockNotifier
type Notification struct {
	Level   string
	Message string
}

// MockNotifier records notifications
type MockNotifier struct {
	mu            sync.Mutex
	Notifications []Notification
	Err           error
}

func NewMockNotifier() *MockNotifier {
	return &MockNotifier{}
}

func (m *MockNotifier) Notify(ctx context.Context, level, message string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Notifications = append(m.Notifications, Notification{Level: level, Message: message})
	return m.Err
}

// ByLevel returns the messages of one level
func (m *MockNotifier) ByLevel(level string) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []string
	for _, n := range m.Notifications {
		if n.Level == level {
			out = append(out, n.Message)
		}
	}
	return out
}

package testutils

import (
	"context"
	"errors"
	"sync"

	"github.com/papercomputeco/chatgate/pkg/eventstream"
)

// MockPublisher is a test eventstream publisher that keeps every event.
type MockPublisher struct {
	mu     sync.Mutex
	events []*eventstream.ExchangeEvent

	// FailPublish causes PublishExchange to return an error.
	FailPublish bool
}

func NewMockPublisher() *MockPublisher {
	return &MockPublisher{}
}

func (m *MockPublisher) PublishExchange(_ context.Context, event *eventstream.ExchangeEvent) error {
	if event == nil {
		return eventstream.ErrNilExchangeEvent
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FailPublish {
		return errors.New("mock publish failure")
	}
	m.events = append(m.events, event)
	return nil
}

// Events returns the published events.
func (m *MockPublisher) Events() []*eventstream.ExchangeEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*eventstream.ExchangeEvent(nil), m.events...)
}

func (m *MockPublisher) Close() error {
	return nil
}

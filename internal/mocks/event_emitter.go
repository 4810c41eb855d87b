package mocks

import (
	"context"
	"sync"

	"github.com/DavidHJones36/roguetwo-api/internal/events"
)

// MockEventEmitter implements events.EventEmitter and records every event.
type MockEventEmitter struct {
	EmitError error

	mu     sync.Mutex
	events []*events.Event
}

var _ events.EventEmitter = (*MockEventEmitter)(nil)

// EmitEvent implements events.EventEmitter
func (m *MockEventEmitter) EmitEvent(_ context.Context, event *events.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
	return m.EmitError
}

// Events returns the emitted events of the given type, or all events when
// eventType is empty.
func (m *MockEventEmitter) Events(eventType string) []*events.Event {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []*events.Event
	for _, e := range m.events {
		if eventType == "" || e.Type == eventType {
			out = append(out, e)
		}
	}
	return out
}

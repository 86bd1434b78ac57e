package mocks

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// BroadcastCall records one Broadcast invocation.
type BroadcastCall struct {
	Recipients []uuid.UUID
	Event      any
}

// MockBroadcaster implements service.EventBroadcaster for testing, recording
// every broadcast for later assertions.
type MockBroadcaster struct {
	mu    sync.Mutex
	Calls []BroadcastCall
}

// Broadcast implements the EventBroadcaster interface.
func (m *MockBroadcaster) Broadcast(ctx context.Context, recipients []uuid.UUID, event any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, BroadcastCall{Recipients: recipients, Event: event})
}

// CallsSnapshot returns a copy of the recorded calls.
func (m *MockBroadcaster) CallsSnapshot() []BroadcastCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]BroadcastCall(nil), m.Calls...)
}

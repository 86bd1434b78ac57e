package mocks

import (
	"context"
	"database/sql"
	"sync"

	"github.com/google/uuid"
	"github.com/tasknest/tasknest/internal/domain"
	"github.com/tasknest/tasknest/internal/store"
)

// MockAgentResponseStore implements store.AgentResponseStore for testing.
type MockAgentResponseStore struct {
	CreateFn      func(ctx context.Context, resp *domain.AgentResponse) error
	ListForTaskFn func(ctx context.Context, taskID uuid.UUID) ([]*domain.AgentResponse, error)

	// Responses backs the default implementation, newest last.
	Responses []*domain.AgentResponse

	mu sync.Mutex
}

var _ store.AgentResponseStore = (*MockAgentResponseStore)(nil)

// NewMockAgentResponseStore creates an empty MockAgentResponseStore.
func NewMockAgentResponseStore() *MockAgentResponseStore {
	return &MockAgentResponseStore{}
}

// Create implements the AgentResponseStore interface.
func (m *MockAgentResponseStore) Create(ctx context.Context, resp *domain.AgentResponse) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, resp)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Responses = append(m.Responses, resp)
	return nil
}

// ListForTask implements the AgentResponseStore interface.
func (m *MockAgentResponseStore) ListForTask(
	ctx context.Context,
	taskID uuid.UUID,
) ([]*domain.AgentResponse, error) {
	if m.ListForTaskFn != nil {
		return m.ListForTaskFn(ctx, taskID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var matches []*domain.AgentResponse
	for i := len(m.Responses) - 1; i >= 0; i-- {
		if m.Responses[i].TaskID == taskID {
			matches = append(matches, m.Responses[i])
		}
	}
	return matches, nil
}

// WithTx implements the AgentResponseStore interface.
func (m *MockAgentResponseStore) WithTx(tx *sql.Tx) store.AgentResponseStore {
	return m
}

package mocks

import (
	"context"

	"github.com/tasknest/tasknest/internal/domain"
	"github.com/tasknest/tasknest/internal/service"
)

// MockTextGenerator implements service.TextGenerator for testing.
type MockTextGenerator struct {
	GenerateFn func(ctx context.Context, agentType domain.AgentType, task *domain.Task) (string, error)

	// Calls records the agent types passed to Generate.
	Calls []domain.AgentType
}

var _ service.TextGenerator = (*MockTextGenerator)(nil)

// Generate implements the TextGenerator interface.
func (m *MockTextGenerator) Generate(
	ctx context.Context,
	agentType domain.AgentType,
	task *domain.Task,
) (string, error) {
	m.Calls = append(m.Calls, agentType)
	if m.GenerateFn != nil {
		return m.GenerateFn(ctx, agentType, task)
	}
	return "mock agent response", nil
}

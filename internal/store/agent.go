package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/tasknest/tasknest/internal/domain"
)

// AgentResponseStore defines the interface for persisting generated agent
// responses.
type AgentResponseStore interface {
	// Create saves a new agent response to the store.
	// Returns ErrInvalidEntity if the task does not exist.
	Create(ctx context.Context, resp *domain.AgentResponse) error

	// ListForTask retrieves all responses for a task, newest first.
	ListForTask(ctx context.Context, taskID uuid.UUID) ([]*domain.AgentResponse, error)

	// WithTx returns a new AgentResponseStore instance that uses the
	// provided transaction.
	WithTx(tx *sql.Tx) AgentResponseStore
}

package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/tasknest/tasknest/internal/domain"
)

// TaskStore defines the interface for task data persistence, including the
// reader edges that grant read-only visibility to non-owners.
type TaskStore interface {
	// Create saves a new task to the store.
	// Returns ErrInvalidEntity if the owner does not exist.
	// Returns validation errors from the domain Task if data is invalid.
	Create(ctx context.Context, task *domain.Task) error

	// GetByID retrieves a task by its unique ID.
	// Returns ErrTaskNotFound if the task does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error)

	// ListForUser retrieves tasks the given user owns or reads, ordered by
	// creation time descending. offset/limit implement paging.
	ListForUser(ctx context.Context, userID uuid.UUID, offset, limit int) ([]*domain.Task, error)

	// Update persists the task's current mutable fields.
	// Returns ErrTaskNotFound if the task does not exist.
	Update(ctx context.Context, task *domain.Task) error

	// Delete removes a task from the store by its ID. Reader edges and
	// agent responses are removed in the same statement via ON DELETE
	// CASCADE, so no dangling edges survive the task.
	// Returns ErrTaskNotFound if the task does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// ListReaders returns the IDs of all users with read access to the
	// task, excluding the owner. Returns an empty slice when the task has
	// no readers; the task itself is not checked for existence.
	ListReaders(ctx context.Context, taskID uuid.UUID) ([]uuid.UUID, error)

	// ListReaderEmails returns the email addresses of all users with read
	// access to the task, for rendering in task payloads.
	ListReaderEmails(ctx context.Context, taskID uuid.UUID) ([]string, error)

	// AddReader grants the user read access to the task. Idempotent: adding
	// an existing reader is a no-op, the (task, user) edge is unique.
	AddReader(ctx context.Context, taskID, userID uuid.UUID) error

	// RemoveReader revokes the user's read access to the task. Idempotent:
	// removing a non-reader is a no-op.
	RemoveReader(ctx context.Context, taskID, userID uuid.UUID) error

	// IsReader reports whether the user currently holds a reader edge on
	// the task.
	IsReader(ctx context.Context, taskID, userID uuid.UUID) (bool, error)

	// WithTx returns a new TaskStore instance that uses the provided
	// transaction.
	WithTx(tx *sql.Tx) TaskStore
}

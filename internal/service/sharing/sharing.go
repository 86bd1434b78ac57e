// Package sharing implements the task visibility model: every task has one
// immutable owner plus a mutable set of readers with read-only access. The
// predicates here back both the authorization checks on CRUD operations
// and the recipient-set computation for live notifications.
package sharing

import (
	"context"

	"github.com/google/uuid"

	"github.com/tasknest/tasknest/internal/domain"
	"github.com/tasknest/tasknest/internal/store"
)

// Service answers visibility questions and manages reader edges.
type Service struct {
	tasks store.TaskStore
}

// NewService creates a sharing Service over the given task store.
func NewService(tasks store.TaskStore) *Service {
	return &Service{tasks: tasks}
}

// CanRead reports whether the user may see the task: the owner always can,
// regardless of reader-set membership, otherwise the user must hold a
// reader edge.
func (s *Service) CanRead(ctx context.Context, task *domain.Task, userID uuid.UUID) (bool, error) {
	if task.OwnerID == userID {
		return true, nil
	}
	return s.tasks.IsReader(ctx, task.ID, userID)
}

// CanWrite reports whether the user may mutate or delete the task or manage
// its reader set. Only the owner may; readers have read-only visibility.
func (s *Service) CanWrite(task *domain.Task, userID uuid.UUID) bool {
	return task.OwnerID == userID
}

// AddReader grants readerID read access to the task. Only the owner may
// grant access; anyone else gets domain.ErrForbidden. Idempotent: adding an
// existing reader is a no-op.
func (s *Service) AddReader(ctx context.Context, task *domain.Task, callerID, readerID uuid.UUID) error {
	if !s.CanWrite(task, callerID) {
		return domain.ErrForbidden
	}
	return s.tasks.AddReader(ctx, task.ID, readerID)
}

// RemoveReader revokes readerID's read access. Authorized if the caller is
// the owner or is removing themself. Idempotent: removing a non-reader is a
// no-op.
func (s *Service) RemoveReader(ctx context.Context, task *domain.Task, callerID, readerID uuid.UUID) error {
	if !s.CanWrite(task, callerID) && callerID != readerID {
		return domain.ErrForbidden
	}
	return s.tasks.RemoveReader(ctx, task.ID, readerID)
}

// Recipients returns the identities that should receive a change event for
// the task: the current reader set. The owner is deliberately excluded,
// since they already see the result of the action that produced the event.
func (s *Service) Recipients(ctx context.Context, taskID uuid.UUID) ([]uuid.UUID, error) {
	return s.tasks.ListReaders(ctx, taskID)
}

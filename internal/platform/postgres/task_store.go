package postgres

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/google/uuid"

	"github.com/tasknest/tasknest/internal/domain"
	"github.com/tasknest/tasknest/internal/platform/logger"
	"github.com/tasknest/tasknest/internal/store"
)

// PostgresTaskStore implements the store.TaskStore interface
// using a PostgreSQL database as the storage backend.
type PostgresTaskStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresTaskStore creates a new PostgreSQL implementation of the
// TaskStore interface.
func NewPostgresTaskStore(db store.DBTX, logger *slog.Logger) *PostgresTaskStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresTaskStore{
		db:     db,
		logger: logger.With(slog.String("component", "task_store")),
	}
}

// Ensure PostgresTaskStore implements store.TaskStore interface
var _ store.TaskStore = (*PostgresTaskStore)(nil)

// Create implements store.TaskStore.Create
func (s *PostgresTaskStore) Create(ctx context.Context, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := task.Validate(); err != nil {
		log.Warn("task validation failed during create",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return err
	}

	query := `
		INSERT INTO tasks (id, owner_id, title, description, priority, status, deadline, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		task.ID,
		task.OwnerID,
		task.Title,
		task.Description,
		task.Priority,
		task.Status,
		task.Deadline,
		task.CreatedAt,
		task.UpdatedAt,
	)
	if err != nil {
		log.Error("failed to insert task",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return MapError(err)
	}

	return nil
}

// GetByID implements store.TaskStore.GetByID
func (s *PostgresTaskStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	query := `
		SELECT id, owner_id, title, description, priority, status, deadline, created_at, updated_at
		FROM tasks
		WHERE id = $1
	`
	var task domain.Task
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&task.ID,
		&task.OwnerID,
		&task.Title,
		&task.Description,
		&task.Priority,
		&task.Status,
		&task.Deadline,
		&task.CreatedAt,
		&task.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, store.ErrTaskNotFound
		}
		return nil, MapError(err)
	}
	return &task, nil
}

// ListForUser implements store.TaskStore.ListForUser
// The result covers both owned tasks and tasks shared with the user.
func (s *PostgresTaskStore) ListForUser(
	ctx context.Context,
	userID uuid.UUID,
	offset, limit int,
) ([]*domain.Task, error) {
	query := `
		SELECT t.id, t.owner_id, t.title, t.description, t.priority, t.status, t.deadline, t.created_at, t.updated_at
		FROM tasks t
		WHERE t.owner_id = $1
		   OR EXISTS (
			SELECT 1 FROM task_readers r
			WHERE r.task_id = t.id AND r.user_id = $1
		   )
		ORDER BY t.created_at DESC
		OFFSET $2 LIMIT $3
	`
	rows, err := s.db.QueryContext(ctx, query, userID, offset, limit)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	var tasks []*domain.Task
	for rows.Next() {
		var task domain.Task
		err := rows.Scan(
			&task.ID,
			&task.OwnerID,
			&task.Title,
			&task.Description,
			&task.Priority,
			&task.Status,
			&task.Deadline,
			&task.CreatedAt,
			&task.UpdatedAt,
		)
		if err != nil {
			return nil, MapError(err)
		}
		tasks = append(tasks, &task)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return tasks, nil
}

// Update implements store.TaskStore.Update
func (s *PostgresTaskStore) Update(ctx context.Context, task *domain.Task) error {
	if err := task.Validate(); err != nil {
		return err
	}

	query := `
		UPDATE tasks
		SET title = $2, description = $3, priority = $4, status = $5, deadline = $6, updated_at = $7
		WHERE id = $1
	`
	result, err := s.db.ExecContext(
		ctx,
		query,
		task.ID,
		task.Title,
		task.Description,
		task.Priority,
		task.Status,
		task.Deadline,
		task.UpdatedAt,
	)
	if err != nil {
		return MapError(err)
	}

	return CheckRowsAffected(result, "task")
}

// Delete implements store.TaskStore.Delete
// Reader edges and agent responses go with the row via ON DELETE CASCADE.
func (s *PostgresTaskStore) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return MapError(err)
	}
	return CheckRowsAffected(result, "task")
}

// ListReaders implements store.TaskStore.ListReaders
func (s *PostgresTaskStore) ListReaders(ctx context.Context, taskID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT user_id FROM task_readers WHERE task_id = $1`,
		taskID,
	)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	var readers []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, MapError(err)
		}
		readers = append(readers, id)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return readers, nil
}

// ListReaderEmails implements store.TaskStore.ListReaderEmails
func (s *PostgresTaskStore) ListReaderEmails(ctx context.Context, taskID uuid.UUID) ([]string, error) {
	query := `
		SELECT u.email
		FROM task_readers r
		JOIN users u ON u.id = r.user_id
		WHERE r.task_id = $1
		ORDER BY u.email
	`
	rows, err := s.db.QueryContext(ctx, query, taskID)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	var emails []string
	for rows.Next() {
		var email string
		if err := rows.Scan(&email); err != nil {
			return nil, MapError(err)
		}
		emails = append(emails, email)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return emails, nil
}

// AddReader implements store.TaskStore.AddReader
// ON CONFLICT DO NOTHING keeps the (task, user) edge unique and the
// operation idempotent.
func (s *PostgresTaskStore) AddReader(ctx context.Context, taskID, userID uuid.UUID) error {
	query := `
		INSERT INTO task_readers (task_id, user_id)
		VALUES ($1, $2)
		ON CONFLICT (task_id, user_id) DO NOTHING
	`
	if _, err := s.db.ExecContext(ctx, query, taskID, userID); err != nil {
		return MapError(err)
	}
	return nil
}

// RemoveReader implements store.TaskStore.RemoveReader
// Removing an edge that does not exist is a no-op, not an error.
func (s *PostgresTaskStore) RemoveReader(ctx context.Context, taskID, userID uuid.UUID) error {
	query := `DELETE FROM task_readers WHERE task_id = $1 AND user_id = $2`
	if _, err := s.db.ExecContext(ctx, query, taskID, userID); err != nil {
		return MapError(err)
	}
	return nil
}

// IsReader implements store.TaskStore.IsReader
func (s *PostgresTaskStore) IsReader(ctx context.Context, taskID, userID uuid.UUID) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM task_readers WHERE task_id = $1 AND user_id = $2)`
	var exists bool
	if err := s.db.QueryRowContext(ctx, query, taskID, userID).Scan(&exists); err != nil {
		return false, MapError(err)
	}
	return exists, nil
}

// WithTx implements store.TaskStore.WithTx
func (s *PostgresTaskStore) WithTx(tx *sql.Tx) store.TaskStore {
	return &PostgresTaskStore{
		db:     tx,
		logger: s.logger,
	}
}

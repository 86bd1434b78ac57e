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

// PostgresAgentResponseStore implements the store.AgentResponseStore
// interface using a PostgreSQL database as the storage backend.
type PostgresAgentResponseStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresAgentResponseStore creates a new PostgreSQL implementation of
// the AgentResponseStore interface.
func NewPostgresAgentResponseStore(db store.DBTX, logger *slog.Logger) *PostgresAgentResponseStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresAgentResponseStore{
		db:     db,
		logger: logger.With(slog.String("component", "agent_response_store")),
	}
}

// Ensure PostgresAgentResponseStore implements store.AgentResponseStore
var _ store.AgentResponseStore = (*PostgresAgentResponseStore)(nil)

// Create implements store.AgentResponseStore.Create
func (s *PostgresAgentResponseStore) Create(ctx context.Context, resp *domain.AgentResponse) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := resp.Validate(); err != nil {
		log.Warn("agent response validation failed during create",
			slog.String("error", err.Error()),
			slog.String("response_id", resp.ID.String()))
		return err
	}

	query := `
		INSERT INTO agent_responses (id, task_id, agent_type, response_data, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		resp.ID,
		resp.TaskID,
		resp.AgentType,
		resp.Text,
		resp.CreatedAt,
	)
	if err != nil {
		log.Error("failed to insert agent response",
			slog.String("error", err.Error()),
			slog.String("response_id", resp.ID.String()))
		return MapError(err)
	}

	return nil
}

// ListForTask implements store.AgentResponseStore.ListForTask
func (s *PostgresAgentResponseStore) ListForTask(
	ctx context.Context,
	taskID uuid.UUID,
) ([]*domain.AgentResponse, error) {
	query := `
		SELECT id, task_id, agent_type, response_data, created_at
		FROM agent_responses
		WHERE task_id = $1
		ORDER BY created_at DESC
	`
	rows, err := s.db.QueryContext(ctx, query, taskID)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	var responses []*domain.AgentResponse
	for rows.Next() {
		var resp domain.AgentResponse
		err := rows.Scan(
			&resp.ID,
			&resp.TaskID,
			&resp.AgentType,
			&resp.Text,
			&resp.CreatedAt,
		)
		if err != nil {
			return nil, MapError(err)
		}
		responses = append(responses, &resp)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return responses, nil
}

// WithTx implements store.AgentResponseStore.WithTx
func (s *PostgresAgentResponseStore) WithTx(tx *sql.Tx) store.AgentResponseStore {
	return &PostgresAgentResponseStore{
		db:     tx,
		logger: s.logger,
	}
}

package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/tasknest/tasknest/internal/domain"
)

// UserStore defines the interface for user data persistence.
type UserStore interface {
	// Create saves a new user to the store.
	// The user's HashedPassword must already be set; plaintext passwords
	// are never persisted.
	// Returns ErrEmailExists if the email is already taken.
	// Returns validation errors from the domain User if data is invalid.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by their unique ID.
	// Returns ErrUserNotFound if the user does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// GetByEmail retrieves a user by their email address.
	// Returns ErrUserNotFound if the user does not exist.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// WithTx returns a new UserStore instance that uses the provided
	// transaction. The transaction should be created and managed by the
	// caller (typically a service).
	WithTx(tx *sql.Tx) UserStore
}

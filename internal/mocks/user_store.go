package mocks

import (
	"context"
	"database/sql"
	"sync"

	"github.com/google/uuid"
	"github.com/tasknest/tasknest/internal/domain"
	"github.com/tasknest/tasknest/internal/store"
)

// MockUserStore implements store.UserStore for testing.
type MockUserStore struct {
	// Function fields for customizable behavior
	CreateFn     func(ctx context.Context, user *domain.User) error
	GetByIDFn    func(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmailFn func(ctx context.Context, email string) (*domain.User, error)

	// Users backs the default implementation, keyed by email.
	Users map[string]*domain.User

	mu sync.Mutex
}

var _ store.UserStore = (*MockUserStore)(nil)

// NewMockUserStore creates an empty MockUserStore.
func NewMockUserStore() *MockUserStore {
	return &MockUserStore{
		Users: make(map[string]*domain.User),
	}
}

// AddUser seeds the store with a user.
func (m *MockUserStore) AddUser(user *domain.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Users[user.Email] = user
}

// Create implements the UserStore interface.
func (m *MockUserStore) Create(ctx context.Context, user *domain.User) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, user)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.Users[user.Email]; exists {
		return store.ErrEmailExists
	}
	m.Users[user.Email] = user
	return nil
}

// GetByID implements the UserStore interface.
func (m *MockUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, user := range m.Users {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, store.ErrUserNotFound
}

// GetByEmail implements the UserStore interface.
func (m *MockUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.GetByEmailFn != nil {
		return m.GetByEmailFn(ctx, email)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	user, exists := m.Users[email]
	if !exists {
		return nil, store.ErrUserNotFound
	}
	return user, nil
}

// WithTx implements the UserStore interface. The mock has no transaction
// state, so it returns itself.
func (m *MockUserStore) WithTx(tx *sql.Tx) store.UserStore {
	return m
}

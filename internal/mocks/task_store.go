package mocks

import (
	"context"
	"database/sql"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/tasknest/tasknest/internal/domain"
	"github.com/tasknest/tasknest/internal/store"
)

// MockTaskStore implements store.TaskStore for testing. The default
// implementation keeps tasks and reader edges in memory.
type MockTaskStore struct {
	// Function fields for customizable behavior
	CreateFn           func(ctx context.Context, task *domain.Task) error
	GetByIDFn          func(ctx context.Context, id uuid.UUID) (*domain.Task, error)
	ListForUserFn      func(ctx context.Context, userID uuid.UUID, offset, limit int) ([]*domain.Task, error)
	UpdateFn           func(ctx context.Context, task *domain.Task) error
	DeleteFn           func(ctx context.Context, id uuid.UUID) error
	ListReadersFn      func(ctx context.Context, taskID uuid.UUID) ([]uuid.UUID, error)
	ListReaderEmailsFn func(ctx context.Context, taskID uuid.UUID) ([]string, error)
	AddReaderFn        func(ctx context.Context, taskID, userID uuid.UUID) error
	RemoveReaderFn     func(ctx context.Context, taskID, userID uuid.UUID) error
	IsReaderFn         func(ctx context.Context, taskID, userID uuid.UUID) (bool, error)

	// Tasks and Readers back the default implementation.
	Tasks   map[uuid.UUID]*domain.Task
	Readers map[uuid.UUID]map[uuid.UUID]struct{}

	// Emails resolves reader IDs to addresses for ListReaderEmails.
	Emails map[uuid.UUID]string

	mu sync.Mutex
}

var _ store.TaskStore = (*MockTaskStore)(nil)

// NewMockTaskStore creates an empty MockTaskStore.
func NewMockTaskStore() *MockTaskStore {
	return &MockTaskStore{
		Tasks:   make(map[uuid.UUID]*domain.Task),
		Readers: make(map[uuid.UUID]map[uuid.UUID]struct{}),
		Emails:  make(map[uuid.UUID]string),
	}
}

// AddTask seeds the store with a task.
func (m *MockTaskStore) AddTask(task *domain.Task) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Tasks[task.ID] = task
}

// Create implements the TaskStore interface.
func (m *MockTaskStore) Create(ctx context.Context, task *domain.Task) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, task)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Tasks[task.ID] = task
	return nil
}

// GetByID implements the TaskStore interface.
func (m *MockTaskStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	task, exists := m.Tasks[id]
	if !exists {
		return nil, store.ErrTaskNotFound
	}
	return task, nil
}

// ListForUser implements the TaskStore interface.
func (m *MockTaskStore) ListForUser(
	ctx context.Context,
	userID uuid.UUID,
	offset, limit int,
) ([]*domain.Task, error) {
	if m.ListForUserFn != nil {
		return m.ListForUserFn(ctx, userID, offset, limit)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	var visible []*domain.Task
	for _, task := range m.Tasks {
		if task.OwnerID == userID {
			visible = append(visible, task)
			continue
		}
		if readers, ok := m.Readers[task.ID]; ok {
			if _, isReader := readers[userID]; isReader {
				visible = append(visible, task)
			}
		}
	}
	sort.Slice(visible, func(i, j int) bool {
		return visible[i].CreatedAt.After(visible[j].CreatedAt)
	})

	if offset >= len(visible) {
		return nil, nil
	}
	visible = visible[offset:]
	if limit < len(visible) {
		visible = visible[:limit]
	}
	return visible, nil
}

// Update implements the TaskStore interface.
func (m *MockTaskStore) Update(ctx context.Context, task *domain.Task) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, task)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.Tasks[task.ID]; !exists {
		return store.ErrTaskNotFound
	}
	m.Tasks[task.ID] = task
	return nil
}

// Delete implements the TaskStore interface.
func (m *MockTaskStore) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.Tasks[id]; !exists {
		return store.ErrTaskNotFound
	}
	delete(m.Tasks, id)
	delete(m.Readers, id)
	return nil
}

// ListReaders implements the TaskStore interface.
func (m *MockTaskStore) ListReaders(ctx context.Context, taskID uuid.UUID) ([]uuid.UUID, error) {
	if m.ListReadersFn != nil {
		return m.ListReadersFn(ctx, taskID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]uuid.UUID, 0, len(m.Readers[taskID]))
	for id := range m.Readers[taskID] {
		ids = append(ids, id)
	}
	return ids, nil
}

// ListReaderEmails implements the TaskStore interface.
func (m *MockTaskStore) ListReaderEmails(ctx context.Context, taskID uuid.UUID) ([]string, error) {
	if m.ListReaderEmailsFn != nil {
		return m.ListReaderEmailsFn(ctx, taskID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	emails := make([]string, 0, len(m.Readers[taskID]))
	for id := range m.Readers[taskID] {
		if email, ok := m.Emails[id]; ok {
			emails = append(emails, email)
		}
	}
	sort.Strings(emails)
	return emails, nil
}

// AddReader implements the TaskStore interface.
func (m *MockTaskStore) AddReader(ctx context.Context, taskID, userID uuid.UUID) error {
	if m.AddReaderFn != nil {
		return m.AddReaderFn(ctx, taskID, userID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Readers[taskID] == nil {
		m.Readers[taskID] = make(map[uuid.UUID]struct{})
	}
	m.Readers[taskID][userID] = struct{}{}
	return nil
}

// RemoveReader implements the TaskStore interface.
func (m *MockTaskStore) RemoveReader(ctx context.Context, taskID, userID uuid.UUID) error {
	if m.RemoveReaderFn != nil {
		return m.RemoveReaderFn(ctx, taskID, userID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.Readers[taskID], userID)
	return nil
}

// IsReader implements the TaskStore interface.
func (m *MockTaskStore) IsReader(ctx context.Context, taskID, userID uuid.UUID) (bool, error) {
	if m.IsReaderFn != nil {
		return m.IsReaderFn(ctx, taskID, userID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	_, isReader := m.Readers[taskID][userID]
	return isReader, nil
}

// WithTx implements the TaskStore interface.
func (m *MockTaskStore) WithTx(tx *sql.Tx) store.TaskStore {
	return m
}

package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tasknest/tasknest/internal/domain"
	"github.com/tasknest/tasknest/internal/mocks"
	"github.com/tasknest/tasknest/internal/service"
	"github.com/tasknest/tasknest/internal/service/sharing"
	"github.com/tasknest/tasknest/internal/store"
	"github.com/tasknest/tasknest/internal/ws"
)

// fixture bundles a TaskService with its backing mocks and a seeded owner,
// reader, and stranger.
type fixture struct {
	svc         *service.TaskService
	taskStore   *mocks.MockTaskStore
	userStore   *mocks.MockUserStore
	broadcaster *mocks.MockBroadcaster
	owner       *domain.User
	reader      *domain.User
	stranger    *domain.User
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	taskStore := mocks.NewMockTaskStore()
	userStore := mocks.NewMockUserStore()
	broadcaster := &mocks.MockBroadcaster{}

	newUser := func(name, email string) *domain.User {
		user, err := domain.NewUser(name, email, "password123")
		require.NoError(t, err)
		user.HashedPassword = "hash"
		user.Password = ""
		userStore.AddUser(user)
		return user
	}

	f := &fixture{
		taskStore:   taskStore,
		userStore:   userStore,
		broadcaster: broadcaster,
		owner:       newUser("Olive Owner", "owner@example.com"),
		reader:      newUser("Rita Reader", "reader@example.com"),
		stranger:    newUser("Sam Stranger", "stranger@example.com"),
	}
	f.svc = service.NewTaskService(taskStore, userStore, sharing.NewService(taskStore), broadcaster, nil)
	return f
}

// seedTask creates a task owned by the fixture owner with the fixture
// reader granted access.
func (f *fixture) seedTask(t *testing.T) *domain.Task {
	t.Helper()
	task, err := domain.NewTask(f.owner.ID, "Write report", "Quarterly figures")
	require.NoError(t, err)
	f.taskStore.AddTask(task)
	ctx := context.Background()
	require.NoError(t, f.taskStore.AddReader(ctx, task.ID, f.reader.ID))
	f.taskStore.Emails[f.reader.ID] = f.reader.Email
	return task
}

func TestTaskServiceCreate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	deadline := time.Now().UTC().Add(72 * time.Hour)
	view, err := f.svc.Create(ctx, f.owner.ID, service.CreateTaskInput{
		Title:    "Write report",
		Priority: domain.PriorityHigh,
		Deadline: &deadline,
	})
	require.NoError(t, err)

	assert.Equal(t, "Write report", view.Title)
	assert.Equal(t, domain.PriorityHigh, view.Priority)
	assert.Equal(t, domain.StatusPending, view.Status, "status falls back to default")
	require.NotNil(t, view.Deadline)
	assert.Equal(t, f.owner.ID, view.OwnerID)
	assert.Equal(t, f.owner.Name, view.OwnerName)
	assert.Empty(t, view.ReaderEmails)
	assert.NotNil(t, view.ReaderEmails, "reader emails serialize as an empty list, not null")

	assert.Empty(t, f.broadcaster.CallsSnapshot(), "creation notifies nobody, the task has no readers yet")
}

func TestTaskServiceCreateValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, f.owner.ID, service.CreateTaskInput{Title: ""})
	assert.ErrorIs(t, err, domain.ErrEmptyTitle)

	_, err = f.svc.Create(ctx, f.owner.ID, service.CreateTaskInput{
		Title:    "Write report",
		Priority: domain.TaskPriority("Urgent"),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidPriority)
}

func TestTaskServiceGet(t *testing.T) {
	f := newFixture(t)
	task := f.seedTask(t)
	ctx := context.Background()

	t.Run("owner", func(t *testing.T) {
		view, err := f.svc.Get(ctx, f.owner.ID, task.ID)
		require.NoError(t, err)
		assert.Equal(t, task.ID, view.ID)
		assert.Equal(t, []string{f.reader.Email}, view.ReaderEmails)
	})

	t.Run("reader", func(t *testing.T) {
		view, err := f.svc.Get(ctx, f.reader.ID, task.ID)
		require.NoError(t, err)
		assert.Equal(t, task.ID, view.ID)
	})

	t.Run("stranger", func(t *testing.T) {
		_, err := f.svc.Get(ctx, f.stranger.ID, task.ID)
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("unknown task", func(t *testing.T) {
		_, err := f.svc.Get(ctx, f.owner.ID, uuid.New())
		assert.ErrorIs(t, err, store.ErrTaskNotFound)
	})
}

func TestTaskServiceList(t *testing.T) {
	f := newFixture(t)
	f.seedTask(t)
	ctx := context.Background()

	ownerList, err := f.svc.List(ctx, f.owner.ID, 0, 100)
	require.NoError(t, err)
	require.Len(t, ownerList, 1)
	assert.Equal(t, f.owner.Email, ownerList[0].OwnerEmail)

	readerList, err := f.svc.List(ctx, f.reader.ID, 0, 100)
	require.NoError(t, err)
	assert.Len(t, readerList, 1, "shared tasks appear in the reader's list")

	strangerList, err := f.svc.List(ctx, f.stranger.ID, 0, 100)
	require.NoError(t, err)
	assert.Empty(t, strangerList)
}

func TestTaskServiceUpdate(t *testing.T) {
	f := newFixture(t)
	task := f.seedTask(t)
	ctx := context.Background()

	newStatus := domain.StatusCompleted
	view, err := f.svc.Update(ctx, f.owner.ID, task.ID, domain.TaskPatch{Status: &newStatus})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, view.Status)

	calls := f.broadcaster.CallsSnapshot()
	require.Len(t, calls, 1)
	assert.ElementsMatch(t, []uuid.UUID{f.reader.ID}, calls[0].Recipients,
		"readers are notified, the owner is not")

	updated, ok := calls[0].Event.(ws.TaskUpdated)
	require.True(t, ok)
	assert.Equal(t, view, updated.Task)
}

func TestTaskServiceUpdateForbidden(t *testing.T) {
	f := newFixture(t)
	task := f.seedTask(t)
	ctx := context.Background()

	newStatus := domain.StatusCompleted
	for _, userID := range []uuid.UUID{f.reader.ID, f.stranger.ID} {
		_, err := f.svc.Update(ctx, userID, task.ID, domain.TaskPatch{Status: &newStatus})
		assert.ErrorIs(t, err, domain.ErrForbidden)
	}
	assert.Empty(t, f.broadcaster.CallsSnapshot())
}

func TestTaskServiceDelete(t *testing.T) {
	f := newFixture(t)
	task := f.seedTask(t)
	ctx := context.Background()

	// The deletion event must go out while the reader set is still
	// queryable, so the broadcast has to precede the row delete.
	f.taskStore.DeleteFn = func(ctx context.Context, id uuid.UUID) error {
		require.NotEmpty(t, f.broadcaster.CallsSnapshot(),
			"readers must be informed before the row goes away")
		f.taskStore.DeleteFn = nil
		return f.taskStore.Delete(ctx, id)
	}

	require.NoError(t, f.svc.Delete(ctx, f.owner.ID, task.ID))

	_, err := f.taskStore.GetByID(ctx, task.ID)
	assert.ErrorIs(t, err, store.ErrTaskNotFound)

	readers, err := f.taskStore.ListReaders(ctx, task.ID)
	require.NoError(t, err)
	assert.Empty(t, readers, "reader edges must go with the task")

	calls := f.broadcaster.CallsSnapshot()
	require.Len(t, calls, 1)
	assert.ElementsMatch(t, []uuid.UUID{f.reader.ID}, calls[0].Recipients)
	deleted, ok := calls[0].Event.(ws.TaskDeleted)
	require.True(t, ok)
	assert.Equal(t, task.ID, deleted.TaskID)
}

func TestTaskServiceDeleteForbidden(t *testing.T) {
	f := newFixture(t)
	task := f.seedTask(t)
	ctx := context.Background()

	assert.ErrorIs(t, f.svc.Delete(ctx, f.reader.ID, task.ID), domain.ErrForbidden)
	assert.ErrorIs(t, f.svc.Delete(ctx, f.stranger.ID, task.ID), domain.ErrForbidden)

	_, err := f.taskStore.GetByID(ctx, task.ID)
	assert.NoError(t, err, "task survives forbidden delete attempts")
	assert.Empty(t, f.broadcaster.CallsSnapshot())
}

func TestTaskServiceAddReader(t *testing.T) {
	f := newFixture(t)
	task := f.seedTask(t)
	ctx := context.Background()
	f.taskStore.Emails[f.stranger.ID] = f.stranger.Email

	view, err := f.svc.AddReader(ctx, f.owner.ID, task.ID, f.stranger.Email)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{f.reader.Email, f.stranger.Email}, view.ReaderEmails)

	calls := f.broadcaster.CallsSnapshot()
	require.Len(t, calls, 1)
	assert.ElementsMatch(t, []uuid.UUID{f.reader.ID, f.stranger.ID}, calls[0].Recipients,
		"the new reader is part of the notified set")
}

func TestTaskServiceAddReaderErrors(t *testing.T) {
	f := newFixture(t)
	task := f.seedTask(t)
	ctx := context.Background()

	t.Run("unknown email", func(t *testing.T) {
		_, err := f.svc.AddReader(ctx, f.owner.ID, task.ID, "nobody@example.com")
		assert.ErrorIs(t, err, store.ErrUserNotFound)
	})

	t.Run("non-owner caller", func(t *testing.T) {
		_, err := f.svc.AddReader(ctx, f.reader.ID, task.ID, f.stranger.Email)
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})
}

func TestTaskServiceRemoveReader(t *testing.T) {
	ctx := context.Background()

	t.Run("owner removes reader", func(t *testing.T) {
		f := newFixture(t)
		task := f.seedTask(t)

		// Second reader so the remaining set is non-empty.
		second, err := domain.NewUser("Second Reader", "second@example.com", "password123")
		require.NoError(t, err)
		second.HashedPassword = "hash"
		f.userStore.AddUser(second)
		require.NoError(t, f.taskStore.AddReader(ctx, task.ID, second.ID))
		f.taskStore.Emails[second.ID] = second.Email

		view, err := f.svc.RemoveReader(ctx, f.owner.ID, task.ID, f.reader.Email)
		require.NoError(t, err)
		assert.Equal(t, []string{second.Email}, view.ReaderEmails)

		calls := f.broadcaster.CallsSnapshot()
		require.Len(t, calls, 2)

		// Remaining readers see an update.
		updated, ok := calls[0].Event.(ws.TaskUpdated)
		require.True(t, ok)
		assert.Equal(t, view, updated.Task)
		assert.ElementsMatch(t, []uuid.UUID{second.ID}, calls[0].Recipients)

		// The removed reader sees the task disappear.
		deleted, ok := calls[1].Event.(ws.TaskDeleted)
		require.True(t, ok)
		assert.Equal(t, task.ID, deleted.TaskID)
		assert.Equal(t, []uuid.UUID{f.reader.ID}, calls[1].Recipients)
	})

	t.Run("reader removes themself", func(t *testing.T) {
		f := newFixture(t)
		task := f.seedTask(t)

		_, err := f.svc.RemoveReader(ctx, f.reader.ID, task.ID, f.reader.Email)
		require.NoError(t, err)

		isReader, err := f.taskStore.IsReader(ctx, task.ID, f.reader.ID)
		require.NoError(t, err)
		assert.False(t, isReader)
	})

	t.Run("stranger cannot remove", func(t *testing.T) {
		f := newFixture(t)
		task := f.seedTask(t)

		_, err := f.svc.RemoveReader(ctx, f.stranger.ID, task.ID, f.reader.Email)
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("removing a non-reader skips notifications", func(t *testing.T) {
		f := newFixture(t)
		task := f.seedTask(t)

		view, err := f.svc.RemoveReader(ctx, f.owner.ID, task.ID, f.stranger.Email)
		require.NoError(t, err)
		assert.Equal(t, task.ID, view.ID)
		assert.Empty(t, f.broadcaster.CallsSnapshot())
	})
}

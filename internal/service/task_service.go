package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/tasknest/tasknest/internal/domain"
	"github.com/tasknest/tasknest/internal/platform/logger"
	"github.com/tasknest/tasknest/internal/service/sharing"
	"github.com/tasknest/tasknest/internal/store"
	"github.com/tasknest/tasknest/internal/ws"
)

// EventBroadcaster pushes an event to the live connections of the given
// recipients. Implemented by ws.Dispatcher; delivery is best-effort and
// Broadcast never reports an error to the mutation path.
type EventBroadcaster interface {
	Broadcast(ctx context.Context, recipients []uuid.UUID, event any)
}

// CreateTaskInput carries the fields for creating a task. Priority and
// Status fall back to their domain defaults when empty.
type CreateTaskInput struct {
	Title       string
	Description string
	Priority    domain.TaskPriority
	Status      domain.TaskStatus
	Deadline    *time.Time
}

// TaskView is the full task payload returned to clients and pushed over
// live connections on updates.
type TaskView struct {
	ID           uuid.UUID           `json:"id"`
	Title        string              `json:"title"`
	Description  string              `json:"description"`
	Priority     domain.TaskPriority `json:"priority"`
	Status       domain.TaskStatus   `json:"status"`
	Deadline     *time.Time          `json:"deadline"`
	CreatedAt    time.Time           `json:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at"`
	OwnerID      uuid.UUID           `json:"owner_id"`
	OwnerName    string              `json:"owner_name"`
	OwnerEmail   string              `json:"owner_email"`
	ReaderEmails []string            `json:"reader_emails"`
}

// TaskSummary is the reduced payload returned by the list endpoint.
type TaskSummary struct {
	ID         uuid.UUID           `json:"id"`
	Title      string              `json:"title"`
	Priority   domain.TaskPriority `json:"priority"`
	Status     domain.TaskStatus   `json:"status"`
	Deadline   *time.Time          `json:"deadline"`
	OwnerID    uuid.UUID           `json:"owner_id"`
	OwnerName  string              `json:"owner_name"`
	OwnerEmail string              `json:"owner_email"`
}

// TaskService orchestrates task CRUD and sharing over the stores, applying
// the sharing model's authorization rules and notifying live connections
// after each committed change.
type TaskService struct {
	tasks       store.TaskStore
	users       store.UserStore
	sharing     *sharing.Service
	broadcaster EventBroadcaster
	logger      *slog.Logger
}

// NewTaskService creates a TaskService with the given dependencies.
func NewTaskService(
	tasks store.TaskStore,
	users store.UserStore,
	sharingService *sharing.Service,
	broadcaster EventBroadcaster,
	logger *slog.Logger,
) *TaskService {
	if logger == nil {
		logger = slog.Default()
	}
	return &TaskService{
		tasks:       tasks,
		users:       users,
		sharing:     sharingService,
		broadcaster: broadcaster,
		logger:      logger.With(slog.String("component", "task_service")),
	}
}

// Create creates a new task owned by the given user.
func (s *TaskService) Create(ctx context.Context, ownerID uuid.UUID, input CreateTaskInput) (*TaskView, error) {
	task, err := domain.NewTask(ownerID, input.Title, input.Description)
	if err != nil {
		return nil, err
	}
	if input.Priority != "" {
		task.Priority = input.Priority
	}
	if input.Status != "" {
		task.Status = input.Status
	}
	task.Deadline = input.Deadline
	if err := task.Validate(); err != nil {
		return nil, err
	}

	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, err
	}

	return s.buildView(ctx, task)
}

// Get returns the task if the user is its owner or a reader.
// Returns store.ErrTaskNotFound or domain.ErrForbidden otherwise.
func (s *TaskService) Get(ctx context.Context, userID, taskID uuid.UUID) (*TaskView, error) {
	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}

	canRead, err := s.sharing.CanRead(ctx, task, userID)
	if err != nil {
		return nil, err
	}
	if !canRead {
		return nil, domain.ErrForbidden
	}

	return s.buildView(ctx, task)
}

// List returns summaries of the tasks the user owns or reads.
func (s *TaskService) List(ctx context.Context, userID uuid.UUID, offset, limit int) ([]*TaskSummary, error) {
	tasks, err := s.tasks.ListForUser(ctx, userID, offset, limit)
	if err != nil {
		return nil, err
	}

	// Owners repeat across tasks; resolve each one once.
	owners := make(map[uuid.UUID]*domain.User)
	summaries := make([]*TaskSummary, 0, len(tasks))
	for _, task := range tasks {
		owner, ok := owners[task.OwnerID]
		if !ok {
			owner, err = s.users.GetByID(ctx, task.OwnerID)
			if err != nil {
				return nil, err
			}
			owners[task.OwnerID] = owner
		}
		summaries = append(summaries, &TaskSummary{
			ID:         task.ID,
			Title:      task.Title,
			Priority:   task.Priority,
			Status:     task.Status,
			Deadline:   task.Deadline,
			OwnerID:    task.OwnerID,
			OwnerName:  owner.Name,
			OwnerEmail: owner.Email,
		})
	}

	return summaries, nil
}

// Update applies the patch to the task and notifies the task's readers.
// Only the owner may update; readers get domain.ErrForbidden.
func (s *TaskService) Update(
	ctx context.Context,
	userID, taskID uuid.UUID,
	patch domain.TaskPatch,
) (*TaskView, error) {
	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if !s.sharing.CanWrite(task, userID) {
		return nil, domain.ErrForbidden
	}

	if err := patch.Apply(task); err != nil {
		return nil, err
	}
	if err := s.tasks.Update(ctx, task); err != nil {
		return nil, err
	}

	view, err := s.buildView(ctx, task)
	if err != nil {
		return nil, err
	}

	s.notifyUpdated(ctx, task.ID, view)
	return view, nil
}

// Delete removes the task. Only the owner may delete. The reader set is
// informed before the row goes away, since computing it requires the row
// to still exist.
func (s *TaskService) Delete(ctx context.Context, userID, taskID uuid.UUID) error {
	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return err
	}
	if !s.sharing.CanWrite(task, userID) {
		return domain.ErrForbidden
	}

	recipients, err := s.sharing.Recipients(ctx, task.ID)
	if err != nil {
		s.logger.Error("failed to compute recipients before delete",
			"error", err,
			"task_id", task.ID)
		recipients = nil
	}
	s.broadcaster.Broadcast(ctx, recipients, ws.NewTaskDeleted(task.ID))

	return s.tasks.Delete(ctx, task.ID)
}

// AddReader grants the user with the given email read access to the task
// and notifies the reader set, which now includes the new reader.
// Returns store.ErrUserNotFound if no such user exists.
func (s *TaskService) AddReader(
	ctx context.Context,
	callerID, taskID uuid.UUID,
	readerEmail string,
) (*TaskView, error) {
	reader, err := s.users.GetByEmail(ctx, readerEmail)
	if err != nil {
		return nil, err
	}
	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}

	if err := s.sharing.AddReader(ctx, task, callerID, reader.ID); err != nil {
		return nil, err
	}

	view, err := s.buildView(ctx, task)
	if err != nil {
		return nil, err
	}

	s.notifyUpdated(ctx, task.ID, view)
	return view, nil
}

// RemoveReader revokes the user's read access. The removed user is sent a
// deletion event (from their view the task has disappeared, even though it
// still exists for the owner) while remaining readers get a normal update.
// A reader may remove themself; otherwise only the owner may remove.
func (s *TaskService) RemoveReader(
	ctx context.Context,
	callerID, taskID uuid.UUID,
	readerEmail string,
) (*TaskView, error) {
	reader, err := s.users.GetByEmail(ctx, readerEmail)
	if err != nil {
		return nil, err
	}
	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}

	// Non-owners must at least see the task to operate on it.
	canRead, err := s.sharing.CanRead(ctx, task, callerID)
	if err != nil {
		return nil, err
	}
	if !canRead {
		return nil, domain.ErrForbidden
	}

	isReader, err := s.tasks.IsReader(ctx, task.ID, reader.ID)
	if err != nil {
		return nil, err
	}
	if !isReader {
		// Nothing to revoke; skip the mutation and the notifications.
		return s.buildView(ctx, task)
	}

	if err := s.sharing.RemoveReader(ctx, task, callerID, reader.ID); err != nil {
		return nil, err
	}

	view, err := s.buildView(ctx, task)
	if err != nil {
		return nil, err
	}

	s.notifyUpdated(ctx, task.ID, view)
	s.broadcaster.Broadcast(ctx, []uuid.UUID{reader.ID}, ws.NewTaskDeleted(task.ID))
	return view, nil
}

// notifyUpdated pushes a task.updated event to the task's current readers.
// Recipient computation failures downgrade to a log line; the mutation has
// already been committed and notification is best-effort.
func (s *TaskService) notifyUpdated(ctx context.Context, taskID uuid.UUID, view *TaskView) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	recipients, err := s.sharing.Recipients(ctx, taskID)
	if err != nil {
		log.Error("failed to compute recipients, skipping notification",
			"error", err,
			"task_id", taskID)
		return
	}
	s.broadcaster.Broadcast(ctx, recipients, ws.NewTaskUpdated(view))
}

// buildView assembles the full task payload, resolving the owner and the
// reader emails.
func (s *TaskService) buildView(ctx context.Context, task *domain.Task) (*TaskView, error) {
	owner, err := s.users.GetByID(ctx, task.OwnerID)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, NewTaskServiceError("build_view", "task owner missing", err)
		}
		return nil, err
	}

	readerEmails, err := s.tasks.ListReaderEmails(ctx, task.ID)
	if err != nil {
		return nil, err
	}
	if readerEmails == nil {
		readerEmails = []string{}
	}

	return &TaskView{
		ID:           task.ID,
		Title:        task.Title,
		Description:  task.Description,
		Priority:     task.Priority,
		Status:       task.Status,
		Deadline:     task.Deadline,
		CreatedAt:    task.CreatedAt,
		UpdatedAt:    task.UpdatedAt,
		OwnerID:      task.OwnerID,
		OwnerName:    owner.Name,
		OwnerEmail:   owner.Email,
		ReaderEmails: readerEmails,
	}, nil
}

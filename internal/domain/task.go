package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Common task validation errors
var (
	ErrEmptyTaskID     = errors.New("task ID cannot be empty")
	ErrEmptyTitle      = errors.New("title cannot be empty")
	ErrTitleTooLong    = errors.New("title must be at most 100 characters long")
	ErrDescriptionLong = errors.New("description must be at most 5000 characters long")
	ErrEmptyOwnerID    = errors.New("owner ID cannot be empty")
	ErrInvalidPriority = errors.New("invalid task priority")
	ErrInvalidStatus   = errors.New("invalid task status")
)

// TaskPriority indicates the relative importance of a task.
type TaskPriority string

// Valid task priorities.
const (
	PriorityHigh   TaskPriority = "High"
	PriorityMedium TaskPriority = "Medium"
	PriorityLow    TaskPriority = "Low"
)

// IsValid reports whether the priority is one of the known values.
func (p TaskPriority) IsValid() bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	}
	return false
}

// TaskStatus indicates the progress state of a task.
type TaskStatus string

// Valid task statuses.
const (
	StatusPending    TaskStatus = "Pending"
	StatusInProgress TaskStatus = "In Progress"
	StatusCompleted  TaskStatus = "Completed"
)

// IsValid reports whether the status is one of the known values.
func (s TaskStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// Task represents a unit of work owned by exactly one user.
// Ownership is set at creation and never transfers. A task additionally
// carries a set of reader users with read-only visibility, stored as
// edges in the task_readers table and not embedded here.
type Task struct {
	ID          uuid.UUID    `json:"id"`
	OwnerID     uuid.UUID    `json:"owner_id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Priority    TaskPriority `json:"priority"`
	Status      TaskStatus   `json:"status"`
	Deadline    *time.Time   `json:"deadline,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// NewTask creates a new Task owned by the given user.
// Priority defaults to Medium and status to Pending when left empty.
// Returns an error if validation fails.
func NewTask(ownerID uuid.UUID, title, description string) (*Task, error) {
	now := time.Now().UTC()
	task := &Task{
		ID:          uuid.New(),
		OwnerID:     ownerID,
		Title:       title,
		Description: description,
		Priority:    PriorityMedium,
		Status:      StatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	return task, nil
}

// Validate checks if the Task has valid data.
// Returns an error if any field fails validation.
func (t *Task) Validate() error {
	if t.ID == uuid.Nil {
		return ErrEmptyTaskID
	}
	if t.OwnerID == uuid.Nil {
		return ErrEmptyOwnerID
	}
	if t.Title == "" {
		return ErrEmptyTitle
	}
	if len(t.Title) > 100 {
		return ErrTitleTooLong
	}
	if len(t.Description) > 5000 {
		return ErrDescriptionLong
	}
	if !t.Priority.IsValid() {
		return ErrInvalidPriority
	}
	if !t.Status.IsValid() {
		return ErrInvalidStatus
	}
	return nil
}

// TaskPatch carries an explicit partial update for a task. Nil fields are
// left untouched; only the fields the client actually set are applied.
// Deadline uses a double pointer so a patch can distinguish "leave the
// deadline alone" (nil) from "clear the deadline" (pointer to nil).
type TaskPatch struct {
	Title       *string
	Description *string
	Priority    *TaskPriority
	Status      *TaskStatus
	Deadline    **time.Time
}

// IsEmpty reports whether the patch changes nothing.
func (p *TaskPatch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.Priority == nil &&
		p.Status == nil && p.Deadline == nil
}

// Apply merges the patch into the task field by field and refreshes the
// update timestamp. The task is re-validated afterwards; on validation
// failure the task is left modified and the caller should discard it.
func (p *TaskPatch) Apply(task *Task) error {
	if p.Title != nil {
		task.Title = *p.Title
	}
	if p.Description != nil {
		task.Description = *p.Description
	}
	if p.Priority != nil {
		task.Priority = *p.Priority
	}
	if p.Status != nil {
		task.Status = *p.Status
	}
	if p.Deadline != nil {
		task.Deadline = *p.Deadline
	}
	task.UpdatedAt = time.Now().UTC()

	return task.Validate()
}

package ws

import "github.com/google/uuid"

// Event names on the wire.
const (
	eventTaskUpdated = "task.updated"
	eventTaskDeleted = "task.deleted"
)

// TaskUpdated is the wire message sent when a task a user can read changes.
// Task carries the full serialized task state as the API layer renders it.
type TaskUpdated struct {
	Event string `json:"event"`
	Task  any    `json:"task"`
}

// NewTaskUpdated builds a task.updated event around the given payload.
func NewTaskUpdated(task any) TaskUpdated {
	return TaskUpdated{Event: eventTaskUpdated, Task: task}
}

// TaskDeleted is the wire message sent when a task disappears from a user's
// view, either because it was deleted or because their visibility was
// revoked.
type TaskDeleted struct {
	Event  string    `json:"event"`
	TaskID uuid.UUID `json:"task_id"`
}

// NewTaskDeleted builds a task.deleted event for the given task ID.
func NewTaskDeleted(taskID uuid.UUID) TaskDeleted {
	return TaskDeleted{Event: eventTaskDeleted, TaskID: taskID}
}

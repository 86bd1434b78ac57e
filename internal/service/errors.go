package service

import "fmt"

// TaskServiceError is a custom error type for unexpected task service
// failures. Expected conditions (not found, forbidden) use the sentinel
// errors from the store and domain packages instead, which the API layer
// maps to HTTP status codes with errors.Is.
type TaskServiceError struct {
	Operation string
	Message   string
	Err       error
}

// Error implements the error interface for TaskServiceError.
func (e *TaskServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("task service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("task service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *TaskServiceError) Unwrap() error {
	return e.Err
}

// NewTaskServiceError creates a new TaskServiceError.
func NewTaskServiceError(operation, message string, err error) *TaskServiceError {
	return &TaskServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}

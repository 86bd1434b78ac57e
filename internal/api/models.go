package api

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Common request/response structures

// RegisterRequest defines the payload for the user registration endpoint.
type RegisterRequest struct {
	Name     string `json:"name"     validate:"required,min=1,max=100"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// LoginRequest defines the payload for the user login endpoint.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=1"`
}

// AuthResponse defines the successful response for authentication endpoints.
type AuthResponse struct {
	UserID uuid.UUID `json:"user_id"`

	// AccessToken authorizes API and WebSocket access until ExpiresAt.
	AccessToken string `json:"access_token"`

	// RefreshToken is used to obtain new token pairs.
	RefreshToken string `json:"refresh_token"`

	// ExpiresAt is the ISO 8601 timestamp when the access token expires.
	ExpiresAt string `json:"expires_at,omitempty"`
}

// RefreshTokenRequest defines the payload for the token refresh endpoint.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// UserResponse is the public view of a user account.
type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	IsAdmin   bool      `json:"is_admin"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateTaskRequest defines the payload for creating a task. Priority and
// Status default to "Medium" and "Pending" when omitted.
type CreateTaskRequest struct {
	Title       string     `json:"title"       validate:"required,min=1,max=100"`
	Description string     `json:"description" validate:"max=5000"`
	Priority    string     `json:"priority"    validate:"omitempty,oneof=High Medium Low"`
	Status      string     `json:"status"      validate:"omitempty,oneof=Pending 'In Progress' Completed"`
	Deadline    *time.Time `json:"deadline"`
}

// UpdateTaskRequest defines the payload for updating a task. All fields are
// optional; omitted fields leave the task unchanged. Sending "deadline":
// null clears the deadline, which is why presence is tracked separately
// from the value.
type UpdateTaskRequest struct {
	Title       *string    `json:"title"       validate:"omitempty,min=1,max=100"`
	Description *string    `json:"description" validate:"omitempty,max=5000"`
	Priority    *string    `json:"priority"    validate:"omitempty,oneof=High Medium Low"`
	Status      *string    `json:"status"      validate:"omitempty,oneof=Pending 'In Progress' Completed"`
	Deadline    *time.Time `json:"deadline"`

	deadlineSet bool
}

// UnmarshalJSON records whether the deadline key was present, so a null
// deadline (clear it) can be told apart from an absent one (keep it).
func (req *UpdateTaskRequest) UnmarshalJSON(data []byte) error {
	type alias UpdateTaskRequest
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*req = UpdateTaskRequest(a)

	var keys map[string]json.RawMessage
	if err := json.Unmarshal(data, &keys); err != nil {
		return err
	}
	_, req.deadlineSet = keys["deadline"]
	return nil
}

// DeadlineSet reports whether the request body carried a deadline key.
func (req *UpdateTaskRequest) DeadlineSet() bool {
	return req.deadlineSet
}

// AgentResponseView is the response payload for the agent endpoints.
type AgentResponseView struct {
	ID        uuid.UUID `json:"id"`
	TaskID    uuid.UUID `json:"task_id"`
	AgentType string    `json:"agent_type"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

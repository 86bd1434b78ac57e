package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Agent response validation errors
var (
	ErrEmptyResponseID   = errors.New("agent response ID cannot be empty")
	ErrEmptyResponseText = errors.New("agent response text cannot be empty")
	ErrInvalidAgentType  = errors.New("invalid agent type")
)

// AgentType identifies which agent produced a response.
type AgentType string

// Known agent types.
const (
	AgentAnalyzer  AgentType = "TaskAnalyzer"
	AgentAssistant AgentType = "ProductivityAssistant"
)

// IsValid reports whether the agent type is one of the known values.
func (a AgentType) IsValid() bool {
	return a == AgentAnalyzer || a == AgentAssistant
}

// AgentResponse is a persisted piece of generated text attached to a task.
type AgentResponse struct {
	ID        uuid.UUID `json:"id"`
	TaskID    uuid.UUID `json:"task_id"`
	AgentType AgentType `json:"agent_type"`
	Text      string    `json:"response_data"`
	CreatedAt time.Time `json:"created_at"`
}

// NewAgentResponse creates a new AgentResponse for the given task.
// Returns an error if validation fails.
func NewAgentResponse(taskID uuid.UUID, agentType AgentType, text string) (*AgentResponse, error) {
	resp := &AgentResponse{
		ID:        uuid.New(),
		TaskID:    taskID,
		AgentType: agentType,
		Text:      text,
		CreatedAt: time.Now().UTC(),
	}

	if err := resp.Validate(); err != nil {
		return nil, err
	}

	return resp, nil
}

// Validate checks if the AgentResponse has valid data.
func (r *AgentResponse) Validate() error {
	if r.ID == uuid.Nil {
		return ErrEmptyResponseID
	}
	if r.TaskID == uuid.Nil {
		return ErrEmptyTaskID
	}
	if !r.AgentType.IsValid() {
		return ErrInvalidAgentType
	}
	if r.Text == "" {
		return ErrEmptyResponseText
	}
	return nil
}

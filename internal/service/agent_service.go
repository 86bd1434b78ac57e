package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/tasknest/tasknest/internal/domain"
	"github.com/tasknest/tasknest/internal/service/sharing"
	"github.com/tasknest/tasknest/internal/store"
)

// TextGenerator produces agent response text for a task. The production
// implementation calls the Gemini API; the default heuristic implementation
// keeps local development and tests self-contained.
type TextGenerator interface {
	Generate(ctx context.Context, agentType domain.AgentType, task *domain.Task) (string, error)
}

// AgentService runs the analyzer and productivity-assistant agents against
// a task and persists their responses.
type AgentService struct {
	tasks     store.TaskStore
	responses store.AgentResponseStore
	sharing   *sharing.Service
	generator TextGenerator
	logger    *slog.Logger
}

// NewAgentService creates an AgentService with the given dependencies.
func NewAgentService(
	tasks store.TaskStore,
	responses store.AgentResponseStore,
	sharingService *sharing.Service,
	generator TextGenerator,
	logger *slog.Logger,
) *AgentService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AgentService{
		tasks:     tasks,
		responses: responses,
		sharing:   sharingService,
		generator: generator,
		logger:    logger.With(slog.String("component", "agent_service")),
	}
}

// Analyze runs the analyzer agent over the task and persists the result.
// Only the task's owner may invoke agents.
func (s *AgentService) Analyze(ctx context.Context, userID, taskID uuid.UUID) (*domain.AgentResponse, error) {
	return s.run(ctx, userID, taskID, domain.AgentAnalyzer)
}

// Assist runs the productivity assistant over the task and persists the
// result. Only the task's owner may invoke agents.
func (s *AgentService) Assist(ctx context.Context, userID, taskID uuid.UUID) (*domain.AgentResponse, error) {
	return s.run(ctx, userID, taskID, domain.AgentAssistant)
}

func (s *AgentService) run(
	ctx context.Context,
	userID, taskID uuid.UUID,
	agentType domain.AgentType,
) (*domain.AgentResponse, error) {
	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if !s.sharing.CanWrite(task, userID) {
		return nil, domain.ErrForbidden
	}

	text, err := s.generator.Generate(ctx, agentType, task)
	if err != nil {
		return nil, NewTaskServiceError("agent", "text generation failed", err)
	}

	resp, err := domain.NewAgentResponse(task.ID, agentType, text)
	if err != nil {
		return nil, err
	}
	if err := s.responses.Create(ctx, resp); err != nil {
		return nil, err
	}

	return resp, nil
}

// HeuristicGenerator implements TextGenerator without any external service.
// The heuristics mirror what the real agents produce in shape, which is
// enough for development and for deployments without an API key.
type HeuristicGenerator struct{}

// NewHeuristicGenerator creates the built-in generator.
func NewHeuristicGenerator() *HeuristicGenerator {
	return &HeuristicGenerator{}
}

var _ TextGenerator = (*HeuristicGenerator)(nil)

// Generate implements TextGenerator.
func (g *HeuristicGenerator) Generate(
	_ context.Context,
	agentType domain.AgentType,
	task *domain.Task,
) (string, error) {
	switch agentType {
	case domain.AgentAnalyzer:
		// Word count as a rough complexity proxy.
		length := len(strings.Fields(task.Description))
		complexity := "Low"
		days := 3
		if length > 200 {
			complexity = "High"
			days = 14
		} else if length > 80 {
			complexity = "Medium"
			days = 7
		}
		return fmt.Sprintf(
			"Analysis: complexity=%s; suggested_deadline_in_days=%d; recommended_priority=%s",
			complexity, days, task.Priority,
		), nil
	case domain.AgentAssistant:
		tips := []string{
			"Clarify acceptance criteria",
			"Split into small subtasks",
			"Estimate each subtask",
			"Block calendar time",
			"Review progress daily",
		}
		return fmt.Sprintf(
			"Breakdown: [Research, Implement, Test, Review]. Tips: %s",
			strings.Join(tips, ", "),
		), nil
	default:
		return "", domain.ErrInvalidAgentType
	}
}

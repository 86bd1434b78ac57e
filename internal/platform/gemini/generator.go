// Package gemini provides a Gemini-backed implementation of the agent text
// generator. It is selected at startup when an API key is configured;
// otherwise the service falls back to the built-in heuristic generator.
package gemini

import (
	"context"
	"fmt"
	"log/slog"

	"google.golang.org/genai"

	"github.com/tasknest/tasknest/internal/config"
	"github.com/tasknest/tasknest/internal/domain"
	"github.com/tasknest/tasknest/internal/service"
)

// Generator implements service.TextGenerator using the Gemini API.
type Generator struct {
	client *genai.Client
	model  string
	logger *slog.Logger
}

// Ensure Generator implements service.TextGenerator
var _ service.TextGenerator = (*Generator)(nil)

// NewGenerator creates a Gemini-backed generator from the agent config.
// Returns an error if the API key is missing or the client cannot be
// created.
func NewGenerator(ctx context.Context, cfg config.AgentConfig, logger *slog.Logger) (*Generator, error) {
	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &Generator{
		client: client,
		model:  cfg.ModelName,
		logger: logger.With(slog.String("component", "gemini_generator")),
	}, nil
}

// Generate implements service.TextGenerator.
func (g *Generator) Generate(
	ctx context.Context,
	agentType domain.AgentType,
	task *domain.Task,
) (string, error) {
	prompt := buildPrompt(agentType, task)

	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
	if err != nil {
		g.logger.Error("gemini api call failed",
			"error", err,
			"agent_type", agentType,
			"task_id", task.ID)
		return "", fmt.Errorf("gemini generate content: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return "No suggestions at this time.", nil
	}
	return text, nil
}

// buildPrompt renders the per-agent instruction block followed by the task.
func buildPrompt(agentType domain.AgentType, task *domain.Task) string {
	var instructions string
	switch agentType {
	case domain.AgentAnalyzer:
		instructions = "You are an analytical assistant. Provide concise, structured analysis of a task: " +
			"clarify objectives, identify constraints and risks, outline steps and dependencies, " +
			"suggest metrics of success."
	default:
		instructions = "You are a productivity assistant. Help the user move the task forward: " +
			"propose next best actions, draft checklists and timelines, unblock with concrete " +
			"suggestions. Keep it brief and actionable."
	}

	deadline := "none"
	if task.Deadline != nil {
		deadline = task.Deadline.Format("2006-01-02")
	}

	return fmt.Sprintf(
		"%s\n\nTitle: %s\nPriority: %s\nStatus: %s\nDeadline: %s\nDescription:\n%s",
		instructions, task.Title, task.Priority, task.Status, deadline, task.Description,
	)
}

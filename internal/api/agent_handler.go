package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/tasknest/tasknest/internal/api/shared"
	"github.com/tasknest/tasknest/internal/domain"
	"github.com/tasknest/tasknest/internal/service"
)

// AgentHandler handles the task assistant API requests.
type AgentHandler struct {
	agentService *service.AgentService
	logger       *slog.Logger
}

// NewAgentHandler creates a new AgentHandler with the given dependencies.
func NewAgentHandler(agentService *service.AgentService, log *slog.Logger) *AgentHandler {
	if log == nil {
		log = slog.Default()
	}
	return &AgentHandler{
		agentService: agentService,
		logger:       log.With(slog.String("component", "agent_handler")),
	}
}

// Analyze handles POST /api/tasks/{id}/analyze. Owner only; the generated
// analysis is persisted alongside the task.
func (h *AgentHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, h.agentService.Analyze)
}

// Assist handles POST /api/tasks/{id}/assist.
func (h *AgentHandler) Assist(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, h.agentService.Assist)
}

func (h *AgentHandler) run(
	w http.ResponseWriter,
	r *http.Request,
	op func(ctx context.Context, userID, taskID uuid.UUID) (*domain.AgentResponse, error),
) {
	userID, taskID, ok := handleUserIDAndPathUUID(w, r, "id", h.logger)
	if !ok {
		return
	}

	response, err := op(r.Context(), userID, taskID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, AgentResponseView{
		ID:        response.ID,
		TaskID:    response.TaskID,
		AgentType: string(response.AgentType),
		Text:      response.Text,
		CreatedAt: response.CreatedAt,
	})
}

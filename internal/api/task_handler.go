package api

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/tasknest/tasknest/internal/api/shared"
	"github.com/tasknest/tasknest/internal/domain"
	"github.com/tasknest/tasknest/internal/service"
	"github.com/tasknest/tasknest/internal/service/auth"
)

// Paging defaults for the task list endpoint.
const (
	defaultListLimit = 100
	maxListLimit     = 500
)

// TaskHandler handles task CRUD and sharing API requests.
type TaskHandler struct {
	taskService *service.TaskService
	logger      *slog.Logger
}

// NewTaskHandler creates a new TaskHandler with the given dependencies.
func NewTaskHandler(taskService *service.TaskService, log *slog.Logger) *TaskHandler {
	if log == nil {
		log = slog.Default()
	}
	return &TaskHandler{
		taskService: taskService,
		logger:      log.With(slog.String("component", "task_handler")),
	}
}

// Create handles POST /api/tasks.
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		HandleAPIError(w, r, auth.ErrMissingToken, "")
		return
	}

	var req CreateTaskRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	view, err := h.taskService.Create(r.Context(), userID, service.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Priority:    domain.TaskPriority(req.Priority),
		Status:      domain.TaskStatus(req.Status),
		Deadline:    req.Deadline,
	})
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, view)
}

// List handles GET /api/tasks. Returns summaries of tasks the caller owns
// or reads, newest first, paged with skip/limit query parameters.
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		HandleAPIError(w, r, auth.ErrMissingToken, "")
		return
	}

	skip := parseQueryInt(r, "skip", 0)
	limit := parseQueryInt(r, "limit", defaultListLimit)
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 || limit > maxListLimit {
		limit = defaultListLimit
	}

	summaries, err := h.taskService.List(r.Context(), userID, skip, limit)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, summaries)
}

// Get handles GET /api/tasks/{id}.
func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, taskID, ok := handleUserIDAndPathUUID(w, r, "id", h.logger)
	if !ok {
		return
	}

	view, err := h.taskService.Get(r.Context(), userID, taskID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, view)
}

// Update handles PUT /api/tasks/{id}. Only supplied fields change; readers
// of the task are notified of the result.
func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, taskID, ok := handleUserIDAndPathUUID(w, r, "id", h.logger)
	if !ok {
		return
	}

	var req UpdateTaskRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	view, err := h.taskService.Update(r.Context(), userID, taskID, buildTaskPatch(&req))
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, view)
}

// Delete handles DELETE /api/tasks/{id}.
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, taskID, ok := handleUserIDAndPathUUID(w, r, "id", h.logger)
	if !ok {
		return
	}

	if err := h.taskService.Delete(r.Context(), userID, taskID); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// AddReader handles POST /api/tasks/{id}/readers/{email}. Grants the user
// with the given email read access; adding an existing reader is a no-op.
func (h *TaskHandler) AddReader(w http.ResponseWriter, r *http.Request) {
	userID, taskID, ok := handleUserIDAndPathUUID(w, r, "id", h.logger)
	if !ok {
		return
	}

	email := chi.URLParam(r, "email")
	if email == "" {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Reader email is required")
		return
	}

	view, err := h.taskService.AddReader(r.Context(), userID, taskID, email)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, view)
}

// RemoveReader handles DELETE /api/tasks/{id}/readers/{email}. The owner
// may remove any reader; a reader may remove only themself.
func (h *TaskHandler) RemoveReader(w http.ResponseWriter, r *http.Request) {
	userID, taskID, ok := handleUserIDAndPathUUID(w, r, "id", h.logger)
	if !ok {
		return
	}

	email := chi.URLParam(r, "email")
	if email == "" {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Reader email is required")
		return
	}

	view, err := h.taskService.RemoveReader(r.Context(), userID, taskID, email)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, view)
}

// buildTaskPatch converts the request body into an explicit field patch.
func buildTaskPatch(req *UpdateTaskRequest) domain.TaskPatch {
	patch := domain.TaskPatch{
		Title:       req.Title,
		Description: req.Description,
	}
	if req.Priority != nil {
		priority := domain.TaskPriority(*req.Priority)
		patch.Priority = &priority
	}
	if req.Status != nil {
		status := domain.TaskStatus(*req.Status)
		patch.Status = &status
	}
	if req.DeadlineSet() {
		deadline := req.Deadline
		patch.Deadline = &deadline
	}
	return patch
}

// parseQueryInt reads an integer query parameter, falling back to the
// default on absence or parse failure.
func parseQueryInt(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}

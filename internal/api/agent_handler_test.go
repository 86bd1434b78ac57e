package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tasknest/tasknest/internal/api"
	"github.com/tasknest/tasknest/internal/api/shared"
	"github.com/tasknest/tasknest/internal/domain"
	"github.com/tasknest/tasknest/internal/mocks"
	"github.com/tasknest/tasknest/internal/service"
	"github.com/tasknest/tasknest/internal/service/sharing"
)

type agentHandlerFixture struct {
	router    chi.Router
	taskStore *mocks.MockTaskStore
	generator *mocks.MockTextGenerator
	owner     *domain.User
}

func newAgentHandlerFixture(t *testing.T) *agentHandlerFixture {
	t.Helper()

	taskStore := mocks.NewMockTaskStore()
	generator := &mocks.MockTextGenerator{}

	owner, err := domain.NewUser("Olive Owner", "owner@example.com", "password123")
	require.NoError(t, err)
	owner.HashedPassword = "hash"
	owner.Password = ""

	agentService := service.NewAgentService(
		taskStore,
		mocks.NewMockAgentResponseStore(),
		sharing.NewService(taskStore),
		generator,
		nil,
	)
	handler := api.NewAgentHandler(agentService, nil)

	router := chi.NewRouter()
	router.Post("/api/tasks/{id}/analyze", handler.Analyze)
	router.Post("/api/tasks/{id}/assist", handler.Assist)

	return &agentHandlerFixture{
		router:    router,
		taskStore: taskStore,
		generator: generator,
		owner:     owner,
	}
}

func (f *agentHandlerFixture) post(t *testing.T, userID uuid.UUID, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, target, nil)
	if userID != uuid.Nil {
		ctx := context.WithValue(req.Context(), shared.UserIDContextKey, userID)
		req = req.WithContext(ctx)
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func TestAgentEndpoints(t *testing.T) {
	f := newAgentHandlerFixture(t)
	task, err := domain.NewTask(f.owner.ID, "Write report", "")
	require.NoError(t, err)
	f.taskStore.AddTask(task)

	t.Run("analyze", func(t *testing.T) {
		rec := f.post(t, f.owner.ID, "/api/tasks/"+task.ID.String()+"/analyze")
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var view api.AgentResponseView
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
		assert.Equal(t, task.ID, view.TaskID)
		assert.Equal(t, string(domain.AgentAnalyzer), view.AgentType)
		assert.Equal(t, "mock agent response", view.Text)
	})

	t.Run("assist", func(t *testing.T) {
		rec := f.post(t, f.owner.ID, "/api/tasks/"+task.ID.String()+"/assist")
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var view api.AgentResponseView
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
		assert.Equal(t, string(domain.AgentAssistant), view.AgentType)
	})

	assert.Equal(t, []domain.AgentType{domain.AgentAnalyzer, domain.AgentAssistant}, f.generator.Calls)
}

func TestAgentEndpointErrors(t *testing.T) {
	f := newAgentHandlerFixture(t)
	task, err := domain.NewTask(f.owner.ID, "Write report", "")
	require.NoError(t, err)
	f.taskStore.AddTask(task)

	t.Run("non-owner", func(t *testing.T) {
		rec := f.post(t, uuid.New(), "/api/tasks/"+task.ID.String()+"/analyze")
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("unknown task", func(t *testing.T) {
		rec := f.post(t, f.owner.ID, "/api/tasks/"+uuid.NewString()+"/analyze")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("unauthenticated", func(t *testing.T) {
		rec := f.post(t, uuid.Nil, "/api/tasks/"+task.ID.String()+"/analyze")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

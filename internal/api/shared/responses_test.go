package shared

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRespondWithJSON(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
	rec := httptest.NewRecorder()

	RespondWithJSON(rec, req, http.StatusCreated, map[string]string{"title": "Write report"})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Write report", body["title"])
}

func TestRespondWithError(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
	req = req.WithContext(SetTraceID(req.Context()))
	rec := httptest.NewRecorder()

	RespondWithError(rec, req, http.StatusNotFound, "Task not found")

	assert.Equal(t, http.StatusNotFound, rec.Code)

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Task not found", body.Error)
	assert.Len(t, body.TraceID, TraceIDLength*2, "trace ID from the request context is echoed back")
	assert.NotContains(t, rec.Body.String(), `"code"`, "internal status code is not serialized")
}

func TestRespondWithErrorNoTraceID(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
	rec := httptest.NewRecorder()

	RespondWithError(rec, req, http.StatusBadRequest, "Invalid request format")

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Empty(t, body.TraceID)
	assert.NotContains(t, rec.Body.String(), "trace_id", "empty trace ID is omitted")
}

func TestTraceIDContext(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, GetTraceID(ctx))

	ctx = SetTraceID(ctx)
	traceID := GetTraceID(ctx)
	assert.Len(t, traceID, TraceIDLength*2)

	// Each request gets its own ID.
	other := GetTraceID(SetTraceID(context.Background()))
	assert.NotEqual(t, traceID, other)
}

func TestValidateRequest(t *testing.T) {
	type loginForm struct {
		Email    string `validate:"required,email"`
		Password string `validate:"required,min=8"`
	}

	assert.NoError(t, ValidateRequest(loginForm{Email: "ada@example.com", Password: "password123"}))
	assert.Error(t, ValidateRequest(loginForm{Email: "not-an-email", Password: "password123"}))
	assert.Error(t, ValidateRequest(loginForm{Email: "ada@example.com", Password: "short"}))
}

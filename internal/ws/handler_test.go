package ws_test

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tasknest/tasknest/internal/domain"
	"github.com/tasknest/tasknest/internal/mocks"
	"github.com/tasknest/tasknest/internal/service/auth"
	"github.com/tasknest/tasknest/internal/ws"
)

// newTestHandler builds a ws.Handler whose authenticator accepts exactly one
// token, "good-token", resolving to the returned user.
func newTestHandler(t *testing.T) (*ws.Handler, *ws.Registry, *domain.User) {
	t.Helper()

	user := &domain.User{
		ID:             uuid.New(),
		Name:           "Ada Lovelace",
		Email:          "ada@example.com",
		HashedPassword: "irrelevant",
	}

	userStore := mocks.NewMockUserStore()
	userStore.AddUser(user)

	jwtService := &mocks.MockJWTService{
		ValidateTokenFn: func(ctx context.Context, tokenString string) (*auth.Claims, error) {
			if tokenString != "good-token" {
				return nil, auth.ErrInvalidToken
			}
			return &auth.Claims{
				Subject:   user.Email,
				TokenType: auth.TokenTypeAccess,
			}, nil
		},
	}

	registry := ws.NewRegistry()
	handler := ws.NewHandler(auth.NewAuthenticator(jwtService, userStore), registry, nil)
	return handler, registry, user
}

// dial opens a websocket connection against the test server with the given
// token query parameter (empty for none).
func dial(t *testing.T, server *httptest.Server, token string) *websocket.Conn {
	t.Helper()

	url := "ws" + strings.TrimPrefix(server.URL, "http")
	if token != "" {
		url += "?token=" + token
	}
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	return conn
}

func TestHandlerAcceptsValidToken(t *testing.T) {
	handler, registry, user := newTestHandler(t)
	server := httptest.NewServer(handler)
	defer server.Close()

	conn := dial(t, server, "good-token")
	defer conn.Close()

	require.Eventually(t, func() bool {
		return len(registry.ConnectionsFor(user.ID)) == 1
	}, time.Second, 10*time.Millisecond, "connection should be registered after handshake")
}

func TestHandlerDeliversEvents(t *testing.T) {
	handler, registry, user := newTestHandler(t)
	server := httptest.NewServer(handler)
	defer server.Close()

	conn := dial(t, server, "good-token")
	defer conn.Close()

	require.Eventually(t, func() bool {
		return len(registry.ConnectionsFor(user.ID)) == 1
	}, time.Second, 10*time.Millisecond)

	dispatcher := ws.NewDispatcher(registry, nil)
	taskID := uuid.New()
	dispatcher.Broadcast(context.Background(), []uuid.UUID{user.ID}, ws.NewTaskDeleted(taskID))

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(time.Second)))
	var received ws.TaskDeleted
	require.NoError(t, conn.ReadJSON(&received))
	assert.Equal(t, "task.deleted", received.Event)
	assert.Equal(t, taskID, received.TaskID)
}

func TestHandlerRejectsBadCredentials(t *testing.T) {
	tests := []struct {
		name  string
		token string
	}{
		{name: "missing token", token: ""},
		{name: "invalid token", token: "forged-token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, registry, _ := newTestHandler(t)
			server := httptest.NewServer(handler)
			defer server.Close()

			conn := dial(t, server, tt.token)
			defer conn.Close()

			require.NoError(t, conn.SetReadDeadline(time.Now().Add(time.Second)))
			_, _, err := conn.ReadMessage()
			require.Error(t, err)

			var closeErr *websocket.CloseError
			require.ErrorAs(t, err, &closeErr)
			assert.Equal(t, websocket.ClosePolicyViolation, closeErr.Code)
			assert.Zero(t, registry.Len())
		})
	}
}

func TestHandlerUnregistersOnDisconnect(t *testing.T) {
	handler, registry, user := newTestHandler(t)
	server := httptest.NewServer(handler)
	defer server.Close()

	conn := dial(t, server, "good-token")

	require.Eventually(t, func() bool {
		return len(registry.ConnectionsFor(user.ID)) == 1
	}, time.Second, 10*time.Millisecond)

	require.NoError(t, conn.Close())

	require.Eventually(t, func() bool {
		return registry.Len() == 0
	}, time.Second, 10*time.Millisecond, "connection should be unregistered after client disconnect")
}

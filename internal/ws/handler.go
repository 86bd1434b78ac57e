package ws

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/tasknest/tasknest/internal/service/auth"
)

// Handler upgrades HTTP requests to WebSocket connections and runs the
// authenticate-then-register handshake. The credential is presented as a
// ?token= query parameter because the handshake precedes normal message
// exchange; any failure closes the connection with a policy-violation
// close code and no explanation, so the close path can't be used as an
// auth oracle.
type Handler struct {
	authenticator *auth.Authenticator
	registry      *Registry
	upgrader      websocket.Upgrader
	logger        *slog.Logger
}

// NewHandler creates a WebSocket upgrade handler bound to the given
// authenticator and registry.
func NewHandler(authenticator *auth.Authenticator, registry *Registry, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		authenticator: authenticator,
		registry:      registry,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// The browser client connects cross-origin during local
			// development; token auth is the actual gate.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		logger: logger.With(slog.String("component", "ws_handler")),
	}
}

// ServeHTTP implements the connection lifecycle: upgrade, authenticate,
// register, then hold the connection open in a read loop that discards all
// inbound application messages (this channel is server-to-client only)
// until the client disconnects.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	wsConn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written an HTTP error response.
		h.logger.Debug("websocket upgrade failed", "error", err)
		return
	}

	token := r.URL.Query().Get("token")
	if token == "" {
		h.reject(wsConn)
		return
	}

	user, err := h.authenticator.ResolveAccess(r.Context(), token)
	if err != nil {
		// Expired vs. invalid is interesting in the logs only; the client
		// sees the same close code either way.
		h.logger.Debug("websocket auth failed", "error", err)
		h.reject(wsConn)
		return
	}

	conn := newSocketConn(wsConn)
	h.registry.Register(conn, user.ID)
	h.logger.Debug("websocket connected", "user_id", user.ID)

	defer func() {
		h.registry.Unregister(conn)
		_ = conn.Close()
		h.logger.Debug("websocket disconnected", "user_id", user.ID)
	}()

	// Discard inbound messages; reading is only needed to detect the
	// client-initiated close.
	for {
		if _, _, err := wsConn.ReadMessage(); err != nil {
			return
		}
	}
}

// reject closes the connection with the policy-violation close code.
// The same code is used for a missing, invalid, expired, or unresolvable
// credential, intentionally undifferentiated.
func (h *Handler) reject(wsConn *websocket.Conn) {
	deadline := time.Now().Add(writeWait)
	msg := websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "")
	_ = wsConn.WriteControl(websocket.CloseMessage, msg, deadline)
	_ = wsConn.Close()
}

package gateway

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"chat-server/auth"
	"chat-server/chat"
)

// Handler upgrades HTTP requests to websocket sessions and ties the
// connection lifecycle to the presence router.
type Handler struct {
	log         *slog.Logger
	gateway     *Gateway
	presence    *chat.PresenceRouter
	tokens      *auth.TokenIssuer
	upgrader    websocket.Upgrader
	bufferSize  int
	sendTimeout time.Duration
}

func NewHandler(log *slog.Logger, gateway *Gateway, presence *chat.PresenceRouter,
	tokens *auth.TokenIssuer, bufferSize int, sendTimeout time.Duration) *Handler {
	return &Handler{
		log:      log,
		gateway:  gateway,
		presence: presence,
		tokens:   tokens,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// The original service ran with a wildcard CORS policy; browser
			// clients are served from arbitrary origins.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		bufferSize:  bufferSize,
		sendTimeout: sendTimeout,
	}
}

// ServeWS handles GET /ws. Anonymous connections are accepted for backward
// compatibility, but a presented session token must be valid: the claimed
// username is then bound before the first frame arrives. The read pump runs
// in this goroutine until the client goes away; the write pump gets its own.
func (h *Handler) ServeWS(w http.ResponseWriter, r *http.Request) {
	claims, err := h.sessionClaims(r)
	if err != nil {
		h.log.Warn("websocket token rejected", "remote", r.RemoteAddr, "error", err)
		http.Error(w, "Invalid or expired token", http.StatusUnauthorized)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", "remote", r.RemoteAddr, "error", err)
		return
	}

	c := newClient(uuid.NewString(), conn, h.bufferSize, h.sendTimeout, h.log)
	h.presence.Connect(c.id, c)
	if claims != nil {
		h.presence.RegisterUser(c.ctx, c.id, claims.Username)
	}

	go c.writePump()
	c.readPump(h.gateway.Dispatch)

	// The client context is about to be cancelled, so the disconnect
	// notifications to the room ride on a fresh context.
	h.presence.Disconnect(context.Background(), c.id)
	c.close()
}

// sessionClaims extracts and validates an optional session token from the
// "token" query parameter or a bearer Authorization header. No token means an
// anonymous connection; a present but invalid token is an error.
func (h *Handler) sessionClaims(r *http.Request) (*auth.CustomClaims, error) {
	token := r.URL.Query().Get("token")
	if token == "" {
		if header := r.Header.Get("Authorization"); strings.HasPrefix(header, "Bearer ") {
			token = strings.TrimPrefix(header, "Bearer ")
		}
	}
	if token == "" {
		return nil, nil
	}
	return h.tokens.Validate(token)
}

package gateway

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"chat-server/auth"
	"chat-server/chat"
	"chat-server/mocks"
)

func newWSStack(t *testing.T) (*Handler, *chat.ConnectionRegistry, *auth.TokenIssuer) {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctrl := gomock.NewController(t)
	store := mocks.NewMockIMessageRepository(ctrl)
	store.EXPECT().GroupHistory(gomock.Any(), gomock.Any()).Return(nil, nil).AnyTimes()
	store.EXPECT().PrivateInbox(gomock.Any(), gomock.Any()).Return(nil, nil).AnyTimes()

	registry := chat.NewConnectionRegistry()
	rooms := chat.NewRoomManager(registry, log)
	presence := chat.NewPresenceRouter(log, registry, rooms, store, time.Second)
	router := chat.NewMessageRouter(log, registry, rooms, store, nil, time.Second)
	gw := NewGateway(log, registry, presence, router)

	tokens := auth.NewTokenIssuer("test-secret", time.Hour)
	return NewHandler(log, gw, presence, tokens, 16, time.Second), registry, tokens
}

func wsURL(t *testing.T, server *httptest.Server) string {
	t.Helper()
	return "ws" + strings.TrimPrefix(server.URL, "http")
}

func Test_ServeWS_RejectsInvalidToken(t *testing.T) {
	req := require.New(t)
	h, _, _ := newWSStack(t)

	r := httptest.NewRequest(http.MethodGet, "/ws?token=not-a-token", nil)
	rec := httptest.NewRecorder()
	h.ServeWS(rec, r)
	req.Equal(http.StatusUnauthorized, rec.Code)
}

func Test_ServeWS_RejectsExpiredToken(t *testing.T) {
	req := require.New(t)
	h, _, _ := newWSStack(t)

	expired, err := auth.NewTokenIssuer("test-secret", -time.Minute).Generate("user-1", "alice")
	req.NoError(err)

	r := httptest.NewRequest(http.MethodGet, "/ws", nil)
	r.Header.Set("Authorization", "Bearer "+expired)
	rec := httptest.NewRecorder()
	h.ServeWS(rec, r)
	req.Equal(http.StatusUnauthorized, rec.Code)
}

func Test_ServeWS_ValidTokenBindsUsername(t *testing.T) {
	req := require.New(t)
	h, registry, tokens := newWSStack(t)

	server := httptest.NewServer(http.HandlerFunc(h.ServeWS))
	defer server.Close()

	token, err := tokens.Generate("user-1", "alice")
	req.NoError(err)

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(t, server)+"?token="+token, nil)
	req.NoError(err)
	defer conn.Close()

	// The username from the token is bound before any frame arrives.
	req.Eventually(func() bool {
		_, online := registry.LookupByUsername("alice")
		return online
	}, 2*time.Second, 10*time.Millisecond)
}

func Test_ServeWS_AnonymousConnectionAllowed(t *testing.T) {
	req := require.New(t)
	h, _, _ := newWSStack(t)

	server := httptest.NewServer(http.HandlerFunc(h.ServeWS))
	defer server.Close()

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(t, server), nil)
	req.NoError(err)
	conn.Close()
}

package chat

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"chat-server/contract"
	"chat-server/domain"
	"chat-server/domain/event"
	"chat-server/observability"
	"chat-server/repositories"
)

// PresenceRouter orchestrates connection lifecycle notifications: joins,
// leaves, typing indicators and disconnects. It owns no state of its own;
// everything lives in the ConnectionRegistry and RoomManager so the routers
// stay consistent with each other.
type PresenceRouter struct {
	log          *slog.Logger
	registry     *ConnectionRegistry
	rooms        *RoomManager
	store        repositories.IMessageRepository
	storeTimeout time.Duration
}

func NewPresenceRouter(log *slog.Logger, registry *ConnectionRegistry, rooms *RoomManager,
	store repositories.IMessageRepository, storeTimeout time.Duration) *PresenceRouter {
	return &PresenceRouter{
		log:          log,
		registry:     registry,
		rooms:        rooms,
		store:        store,
		storeTimeout: storeTimeout,
	}
}

// Connect registers a freshly accepted transport connection. The connection
// stays anonymous until it registers a username or joins a room.
func (p *PresenceRouter) Connect(connID string, sink contract.EventSink) {
	p.registry.Register(connID, sink)
	observability.ActiveConnections.Inc()
	p.log.Info("connection established", "conn_id", connID)
}

// RegisterUser binds a username to the connection for private-message
// delivery and replays the user's private inbox, so messages saved while
// they were offline reach them. Re-registration overwrites the prior value
// and replays again; no broadcast. A failed inbox load never fails the
// registration itself.
func (p *PresenceRouter) RegisterUser(ctx context.Context, connID, username string) {
	if username == "" {
		return
	}
	if _, ok := p.registry.Get(connID); !ok {
		return
	}
	p.registry.SetUsername(connID, username)

	inbox, err := p.loadInbox(ctx, username)
	if err != nil {
		p.log.Error("private inbox load failed", "username", username, "error", err)
		return
	}
	if len(inbox) == 0 {
		return
	}
	sendTo(ctx, p.registry, p.log, connID, event.PrivateHistory(inbox))
}

// JoinRoom places the connection in a room and announces it. Empty username
// or room is a silent no-op. A connection already in a different room leaves
// it first: membership is removed and the old room is told the user left,
// but no stopTyping is emitted on that path. The joiner then receives the
// room history privately; members only see the join notice.
func (p *PresenceRouter) JoinRoom(ctx context.Context, connID, username, room string) {
	if username == "" || room == "" {
		return
	}
	sess, ok := p.registry.Get(connID)
	if !ok {
		return
	}

	if sess.Room != "" && sess.Room != room {
		p.rooms.Leave(sess.Room, connID)
		left := sess.Username
		if left == "" {
			left = username
		}
		p.rooms.Broadcast(ctx, sess.Room, event.System(fmt.Sprintf("%s left the room", left)), connID)
	}

	p.registry.SetUsername(connID, username)
	p.registry.SetRoom(connID, room)
	p.rooms.Join(room, connID)
	observability.RoomJoinsTotal.Inc()
	observability.ActiveRooms.Set(float64(p.rooms.RoomCount()))
	p.log.Info("user joined room", "conn_id", connID, "username", username, "room", room)

	p.rooms.Broadcast(ctx, room, event.System(fmt.Sprintf("%s joined the room", username)), connID)

	history, err := p.loadHistory(ctx, room)
	if err != nil {
		p.log.Error("history load failed", "room", room, "error", err)
		sendTo(ctx, p.registry, p.log, connID, event.System("Failed to load history"))
		return
	}
	sendTo(ctx, p.registry, p.log, connID, event.RoomHistory(history))
}

// LeaveRoom removes the connection from its current room, clearing any
// stale typing indicator for this user before the departure notice goes
// out. No current room is a no-op.
func (p *PresenceRouter) LeaveRoom(ctx context.Context, connID string) {
	sess, ok := p.registry.Get(connID)
	if !ok || sess.Room == "" {
		return
	}

	p.rooms.Broadcast(ctx, sess.Room, event.StopTyping{}, connID)
	p.rooms.Leave(sess.Room, connID)
	p.registry.SetRoom(connID, "")
	observability.ActiveRooms.Set(float64(p.rooms.RoomCount()))

	p.rooms.Broadcast(ctx, sess.Room, event.System(fmt.Sprintf("%s left the room", sess.Username)), connID)
	p.log.Info("user left room", "conn_id", connID, "username", sess.Username, "room", sess.Room)
}

// Typing forwards the typing indicator to the other room members. Both a
// room and a username are required, otherwise nothing happens.
func (p *PresenceRouter) Typing(ctx context.Context, connID string) {
	sess, ok := p.registry.Get(connID)
	if !ok || sess.Room == "" || sess.Username == "" {
		return
	}
	p.rooms.Broadcast(ctx, sess.Room, event.Typing(fmt.Sprintf("%s is typing...", sess.Username)), connID)
}

// StopTyping clears the indicator for the other room members.
func (p *PresenceRouter) StopTyping(ctx context.Context, connID string) {
	sess, ok := p.registry.Get(connID)
	if !ok || sess.Room == "" || sess.Username == "" {
		return
	}
	p.rooms.Broadcast(ctx, sess.Room, event.StopTyping{}, connID)
}

// Disconnect handles transport-level teardown. Room members are notified
// only when the connection had both a room and a username; cleanup of the
// registry and room membership is unconditional and idempotent.
func (p *PresenceRouter) Disconnect(ctx context.Context, connID string) {
	sess, ok := p.registry.Get(connID)
	if !ok {
		return
	}

	if sess.Room != "" && sess.Username != "" {
		p.rooms.Broadcast(ctx, sess.Room, event.StopTyping{}, connID)
		p.rooms.Broadcast(ctx, sess.Room, event.System(fmt.Sprintf("%s disconnected", sess.Username)), connID)
	}
	if sess.Room != "" {
		p.rooms.Leave(sess.Room, connID)
	}
	p.registry.Remove(connID)
	observability.ActiveConnections.Dec()
	observability.ActiveRooms.Set(float64(p.rooms.RoomCount()))
	p.log.Info("connection closed", "conn_id", connID, "username", sess.Username)
}

// loadHistory bounds the store read with the configured timeout; an
// expired deadline is treated as a load failure like any other store error.
func (p *PresenceRouter) loadHistory(ctx context.Context, room string) ([]domain.GroupMessage, error) {
	if p.storeTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.storeTimeout)
		defer cancel()
	}
	return p.store.GroupHistory(ctx, room)
}

func (p *PresenceRouter) loadInbox(ctx context.Context, username string) ([]domain.PrivateMessage, error) {
	if p.storeTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.storeTimeout)
		defer cancel()
	}
	return p.store.PrivateInbox(ctx, username)
}

package chat

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"chat-server/domain"
	"chat-server/domain/event"
	"chat-server/observability"
	"chat-server/repositories"
)

// Censor rewrites a message body before it is persisted and fanned out.
type Censor interface {
	Censor(original string) string
}

// MessageRouter validates, persists and dispatches chat messages. A message
// is only broadcast after the store confirmed the write: either both
// happen, or the sender alone gets a failure notice.
type MessageRouter struct {
	log          *slog.Logger
	registry     *ConnectionRegistry
	rooms        *RoomManager
	store        repositories.IMessageRepository
	censor       Censor
	storeTimeout time.Duration
}

// NewMessageRouter wires the router. censor may be nil to disable
// moderation.
func NewMessageRouter(log *slog.Logger, registry *ConnectionRegistry, rooms *RoomManager,
	store repositories.IMessageRepository, censor Censor, storeTimeout time.Duration) *MessageRouter {
	return &MessageRouter{
		log:          log,
		registry:     registry,
		rooms:        rooms,
		store:        store,
		censor:       censor,
		storeTimeout: storeTimeout,
	}
}

// SendGroupMessage persists and fans out a message to the sender's current
// room. Connections without a room and username, and bodies that are empty
// after trimming, are dropped silently. The persisted record, with its
// server-assigned id and timestamp, goes to every member including the
// sender; the stopTyping that follows excludes the sender.
func (r *MessageRouter) SendGroupMessage(ctx context.Context, connID, body string) {
	sess, ok := r.registry.Get(connID)
	if !ok || sess.Room == "" || sess.Username == "" {
		return
	}
	body = strings.TrimSpace(body)
	if body == "" {
		return
	}
	if r.censor != nil {
		body = r.censor.Censor(body)
	}

	msg := domain.GroupMessage{
		ID:       uuid.New(),
		FromUser: sess.Username,
		Room:     sess.Room,
		Body:     body,
		SentAt:   time.Now().UTC(),
	}
	if err := r.persist(ctx, func(ctx context.Context) error {
		return r.store.StoreGroup(ctx, msg)
	}); err != nil {
		observability.StoreFailuresTotal.Inc()
		r.log.Error("group message persistence failed", "room", sess.Room, "error", err)
		sendTo(ctx, r.registry, r.log, connID, event.System("Failed to send message"))
		return
	}

	observability.GroupMessagesTotal.Inc()
	r.rooms.Broadcast(ctx, sess.Room, event.NewGroupMessage(msg), "")
	r.rooms.Broadcast(ctx, sess.Room, event.StopTyping{}, connID)
}

// SendPrivateMessage persists a direct message and delivers it to the
// recipient's connection if one is online. The sender always gets the echo
// back once the write succeeded; an offline recipient additionally yields
// an informational notice, since the message is already durably saved.
func (r *MessageRouter) SendPrivateMessage(ctx context.Context, connID, toUser, body string) {
	sess, ok := r.registry.Get(connID)
	if !ok || sess.Username == "" {
		return
	}
	toUser = strings.TrimSpace(toUser)
	body = strings.TrimSpace(body)
	if toUser == "" || body == "" {
		return
	}
	if r.censor != nil {
		body = r.censor.Censor(body)
	}

	msg := domain.PrivateMessage{
		ID:       uuid.New(),
		FromUser: sess.Username,
		ToUser:   toUser,
		Body:     body,
		SentAt:   time.Now().UTC(),
	}
	if err := r.persist(ctx, func(ctx context.Context) error {
		return r.store.StorePrivate(ctx, msg)
	}); err != nil {
		observability.StoreFailuresTotal.Inc()
		r.log.Error("private message persistence failed", "to_user", toUser, "error", err)
		sendTo(ctx, r.registry, r.log, connID, event.System("Failed to send private message"))
		return
	}

	observability.PrivateMessagesTotal.Inc()
	sendTo(ctx, r.registry, r.log, connID, event.NewPrivateMessage(msg))

	if recipientID, online := r.registry.LookupByUsername(toUser); online {
		sendTo(ctx, r.registry, r.log, recipientID, event.NewPrivateMessage(msg))
		return
	}
	sendTo(ctx, r.registry, r.log, connID,
		event.System(fmt.Sprintf("%s is not online (saved to DB).", toUser)))
}

// persist bounds the store write with the configured timeout; a timeout is
// a persistence failure like any other store error.
func (r *MessageRouter) persist(ctx context.Context, write func(context.Context) error) error {
	if r.storeTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.storeTimeout)
		defer cancel()
	}
	return write(ctx)
}

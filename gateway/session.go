package gateway

import (
	"context"
	"encoding/json"
	"log/slog"

	"chat-server/chat"
	"chat-server/domain/event"
)

// Inbound payloads. Field names follow the wire protocol.
type joinRoomPayload struct {
	Username string `json:"username"`
	Room     string `json:"room"`
}

type groupMessagePayload struct {
	Message string `json:"message"`
}

type privateMessagePayload struct {
	ToUser  string `json:"to_user"`
	Message string `json:"message"`
}

// Gateway is the decode/dispatch boundary of the real-time protocol. It
// performs no business logic: every inbound event maps onto one
// PresenceRouter or MessageRouter call. Malformed payloads are dropped
// silently; a panic in a handler is converted to a private system error and
// the connection stays alive.
type Gateway struct {
	log      *slog.Logger
	registry *chat.ConnectionRegistry
	presence *chat.PresenceRouter
	router   *chat.MessageRouter
}

func NewGateway(log *slog.Logger, registry *chat.ConnectionRegistry,
	presence *chat.PresenceRouter, router *chat.MessageRouter) *Gateway {
	return &Gateway{log: log, registry: registry, presence: presence, router: router}
}

// Dispatch decodes one inbound frame and routes it.
func (g *Gateway) Dispatch(ctx context.Context, connID string, raw []byte) {
	defer func() {
		if r := recover(); r != nil {
			g.log.Error("handler panic recovered", "conn_id", connID, "panic", r)
			g.sendSystem(ctx, connID, "Internal server error")
		}
	}()

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return
	}

	switch env.Event {
	case "registerUser":
		var username string
		if err := json.Unmarshal(env.Data, &username); err != nil {
			return
		}
		g.presence.RegisterUser(ctx, connID, username)

	case "joinRoom":
		var payload joinRoomPayload
		if err := json.Unmarshal(env.Data, &payload); err != nil {
			return
		}
		g.presence.JoinRoom(ctx, connID, payload.Username, payload.Room)

	case "leaveRoom":
		g.presence.LeaveRoom(ctx, connID)

	case "typing":
		g.presence.Typing(ctx, connID)

	case "stopTyping":
		g.presence.StopTyping(ctx, connID)

	case "groupMessage":
		var payload groupMessagePayload
		if err := json.Unmarshal(env.Data, &payload); err != nil {
			return
		}
		g.router.SendGroupMessage(ctx, connID, payload.Message)

	case "privateMessage":
		var payload privateMessagePayload
		if err := json.Unmarshal(env.Data, &payload); err != nil {
			return
		}
		g.router.SendPrivateMessage(ctx, connID, payload.ToUser, payload.Message)

	default:
		g.log.Debug("unknown event ignored", "conn_id", connID, "event", env.Event)
	}
}

func (g *Gateway) sendSystem(ctx context.Context, connID, text string) {
	sink, ok := g.registry.SinkOf(connID)
	if !ok {
		return
	}
	_ = sink.Consume(ctx, event.System(text))
}

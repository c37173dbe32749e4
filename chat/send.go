package chat

import (
	"context"
	"log/slog"

	"chat-server/domain/event"
)

// sendTo delivers an event privately to one connection. Connections that
// disappeared between lookup and send are skipped; sink errors are logged,
// never propagated, since a slow client must not fail the handler.
func sendTo(ctx context.Context, registry *ConnectionRegistry, log *slog.Logger, connID string, e event.ServerEvent) {
	sink, ok := registry.SinkOf(connID)
	if !ok {
		return
	}
	if err := sink.Consume(ctx, e); err != nil {
		log.Warn("private delivery failed", "conn_id", connID, "event", e.EventName(), "error", err)
	}
}

package chat

import (
	"context"
	"log/slog"
	"sync"

	"chat-server/domain/event"
)

type memberSet map[string]struct{}

// RoomManager tracks which connections occupy which room. Rooms are created
// implicitly on first join and garbage-collected when the last member
// leaves, so the map stays bounded by actual activity.
type RoomManager struct {
	mu       sync.RWMutex
	members  map[string]memberSet
	registry *ConnectionRegistry
	log      *slog.Logger
}

func NewRoomManager(registry *ConnectionRegistry, log *slog.Logger) *RoomManager {
	return &RoomManager{
		members:  make(map[string]memberSet),
		registry: registry,
		log:      log,
	}
}

// Join adds a connection to the room's member set, creating the room on
// demand.
func (m *RoomManager) Join(room, connID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.members[room]; !ok {
		m.members[room] = make(memberSet)
	}
	m.members[room][connID] = struct{}{}
}

// Leave removes a connection from the room. Leaving an unknown room is a
// no-op; an emptied room is deleted entirely.
func (m *RoomManager) Leave(room, connID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	set, ok := m.members[room]
	if !ok {
		return
	}
	delete(set, connID)
	if len(set) == 0 {
		delete(m.members, room)
	}
}

// Members returns a snapshot of the room's member connection ids.
func (m *RoomManager) Members(room string) []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	set, ok := m.members[room]
	if !ok {
		return nil
	}
	ids := make([]string, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	return ids
}

// RoomCount returns the number of rooms that currently have members.
func (m *RoomManager) RoomCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.members)
}

// Broadcast delivers an event to every member of a room except the excluded
// connection ("" excludes nobody). Sinks are resolved against the
// ConnectionRegistry at send time; members whose connection vanished in the
// meantime are silently skipped. Delivery is best effort per sink.
func (m *RoomManager) Broadcast(ctx context.Context, room string, e event.ServerEvent, excludeConnID string) {
	for _, connID := range m.Members(room) {
		if connID == excludeConnID {
			continue
		}
		sink, ok := m.registry.SinkOf(connID)
		if !ok {
			continue
		}
		if err := sink.Consume(ctx, e); err != nil {
			m.log.Warn("room broadcast delivery failed",
				"room", room, "conn_id", connID, "event", e.EventName(), "error", err)
		}
	}
}

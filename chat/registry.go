package chat

import (
	"sync"

	"chat-server/contract"
)

// Session is a read-only snapshot of one live connection's claimed state.
// Username and Room stay empty until the client registers or joins.
type Session struct {
	ID       string
	Username string
	Room     string
}

type connection struct {
	username string
	room     string
	sink     contract.EventSink
}

// ConnectionRegistry maps live connections to their claimed identity and
// current room. State is entirely in-memory and process-scoped; it is
// rebuilt as connections are re-established.
//
// The username index is last-writer-wins: when two connections claim the
// same username, only the most recent registration is found by
// LookupByUsername. This is a documented limitation, not an error.
type ConnectionRegistry struct {
	mu         sync.RWMutex
	conns      map[string]*connection
	byUsername map[string]string
}

func NewConnectionRegistry() *ConnectionRegistry {
	return &ConnectionRegistry{
		conns:      make(map[string]*connection),
		byUsername: make(map[string]string),
	}
}

// Register creates the entry for a freshly accepted connection and binds
// its outbound sink. Calling it again for the same id resets the entry.
func (r *ConnectionRegistry) Register(connID string, sink contract.EventSink) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.conns[connID] = &connection{sink: sink}
}

// SetUsername overwrites the connection's claimed username and moves the
// username index to this connection. Idempotent; unknown ids are ignored.
func (r *ConnectionRegistry) SetUsername(connID, username string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	conn, ok := r.conns[connID]
	if !ok {
		return
	}
	if conn.username != "" && r.byUsername[conn.username] == connID {
		delete(r.byUsername, conn.username)
	}
	conn.username = username
	if username != "" {
		r.byUsername[username] = connID
	}
}

// SetRoom updates the current room pointer; "" clears it.
func (r *ConnectionRegistry) SetRoom(connID, room string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if conn, ok := r.conns[connID]; ok {
		conn.room = room
	}
}

// Get returns a snapshot of the connection's state.
func (r *ConnectionRegistry) Get(connID string) (Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	conn, ok := r.conns[connID]
	if !ok {
		return Session{}, false
	}
	return Session{ID: connID, Username: conn.username, Room: conn.room}, true
}

// LookupByUsername resolves a username to its connection id across all
// currently connected sessions (last register wins).
func (r *ConnectionRegistry) LookupByUsername(username string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	connID, ok := r.byUsername[username]
	return connID, ok
}

// SinkOf returns the outbound sink of a connection.
func (r *ConnectionRegistry) SinkOf(connID string) (contract.EventSink, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	conn, ok := r.conns[connID]
	if !ok {
		return nil, false
	}
	return conn.sink, true
}

// Remove purges all state for a disconnecting connection. The username
// index entry is only dropped if it still points at this connection, so a
// later registration of the same name by another connection survives.
// Idempotent: removing an unknown id is a no-op.
func (r *ConnectionRegistry) Remove(connID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	conn, ok := r.conns[connID]
	if !ok {
		return
	}
	if conn.username != "" && r.byUsername[conn.username] == connID {
		delete(r.byUsername, conn.username)
	}
	delete(r.conns, connID)
}

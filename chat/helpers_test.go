package chat

import (
	"context"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/require"

	"chat-server/domain/event"
	"chat-server/repositories"
)

// memorySink records every delivered event so tests can assert on exact
// sequences. Safe for concurrent use.
type memorySink struct {
	mu     sync.Mutex
	events []event.ServerEvent
}

func (s *memorySink) Consume(_ context.Context, e event.ServerEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, e)
	return nil
}

func (s *memorySink) Events() []event.ServerEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]event.ServerEvent, len(s.events))
	copy(out, s.events)
	return out
}

func (s *memorySink) Names() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := make([]string, 0, len(s.events))
	for _, e := range s.events {
		names = append(names, e.EventName())
	}
	return names
}

func (s *memorySink) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = nil
}

type harness struct {
	registry *ConnectionRegistry
	rooms    *RoomManager
	presence *PresenceRouter
	router   *MessageRouter
	store    repositories.IMessageRepository
}

// newHarness wires a full core against a throwaway Badger database. Passing
// a non-nil store (e.g. a mock) overrides the real repository.
func newHarness(t *testing.T, censor Censor, store repositories.IMessageRepository) *harness {
	t.Helper()
	log := slog.Default()

	if store == nil {
		db, err := badger.Open(badger.DefaultOptions(t.TempDir()).WithLoggingLevel(badger.ERROR))
		require.NoError(t, err)
		t.Cleanup(func() { _ = db.Close() })
		limit := 50
		store = repositories.NewMessageRepository(db, log, &limit)
	}

	registry := NewConnectionRegistry()
	rooms := NewRoomManager(registry, log)
	return &harness{
		registry: registry,
		rooms:    rooms,
		presence: NewPresenceRouter(log, registry, rooms, store, time.Second),
		router:   NewMessageRouter(log, registry, rooms, store, censor, time.Second),
		store:    store,
	}
}

func (h *harness) connect(connID string) *memorySink {
	sink := &memorySink{}
	h.presence.Connect(connID, sink)
	return sink
}

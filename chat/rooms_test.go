package chat

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"chat-server/domain/event"
)

func TestRoomManager_JoinLeave(t *testing.T) {
	req := require.New(t)
	registry := NewConnectionRegistry()
	rooms := NewRoomManager(registry, slog.Default())

	rooms.Join("general", "c1")
	rooms.Join("general", "c2")
	req.ElementsMatch([]string{"c1", "c2"}, rooms.Members("general"))
	req.Equal(1, rooms.RoomCount())

	rooms.Leave("general", "c1")
	req.ElementsMatch([]string{"c2"}, rooms.Members("general"))

	// The emptied room is garbage-collected.
	rooms.Leave("general", "c2")
	req.Empty(rooms.Members("general"))
	req.Equal(0, rooms.RoomCount())

	// Leaving a nonexistent room is a no-op, never fatal.
	rooms.Leave("nowhere", "c1")
}

func TestRoomManager_Broadcast_ExcludesSender(t *testing.T) {
	req := require.New(t)
	registry := NewConnectionRegistry()
	rooms := NewRoomManager(registry, slog.Default())

	alice, bob := &memorySink{}, &memorySink{}
	registry.Register("a", alice)
	registry.Register("b", bob)
	rooms.Join("general", "a")
	rooms.Join("general", "b")

	rooms.Broadcast(context.Background(), "general", event.System("hello"), "a")

	req.Empty(alice.Events())
	req.Equal([]string{"system"}, bob.Names())

	// An empty exclusion reaches everybody.
	rooms.Broadcast(context.Background(), "general", event.System("all"), "")
	req.Equal([]string{"system"}, alice.Names())
	req.Equal([]string{"system", "system"}, bob.Names())
}

func TestRoomManager_Broadcast_SkipsVanishedConnections(t *testing.T) {
	req := require.New(t)
	registry := NewConnectionRegistry()
	rooms := NewRoomManager(registry, slog.Default())

	bob := &memorySink{}
	registry.Register("a", &memorySink{})
	registry.Register("b", bob)
	rooms.Join("general", "a")
	rooms.Join("general", "b")

	// "a" disconnected but its membership was not yet cleaned up.
	registry.Remove("a")
	rooms.Broadcast(context.Background(), "general", event.System("hello"), "")

	req.Equal([]string{"system"}, bob.Names())
}

func TestRoomManager_ConcurrentJoins(t *testing.T) {
	req := require.New(t)
	registry := NewConnectionRegistry()
	rooms := NewRoomManager(registry, slog.Default())

	done := make(chan struct{})
	for i := 0; i < 2; i++ {
		go func(id string) {
			defer func() { done <- struct{}{} }()
			for j := 0; j < 100; j++ {
				rooms.Join("general", id)
			}
		}(string(rune('a' + i)))
	}
	<-done
	<-done

	req.ElementsMatch([]string{"a", "b"}, rooms.Members("general"))
}

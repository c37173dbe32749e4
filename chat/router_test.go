package chat

import (
	"context"
	"fmt"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"chat-server/domain/event"
	"chat-server/mocks"
	"chat-server/moderation"
)

func TestRouter_GroupMessage_FanoutIncludesSender(t *testing.T) {
	req := require.New(t)
	h := newHarness(t, nil, nil)
	ctx := context.Background()

	alice := h.connect("a")
	bob := h.connect("b")
	h.presence.JoinRoom(ctx, "a", "alice", "general")
	h.presence.JoinRoom(ctx, "b", "bob", "general")
	alice.Reset()
	bob.Reset()

	h.router.SendGroupMessage(ctx, "a", "  hi  ")

	// The sender gets the message back but not the stopTyping.
	req.Equal([]string{"newGroupMessage"}, alice.Names())
	req.Equal([]string{"newGroupMessage", "stopTyping"}, bob.Names())

	msg := bob.Events()[0].(event.NewGroupMessage)
	req.Equal("alice", msg.FromUser)
	req.Equal("general", msg.Room)
	req.Equal("hi", msg.Body)
	req.NotZero(msg.ID)
	req.False(msg.SentAt.IsZero())
	req.Equal(msg, alice.Events()[0].(event.NewGroupMessage))

	// Persisted before fan-out: the record is already in the history.
	history, err := h.store.GroupHistory(ctx, "general")
	req.NoError(err)
	req.Len(history, 1)
	req.Equal("hi", history[0].Body)
}

func TestRouter_GroupMessage_SilentDrops(t *testing.T) {
	req := require.New(t)
	h := newHarness(t, nil, nil)
	ctx := context.Background()

	alice := h.connect("a")
	h.presence.JoinRoom(ctx, "a", "alice", "general")
	alice.Reset()

	// Whitespace-only body.
	h.router.SendGroupMessage(ctx, "a", "   \t ")
	req.Empty(alice.Events())

	history, err := h.store.GroupHistory(ctx, "general")
	req.NoError(err)
	req.Empty(history)

	// Identified but roomless connection.
	bob := h.connect("b")
	h.presence.RegisterUser(ctx, "b", "bob")
	h.router.SendGroupMessage(ctx, "b", "hello")
	req.Empty(bob.Events())
	req.Empty(alice.Events())
}

func TestRouter_GroupMessage_StoreFailure(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := mocks.NewMockIMessageRepository(ctrl)
	store.EXPECT().GroupHistory(gomock.Any(), "general").Return(nil, nil).Times(2)
	store.EXPECT().StoreGroup(gomock.Any(), gomock.Any()).Return(fmt.Errorf("write failed")).Times(1)

	h := newHarness(t, nil, store)
	ctx := context.Background()

	alice := h.connect("a")
	bob := h.connect("b")
	h.presence.JoinRoom(ctx, "a", "alice", "general")
	h.presence.JoinRoom(ctx, "b", "bob", "general")
	alice.Reset()
	bob.Reset()

	h.router.SendGroupMessage(ctx, "a", "hi")

	// The error stays private to the sender; nothing is broadcast.
	req.Equal([]string{"system"}, alice.Names())
	req.Equal(event.System("Failed to send message"), alice.Events()[0])
	req.Empty(bob.Events())
}

func TestRouter_PrivateMessage_OnlineRecipient(t *testing.T) {
	req := require.New(t)
	h := newHarness(t, nil, nil)
	ctx := context.Background()

	alice := h.connect("a")
	bob := h.connect("b")
	h.presence.RegisterUser(ctx, "a", "alice")
	h.presence.RegisterUser(ctx, "b", "bob")

	h.router.SendPrivateMessage(ctx, "a", "bob", "psst")

	req.Equal([]string{"newPrivateMessage"}, alice.Names())
	req.Equal([]string{"newPrivateMessage"}, bob.Names())

	msg := bob.Events()[0].(event.NewPrivateMessage)
	req.Equal("alice", msg.FromUser)
	req.Equal("bob", msg.ToUser)
	req.Equal("psst", msg.Body)
	req.Equal(msg, alice.Events()[0].(event.NewPrivateMessage))
}

func TestRouter_PrivateMessage_OfflineRecipient(t *testing.T) {
	req := require.New(t)
	h := newHarness(t, nil, nil)
	ctx := context.Background()

	alice := h.connect("a")
	h.presence.RegisterUser(ctx, "a", "alice")

	h.router.SendPrivateMessage(ctx, "a", "carol", "you there?")

	// Echo first, then exactly one informational notice.
	req.Equal([]string{"newPrivateMessage", "system"}, alice.Names())
	req.Equal(event.System("carol is not online (saved to DB)."), alice.Events()[1])

	// Saved for later retrieval despite the miss.
	inbox, err := h.store.PrivateInbox(ctx, "carol")
	req.NoError(err)
	req.Len(inbox, 1)
	req.Equal("you there?", inbox[0].Body)
}

func TestRouter_PrivateMessage_SilentDrops(t *testing.T) {
	req := require.New(t)
	h := newHarness(t, nil, nil)
	ctx := context.Background()

	// Anonymous sender.
	anon := h.connect("x")
	h.router.SendPrivateMessage(ctx, "x", "bob", "hi")
	req.Empty(anon.Events())

	alice := h.connect("a")
	h.presence.RegisterUser(ctx, "a", "alice")

	h.router.SendPrivateMessage(ctx, "a", "  ", "hi")
	h.router.SendPrivateMessage(ctx, "a", "bob", "  ")
	req.Empty(alice.Events())
}

func TestRouter_PrivateMessage_StoreFailure(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := mocks.NewMockIMessageRepository(ctrl)
	store.EXPECT().PrivateInbox(gomock.Any(), gomock.Any()).Return(nil, nil).Times(2)
	store.EXPECT().StorePrivate(gomock.Any(), gomock.Any()).Return(fmt.Errorf("write failed")).Times(1)

	h := newHarness(t, nil, store)
	ctx := context.Background()

	alice := h.connect("a")
	bob := h.connect("b")
	h.presence.RegisterUser(ctx, "a", "alice")
	h.presence.RegisterUser(ctx, "b", "bob")

	h.router.SendPrivateMessage(ctx, "a", "bob", "psst")

	// No echo, no delivery, only the private failure notice.
	req.Equal([]string{"system"}, alice.Names())
	req.Equal(event.System("Failed to send private message"), alice.Events()[0])
	req.Empty(bob.Events())
}

func TestRouter_ModerationCensorsBodies(t *testing.T) {
	req := require.New(t)
	moderator, err := moderation.NewModerator([]string{"badger"}, '*', slog.Default())
	req.NoError(err)

	h := newHarness(t, moderator, nil)
	ctx := context.Background()

	alice := h.connect("a")
	h.presence.JoinRoom(ctx, "a", "alice", "general")
	alice.Reset()

	h.router.SendGroupMessage(ctx, "a", "release the badger")

	msg := alice.Events()[0].(event.NewGroupMessage)
	req.Equal("release the ******", msg.Body)

	// The censored form is what gets persisted.
	history, err := h.store.GroupHistory(ctx, "general")
	req.NoError(err)
	req.Equal("release the ******", history[0].Body)
}

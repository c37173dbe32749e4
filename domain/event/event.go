// Package event defines the server-to-client events of the real-time
// protocol. Each event knows its wire name; the gateway wraps the event in
// a {"event": name, "data": payload} envelope before sending.
package event

import "chat-server/domain"

type ServerEvent interface {
	EventName() string
}

// System carries an informational or error notice for a single connection
// or a whole room.
type System string

func (System) EventName() string { return "system" }

// Typing carries the "<username> is typing..." indicator text.
type Typing string

func (Typing) EventName() string { return "typing" }

// StopTyping clears a typing indicator. It has no payload.
type StopTyping struct{}

func (StopTyping) EventName() string { return "stopTyping" }

// RoomHistory is the replay of recent room messages, oldest first,
// delivered once to a joining connection only.
type RoomHistory []domain.GroupMessage

func (RoomHistory) EventName() string { return "roomHistory" }

// PrivateHistory is the replay of private messages addressed to a user,
// oldest first, delivered once when the username is registered. Messages
// stored while the recipient was offline come back through this event.
type PrivateHistory []domain.PrivateMessage

func (PrivateHistory) EventName() string { return "privateHistory" }

// NewGroupMessage is the fan-out of a persisted group message.
type NewGroupMessage domain.GroupMessage

func (NewGroupMessage) EventName() string { return "newGroupMessage" }

// NewPrivateMessage is delivered to the sender (echo) and, when online,
// to the recipient.
type NewPrivateMessage domain.PrivateMessage

func (NewPrivateMessage) EventName() string { return "newPrivateMessage" }

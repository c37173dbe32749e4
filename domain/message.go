// Package domain contains core concepts of the chat system.
// Messages are immutable records; they are created by the routing layer
// and never mutated after persistence.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// GroupMessage is a message posted to a room.
type GroupMessage struct {
	ID       uuid.UUID `json:"id"`
	FromUser string    `json:"from_user"`
	Room     string    `json:"room"`
	Body     string    `json:"message"`
	SentAt   time.Time `json:"date_sent"`
}

// PrivateMessage is a direct message between two users. It is persisted
// whether or not the recipient is online at send time.
type PrivateMessage struct {
	ID       uuid.UUID `json:"id"`
	FromUser string    `json:"from_user"`
	ToUser   string    `json:"to_user"`
	Body     string    `json:"message"`
	SentAt   time.Time `json:"date_sent"`
}

//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"context"

	"chat-server/domain/event"
)

// EventSink is the outbound side of a single connection. Consume must not
// block the caller indefinitely: a sink whose client cannot keep up is
// expected to drop the event and report it, not to stall room fan-out.
type EventSink interface {
	Consume(ctx context.Context, e event.ServerEvent) error
}

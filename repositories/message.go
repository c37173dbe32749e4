//go:generate go run go.uber.org/mock/mockgen -source=message.go -destination=../mocks/mock_message_repository.go -package=mocks
package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/dgraph-io/badger/v4"
	"github.com/samber/lo"

	"chat-server/domain"
)

type IMessageRepository interface {
	StoreGroup(ctx context.Context, msg domain.GroupMessage) error
	StorePrivate(ctx context.Context, msg domain.PrivateMessage) error
	GroupHistory(ctx context.Context, room string) ([]domain.GroupMessage, error)
	PrivateInbox(ctx context.Context, username string) ([]domain.PrivateMessage, error)
}

type MessageRepository struct {
	db            *badger.DB
	log           *slog.Logger
	limitMessages *int
}

func NewMessageRepository(db *badger.DB, log *slog.Logger, limitMessages *int) MessageRepository {
	return MessageRepository{db: db, log: log, limitMessages: limitMessages}
}

// Keys are formatted as "<kind>:<scope>:{timestamp_padded}:{uuid}" to:
//  1. Ensure chronological sorting using 19-digit zero padding
//     (lexicographical order).
//  2. Prevent data loss by using UUID as a collision disconnector if two
//     messages arrive at the same nanosecond.
//
// The scope segment (room or recipient) is query-escaped so a name
// containing ':' cannot leak into a neighbouring key space.
func groupKey(msg domain.GroupMessage) []byte {
	return []byte(fmt.Sprintf("grp:%s:%019d:%s",
		url.QueryEscape(msg.Room), msg.SentAt.UnixNano(), msg.ID))
}

func privateKey(msg domain.PrivateMessage) []byte {
	return []byte(fmt.Sprintf("pm:%s:%019d:%s",
		url.QueryEscape(msg.ToUser), msg.SentAt.UnixNano(), msg.ID))
}

func (m MessageRepository) StoreGroup(ctx context.Context, msg domain.GroupMessage) error {
	return m.store(ctx, groupKey(msg), msg)
}

func (m MessageRepository) StorePrivate(ctx context.Context, msg domain.PrivateMessage) error {
	return m.store(ctx, privateKey(msg), msg)
}

// store persists the JSON-encoded message. Badger transactions are not
// interruptible, so the context deadline is checked up front; an already
// expired deadline counts as a persistence failure.
func (m MessageRepository) store(ctx context.Context, key []byte, msg any) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("store aborted: %w", err)
	}
	bytes, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal failed: %w", err)
	}
	return m.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, bytes)
	})
}

// GroupHistory returns the most recent messages of a room, oldest first.
// Thanks to the padded timestamp in the key, a reverse prefix scan visits
// messages newest first; collection stops at the configured limit and the
// slice is re-reversed into chronological order.
func (m MessageRepository) GroupHistory(ctx context.Context, room string) ([]domain.GroupMessage, error) {
	prefix := fmt.Sprintf("grp:%s:", url.QueryEscape(room))
	values, err := m.scanNewestFirst(ctx, prefix)
	if err != nil {
		return nil, err
	}
	messages := make([]domain.GroupMessage, 0, len(values))
	for _, b := range values {
		var msg domain.GroupMessage
		if err = json.Unmarshal(b, &msg); err != nil {
			return nil, fmt.Errorf("corrupt group message: %w", err)
		}
		messages = append(messages, msg)
	}
	return lo.Reverse(messages), nil
}

// PrivateInbox returns the most recent private messages addressed to a user,
// oldest first. Messages saved while the recipient was offline are retrieved
// the same way.
func (m MessageRepository) PrivateInbox(ctx context.Context, username string) ([]domain.PrivateMessage, error) {
	prefix := fmt.Sprintf("pm:%s:", url.QueryEscape(username))
	values, err := m.scanNewestFirst(ctx, prefix)
	if err != nil {
		return nil, err
	}
	messages := make([]domain.PrivateMessage, 0, len(values))
	for _, b := range values {
		var msg domain.PrivateMessage
		if err = json.Unmarshal(b, &msg); err != nil {
			return nil, fmt.Errorf("corrupt private message: %w", err)
		}
		messages = append(messages, msg)
	}
	return lo.Reverse(messages), nil
}

func (m MessageRepository) scanNewestFirst(ctx context.Context, prefixStr string) ([][]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("scan aborted: %w", err)
	}
	var values [][]byte
	err := m.db.View(func(txn *badger.Txn) error {
		prefix := []byte(prefixStr)
		options := badger.DefaultIteratorOptions
		options.Reverse = true
		it := txn.NewIterator(options)
		defer it.Close()

		// Seek past the last possible key of the prefix, then walk backwards.
		seekKey := append(append([]byte{}, prefix...), 0xFF)
		for it.Seek(seekKey); it.ValidForPrefix(prefix); it.Next() {
			if m.limitMessages != nil && len(values) == *m.limitMessages {
				m.log.Debug(fmt.Sprintf("Maximum of %d messages reached", *m.limitMessages))
				break
			}
			err := it.Item().Value(func(value []byte) error {
				values = append(values, append([]byte{}, value...))
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return values, nil
}

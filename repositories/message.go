//go:generate go run go.uber.org/mock/mockgen -source=message.go -destination=../mocks/mock_message_repository.go -package=mocks
package repositories

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"mediator/domain"
	"slices"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
)

const MessagePrefix = "msg:"

type IMessageRepository interface {
	StoreMessage(message domain.Message) error
	GetMessages(roomCode domain.RoomCode) ([]domain.Message, error)
}

type MessageRepository struct {
	db            *badger.DB
	log           *slog.Logger
	limitMessages *int
}

func NewMessageRepository(db *badger.DB, log *slog.Logger, limitMessages *int) MessageRepository {
	return MessageRepository{db: db, log: log, limitMessages: limitMessages}
}

type DiskMessage struct {
	ID        uuid.UUID `json:"id"`
	RoomCode  string    `json:"room_code"`
	Email     string    `json:"email"`
	Content   string    `json:"content"`
	Role      string    `json:"role"`
	IsPublic  bool      `json:"is_public"`
	IsContext bool      `json:"is_context"`
	CreatedAt time.Time `json:"created_at"`
}

// StoreMessage persists a message in BadgerDB.
// The key is formatted as "msg:{room_code}:{timestamp_padded}:{uuid}" to:
//  1. Ensure chronological sorting using 19-digit zero padding (lexicographical order).
//  2. Prevent data loss by using UUID as a collision disconnector if two messages
//     arrive at the same nanosecond.
func (m MessageRepository) StoreMessage(message domain.Message) error {
	key := fmt.Sprintf("%s%s:%019d:%s",
		MessagePrefix,
		message.RoomCode,
		message.CreatedAt.UnixNano(),
		message.ID,
	)
	bytes, err := json.Marshal(fromDomainMessage(message))
	if err != nil {
		return storeError(err)
	}
	return storeError(m.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), bytes)
	}))
}

// GetMessages retrieves the messages of a room oldest first.
// With a configured limit only the most recent ones are kept, walking
// the padded keys backwards and restoring chronological order afterwards.
func (m MessageRepository) GetMessages(roomCode domain.RoomCode) ([]domain.Message, error) {
	var messages []domain.Message
	err := m.db.View(func(txn *badger.Txn) error {
		prefix := []byte(MessagePrefix + roomCode + ":")
		options := badger.DefaultIteratorOptions
		options.Prefix = prefix
		options.Reverse = true
		it := txn.NewIterator(options)
		defer it.Close()

		// Largest possible key of the room, reverse iteration starts from it
		seekKey := append(slices.Clone(prefix), 0xFF)
		for it.Seek(seekKey); it.ValidForPrefix(prefix); it.Next() {
			if m.limitMessages != nil && len(messages) == *m.limitMessages {
				m.log.Debug(fmt.Sprintf("Maximum of %d message reached", *m.limitMessages))
				break
			}
			var diskMessage DiskMessage
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &diskMessage)
			}); err != nil {
				return err
			}
			messages = append(messages, diskMessage.ToDomain())
		}
		return nil
	})
	if err != nil {
		return nil, storeError(err)
	}
	slices.Reverse(messages)
	return messages, nil
}

func fromDomainMessage(message domain.Message) DiskMessage {
	return DiskMessage{
		ID:        message.ID,
		RoomCode:  message.RoomCode,
		Email:     message.Email,
		Content:   message.Content,
		Role:      string(message.Role),
		IsPublic:  message.IsPublic,
		IsContext: message.IsContext,
		CreatedAt: message.CreatedAt,
	}
}

func (d DiskMessage) ToDomain() domain.Message {
	return domain.Message{
		ID:        d.ID,
		RoomCode:  d.RoomCode,
		Email:     d.Email,
		Content:   d.Content,
		Role:      domain.Role(d.Role),
		IsPublic:  d.IsPublic,
		IsContext: d.IsContext,
		CreatedAt: d.CreatedAt.UTC(),
	}
}

package search

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"mediator/domain"
	"mediator/domain/event"
	"mediator/errors"
	"mediator/repositories"
	"slices"
	"strings"
	"time"

	"github.com/blugelabs/bluge"
)

const (
	fieldID         = "_id"
	fieldRoomCode   = "room_code"
	fieldEmail      = "email"
	fieldContent    = "content"
	fieldVisibility = "visibility"
	fieldRole       = "role"
	fieldCreatedAt  = "created_at"

	visibilityPublic  = "public"
	visibilityPrivate = "private"
)

// Hit is one message matching a search.
type Hit struct {
	ID        string
	RoomCode  string
	Email     string
	Content   string
	Role      domain.Role
	IsPublic  bool
	CreatedAt time.Time
}

// MessageIndex is the full-text index of room messages.
// Badger stays the source of truth, the index only serves search.
type MessageIndex struct {
	writer *bluge.Writer
	log    *slog.Logger
	limit  int
}

func NewMessageIndex(writer *bluge.Writer, log *slog.Logger, limit int) *MessageIndex {
	return &MessageIndex{writer: writer, log: log, limit: limit}
}

// Index adds or replaces the document of a message.
func (i *MessageIndex) Index(message domain.Message) error {
	visibility := visibilityPrivate
	if message.IsPublic {
		visibility = visibilityPublic
	}
	doc := bluge.NewDocument(message.ID.String()).
		AddField(bluge.NewKeywordField(fieldRoomCode, message.RoomCode).StoreValue()).
		AddField(bluge.NewKeywordField(fieldEmail, message.Email).StoreValue()).
		AddField(bluge.NewKeywordField(fieldVisibility, visibility).StoreValue()).
		AddField(bluge.NewKeywordField(fieldRole, string(message.Role)).StoreValue()).
		AddField(bluge.NewTextField(fieldContent, message.Content).StoreValue()).
		AddField(bluge.NewDateTimeField(fieldCreatedAt, message.CreatedAt).StoreValue())

	if err := i.writer.Update(doc.ID(), doc); err != nil {
		return fmt.Errorf("%w: index message %s: %v", errors.ErrPersistence, message.ID, err)
	}
	return nil
}

// Search returns the messages of a room matching terms that the requester may read,
// oldest first. Private messages only match for their author.
func (i *MessageIndex) Search(ctx context.Context, roomCode domain.RoomCode, requester, terms string) ([]Hit, error) {
	terms = strings.TrimSpace(terms)
	if terms == "" {
		return nil, errors.NewValidationError("q")
	}

	reader, err := i.writer.Reader()
	if err != nil {
		return nil, fmt.Errorf("%w: open index reader: %v", errors.ErrPersistence, err)
	}
	defer reader.Close()

	query := bluge.NewBooleanQuery().
		AddMust(bluge.NewTermQuery(roomCode).SetField(fieldRoomCode)).
		AddMust(bluge.NewMatchQuery(terms).SetField(fieldContent)).
		AddShould(bluge.NewTermQuery(visibilityPublic).SetField(fieldVisibility)).
		AddShould(bluge.NewTermQuery(requester).SetField(fieldEmail)).
		SetMinShould(1)

	iterator, err := reader.Search(ctx, bluge.NewTopNSearch(i.limit, query))
	if err != nil {
		return nil, fmt.Errorf("%w: search: %v", errors.ErrPersistence, err)
	}

	var hits []Hit
	match, err := iterator.Next()
	for err == nil && match != nil {
		var hit Hit
		if visitErr := match.VisitStoredFields(func(field string, value []byte) bool {
			switch field {
			case fieldID:
				hit.ID = string(value)
			case fieldRoomCode:
				hit.RoomCode = string(value)
			case fieldEmail:
				hit.Email = string(value)
			case fieldContent:
				hit.Content = string(value)
			case fieldRole:
				hit.Role = domain.Role(value)
			case fieldVisibility:
				hit.IsPublic = string(value) == visibilityPublic
			case fieldCreatedAt:
				if at, decodeErr := bluge.DecodeDateTime(value); decodeErr == nil {
					hit.CreatedAt = at.UTC()
				}
			}
			return true
		}); visitErr != nil {
			return nil, fmt.Errorf("%w: read hit: %v", errors.ErrPersistence, visitErr)
		}
		hits = append(hits, hit)
		match, err = iterator.Next()
	}
	if err != nil {
		return nil, fmt.Errorf("%w: iterate hits: %v", errors.ErrPersistence, err)
	}

	slices.SortFunc(hits, func(a, b Hit) int { return a.CreatedAt.Compare(b.CreatedAt) })
	i.log.Debug("Search done", "room_code", roomCode, "terms", terms, "hits", len(hits))
	return hits, nil
}

// Consume indexes inserted messages coming from the change feed.
func (i *MessageIndex) Consume(_ context.Context, c event.Change) error {
	if c.Table != event.TableMessages || c.Type != event.ChangeInsert {
		return nil
	}
	var diskMessage repositories.DiskMessage
	if err := json.Unmarshal(c.Record, &diskMessage); err != nil {
		return err
	}
	return i.Index(diskMessage.ToDomain())
}

package search

import (
	"context"
	"encoding/json"
	"log/slog"
	"mediator/domain"
	"mediator/domain/event"
	"mediator/errors"
	"mediator/repositories"
	"testing"
	"time"

	"github.com/blugelabs/bluge"
	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
)

func openIndex(t *testing.T) *MessageIndex {
	t.Helper()
	writer, err := bluge.OpenWriter(bluge.DefaultConfig(t.TempDir()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = writer.Close() })
	return NewMessageIndex(writer, slog.Default(), 10)
}

func message(room, email, content string, public bool, at time.Time) domain.Message {
	return domain.Message{
		ID: uuid.New(), RoomCode: room, Email: email, Content: content,
		Role: domain.RoleUser, IsPublic: public, CreatedAt: at,
	}
}

func TestMessageIndex_Search_RespectsVisibility(t *testing.T) {
	req := require.New(t)
	index := openIndex(t)
	at := time.Now().UTC().Truncate(time.Millisecond)

	messages := []domain.Message{
		message("ROOMAAAAAAAAA", "alice@x.com", "the invoice was paid late", true, at),
		message("ROOMAAAAAAAAA", "alice@x.com", "my private invoice worry", false, at.Add(time.Second)),
		message("ROOMAAAAAAAAA", "bob@x.com", "bob private invoice note", false, at.Add(2*time.Second)),
		message("ROOMBBBBBBBBB", "bob@x.com", "invoice in another room", true, at),
		message("ROOMAAAAAAAAA", "bob@x.com", "unrelated delivery", true, at),
	}
	for _, m := range messages {
		req.NoError(index.Index(m))
	}

	aliceHits, err := index.Search(context.Background(), "ROOMAAAAAAAAA", "alice@x.com", "invoice")
	req.NoError(err)
	req.Equal([]string{messages[0].ID.String(), messages[1].ID.String()},
		lo.Map(aliceHits, func(h Hit, _ int) string { return h.ID }))
	req.Equal("the invoice was paid late", aliceHits[0].Content)
	req.True(aliceHits[0].IsPublic)
	req.False(aliceHits[1].IsPublic)

	bobHits, err := index.Search(context.Background(), "ROOMAAAAAAAAA", "bob@x.com", "invoice")
	req.NoError(err)
	req.Equal([]string{messages[0].ID.String(), messages[2].ID.String()},
		lo.Map(bobHits, func(h Hit, _ int) string { return h.ID }))

	_, err = index.Search(context.Background(), "ROOMAAAAAAAAA", "bob@x.com", "  ")
	req.ErrorIs(err, errors.ErrValidation)
}

func TestMessageIndex_Consume(t *testing.T) {
	req := require.New(t)
	index := openIndex(t)
	m := message("ROOMAAAAAAAAA", "alice@x.com", "caucus summary", true, time.Now().UTC())
	record, err := json.Marshal(repositories.DiskMessage{
		ID: m.ID, RoomCode: m.RoomCode, Email: m.Email, Content: m.Content,
		Role: string(m.Role), IsPublic: m.IsPublic, CreatedAt: m.CreatedAt,
	})
	req.NoError(err)

	// Membership changes are ignored
	req.NoError(index.Consume(context.Background(), event.Change{Table: event.TableMemberships, Type: event.ChangeUpdate}))
	req.NoError(index.Consume(context.Background(), event.Change{
		Table: event.TableMessages, Type: event.ChangeInsert, RoomCode: m.RoomCode, Record: record,
	}))

	hits, err := index.Search(context.Background(), "ROOMAAAAAAAAA", "carol@x.com", "summary")
	req.NoError(err)
	req.Len(hits, 1)
	req.Equal(m.ID.String(), hits[0].ID)
}

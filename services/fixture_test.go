package services

import (
	"context"
	"log/slog"
	"mediator/auth"
	"mediator/domain"
	"mediator/repositories"
	"sync"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// tickingClock moves forward on every read so that stored rows keep a strict order.
type tickingClock struct {
	mu sync.Mutex
	at time.Time
}

func newClock() *tickingClock {
	return &tickingClock{at: time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *tickingClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.at = c.at.Add(time.Millisecond)
	return c.at
}

type store struct {
	rooms    repositories.RoomRepository
	members  repositories.MembershipRepository
	messages repositories.MessageRepository
	clock    *tickingClock
}

func newStore(t *testing.T) store {
	t.Helper()
	db, err := badger.Open(badger.DefaultOptions("").WithInMemory(true).WithLogger(nil))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return store{
		rooms:    repositories.NewRoomRepository(db, slog.Default()),
		members:  repositories.NewMembershipRepository(db, slog.Default()),
		messages: repositories.NewMessageRepository(db, slog.Default(), nil),
		clock:    newClock(),
	}
}

// seedRoom stores a top-level room and its members without any fan-out.
func (s store) seedRoom(t *testing.T, code, name string, emails ...string) domain.Room {
	t.Helper()
	at := s.clock.Now()
	room := domain.Room{
		Code:         code,
		Name:         name,
		Description:  "Unpaid invoice",
		Mediator:     domain.MediatorLawyer,
		CreatorEmail: emails[0],
		CreatedAt:    at,
		UpdatedAt:    at,
	}
	require.NoError(t, s.rooms.CreateRoom(room))
	require.NoError(t, s.members.AddMembers(code, emails, at))
	return room
}

func (s store) seedMessage(t *testing.T, room, email, content string, role domain.Role, public bool) domain.Message {
	t.Helper()
	m := domain.Message{
		ID:        uuid.New(),
		RoomCode:  room,
		Email:     email,
		Content:   content,
		Role:      role,
		IsPublic:  public,
		CreatedAt: s.clock.Now(),
	}
	require.NoError(t, s.messages.StoreMessage(m))
	return m
}

func (s store) lifecycle(initializer RoomInitializer) *LifecycleService {
	svc := NewLifecycleService(s.rooms, s.members, initializer, slog.Default())
	svc.now = s.clock.Now
	return svc
}

func as(email string) context.Context {
	return auth.WithEmail(context.Background(), email)
}

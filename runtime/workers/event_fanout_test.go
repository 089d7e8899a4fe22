package workers

import (
	"context"
	"log/slog"
	"mediator/domain"
	"mediator/domain/event"
	"mediator/mocks"
	"mediator/repositories"
	"sync"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type collectingSink struct {
	mu      sync.Mutex
	changes []event.Change
}

func (s *collectingSink) Consume(_ context.Context, c event.Change) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.changes = append(s.changes, c)
	return nil
}

func (s *collectingSink) snapshot() []event.Change {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]event.Change(nil), s.changes...)
}

func TestEventFanout_PublishesCommittedWrites(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	db, err := badger.Open(badger.DefaultOptions("").WithInMemory(true).WithLogger(nil))
	req.NoError(err)
	defer db.Close()

	sink := &collectingSink{}
	fanout := NewEventFanout(log, db, time.Second).Add(sink)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = fanout.Run(ctx) }()
	// Let the subscription register before writing
	time.Sleep(100 * time.Millisecond)

	at := time.Now().UTC()
	members := repositories.NewMembershipRepository(db, log)
	messages := repositories.NewMessageRepository(db, log, nil)
	req.NoError(members.AddMembers("ROOMAAAAAAAAA", []string{"bob@x.com"}, at))
	_, err = members.SetInputEnabled("ROOMAAAAAAAAA", "bob@x.com", false, at.Add(time.Second))
	req.NoError(err)
	req.NoError(messages.StoreMessage(domain.Message{
		ID: uuid.New(), RoomCode: "ROOMAAAAAAAAA", Email: "bob@x.com", Content: "hi",
		Role: domain.RoleUser, IsPublic: true, CreatedAt: at,
	}))

	req.Eventually(func() bool { return len(sink.snapshot()) == 3 }, 2*time.Second, 20*time.Millisecond)
	changes := sink.snapshot()
	req.Equal(event.TableMemberships, changes[0].Table)
	req.Equal(event.ChangeInsert, changes[0].Type)
	req.Equal(event.TableMemberships, changes[1].Table)
	req.Equal(event.ChangeUpdate, changes[1].Type)
	req.Equal(event.TableMessages, changes[2].Table)
	for _, c := range changes {
		req.Equal("ROOMAAAAAAAAA", c.RoomCode)
	}
}

func TestEventFanout_SinkTimeout(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	ctrl := gomock.NewController(t)

	slowSink := mocks.NewMockEventSink(ctrl)
	nextSink := mocks.NewMockEventSink(ctrl)
	sinkTimeout := 20 * time.Millisecond

	// Given a sink that only returns once its deadline expired
	slowSink.EXPECT().Consume(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, c event.Change) error {
			<-ctx.Done()
			return ctx.Err()
		}).Times(1)
	// Then the next sink still receives the change
	nextSink.EXPECT().Consume(gomock.Any(), gomock.Any()).Return(nil).Times(1)

	fanout := NewEventFanout(log, nil, sinkTimeout).Add(slowSink, nextSink)

	start := time.Now()
	fanout.Fanout(context.Background(), event.Change{Table: event.TableMessages, RoomCode: "ROOMAAAAAAAAA"})
	req.Less(time.Since(start), time.Second)
}

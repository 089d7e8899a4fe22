package workers

import (
	"context"
	"fmt"
	"log/slog"
	"mediator/contract"
	"mediator/domain/event"
	"mediator/repositories"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/pb"
	"github.com/samber/lo"
)

// EventFanout subscribes to committed badger writes on rooms, memberships
// and messages and broadcasts them as changes to in-process sinks.
//
// It provides best-effort fan-out with no guarantees regarding delivery,
// durability, or retries. EventFanout is not a message broker: sinks that
// need durability (NATS, search index) own it.
type EventFanout struct {
	log         *slog.Logger
	db          *badger.DB
	sinks       []contract.EventSink
	sinkTimeout time.Duration
}

func NewEventFanout(log *slog.Logger, db *badger.DB, sinkTimeout time.Duration) *EventFanout {
	return &EventFanout{log: log, db: db, sinkTimeout: sinkTimeout}
}

func (w *EventFanout) Add(sinks ...contract.EventSink) *EventFanout {
	w.sinks = append(w.sinks, sinks...)
	return w
}

// Run blocks on the badger subscription until ctx is canceled.
func (w *EventFanout) Run(ctx context.Context) error {
	matches := lo.Map(repositories.WatchedPrefixes, func(prefix string, _ int) pb.Match {
		return pb.Match{Prefix: []byte(prefix)}
	})
	return w.db.Subscribe(ctx, func(kvs *badger.KVList) error {
		now := time.Now().UTC()
		for _, kv := range kvs.Kv {
			change, ok := repositories.DecodeChange(kv.Key, kv.Value, now)
			if !ok {
				continue
			}
			w.Fanout(ctx, change)
		}
		return nil
	}, matches)
}

// Fanout delivers the change to each sink in turn, each bounded by the sink timeout.
func (w *EventFanout) Fanout(ctx context.Context, change event.Change) {
	for _, sink := range w.sinks {
		sinkCtx, cancel := context.WithTimeout(ctx, w.sinkTimeout)
		if err := sink.Consume(sinkCtx, change); err != nil {
			w.log.Warn("Sink failed to consume change",
				"sink", fmt.Sprintf("%T", sink),
				"room_code", change.RoomCode,
				"table", change.Table,
				"error", err)
		}
		cancel()
	}
}

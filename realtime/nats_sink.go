// Package realtime publishes store changes to NATS so that clients can follow
// the messages and memberships of the rooms they are in.
package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"mediator/domain/event"

	"github.com/nats-io/nats.go"
)

// Publisher is the part of *nats.Conn the sink needs.
type Publisher interface {
	Publish(subject string, data []byte) error
}

// NatsSink publishes every change on "{namespace}.room.{code}.{table}.{type}".
// Subscribers filter on a room with "{namespace}.room.{code}.>".
type NatsSink struct {
	publisher Publisher
	namespace string
	log       *slog.Logger
}

func NewNatsSink(publisher Publisher, namespace string, log *slog.Logger) *NatsSink {
	return &NatsSink{publisher: publisher, namespace: namespace, log: log}
}

// Connect opens the NATS connection used by the sink.
func Connect(url, name string, log *slog.Logger) (*nats.Conn, error) {
	return nats.Connect(url,
		nats.Name(name),
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			log.Warn("NATS disconnected", "error", err)
		}),
		nats.ReconnectHandler(func(conn *nats.Conn) {
			log.Info("NATS reconnected", "url", conn.ConnectedUrl())
		}),
	)
}

func (s *NatsSink) Consume(ctx context.Context, c event.Change) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	payload, err := json.Marshal(c)
	if err != nil {
		return err
	}
	subject := c.Subject(s.namespace)
	if err = s.publisher.Publish(subject, payload); err != nil {
		return fmt.Errorf("publish %s: %w", subject, err)
	}
	s.log.Debug("Change published", "subject", subject)
	return nil
}

// RoomSubject is the wildcard subject of every change of a room.
func RoomSubject(namespace, roomCode string) string {
	return fmt.Sprintf("%s.room.%s.>", namespace, roomCode)
}

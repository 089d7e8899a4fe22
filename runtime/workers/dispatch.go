package workers

import (
	"context"
	"fmt"
	"log/slog"
	"mediator/errors"
	"mediator/osmobro"
	"time"
)

// DispatchWorker forwards chat messages to the router in the background
// so that callers never wait on it. Delivery is attempted once.
type DispatchWorker struct {
	log      *slog.Logger
	router   osmobro.IRouter
	messages chan osmobro.Message
	timeout  time.Duration
}

func NewDispatchWorker(log *slog.Logger, router osmobro.IRouter, bufferSize int, timeout time.Duration) *DispatchWorker {
	return &DispatchWorker{
		log:      log,
		router:   router,
		messages: make(chan osmobro.Message, bufferSize),
		timeout:  timeout,
	}
}

// Enqueue never blocks; a full buffer drops the message with ErrDispatchQueueFull.
func (w *DispatchWorker) Enqueue(message osmobro.Message) error {
	select {
	case w.messages <- message:
		return nil
	default:
		return fmt.Errorf("%w: room %s", errors.ErrDispatchQueueFull, message.RoomCode)
	}
}

// Queue exposes the buffer to the telemetry worker.
func (w *DispatchWorker) Queue() chan osmobro.Message {
	return w.messages
}

func (w *DispatchWorker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Context done, stopping router dispatch")
			return ctx.Err()
		case message := <-w.messages:
			w.send(ctx, message)
		}
	}
}

func (w *DispatchWorker) send(ctx context.Context, message osmobro.Message) {
	ctx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()
	if err := w.router.SendMessage(ctx, message); err != nil {
		w.log.Warn("Router dispatch failed", "room_code", message.RoomCode, "error", err)
		return
	}
	w.log.Info("Sent message to osmobro", "room_code", message.RoomCode, "role", message.Role)
}

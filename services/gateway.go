package services

import (
	"context"
	"fmt"
	"log/slog"
	"mediator/auth"
	"mediator/domain"
	"mediator/errors"
	"mediator/osmobro"
	"strings"
)

// Dispatcher queues a message for the router without waiting for delivery.
type Dispatcher interface {
	Enqueue(message osmobro.Message) error
}

type OutboundMessage struct {
	Email     string
	Content   string
	RoomCode  domain.RoomCode
	Role      domain.Role
	IsPublic  bool
	IsContext bool
}

type IGateway interface {
	SendMessage(ctx context.Context, message OutboundMessage) error
	InitialiseRoom(ctx context.Context, roomCode domain.RoomCode) error
	SyncContext(ctx context.Context, roomCode domain.RoomCode) error
}

// Gateway validates chat messages and hands them to the osmobro router.
type Gateway struct {
	dispatcher Dispatcher
	router     osmobro.IRouter
	log        *slog.Logger
}

func NewGateway(dispatcher Dispatcher, router osmobro.IRouter, log *slog.Logger) *Gateway {
	return &Gateway{dispatcher: dispatcher, router: router, log: log}
}

// SendMessage returns as soon as the message is queued. Nothing is queued
// when validation fails.
// An authenticated caller only sends as itself, an empty email defaults to it.
// Calls without identity are trusted internal ones.
func (g *Gateway) SendMessage(ctx context.Context, message OutboundMessage) error {
	sender, err := auth.EmailFromContext(ctx)
	if err == nil && message.Email == "" {
		message.Email = sender
	}
	if err := auth.ValidateMessage(auth.MessageRequest{
		Email:     message.Email,
		Content:   message.Content,
		RoomCode:  message.RoomCode,
		Role:      string(message.Role),
		IsPublic:  message.IsPublic,
		IsContext: message.IsContext,
	}); err != nil {
		return err
	}
	if sender != "" && !strings.EqualFold(sender, message.Email) {
		return fmt.Errorf("%w: %s cannot send as %s", errors.ErrForbiddenSender, sender, message.Email)
	}

	if err := g.dispatcher.Enqueue(osmobro.Message{
		Email:     message.Email,
		Content:   message.Content,
		RoomCode:  message.RoomCode,
		Role:      string(message.Role),
		IsPublic:  message.IsPublic,
		IsContext: message.IsContext,
	}); err != nil {
		// Routing is best effort, the caller is not held back
		g.log.Warn("Message not queued for router", "room_code", message.RoomCode, "error", err)
	}
	return nil
}

func (g *Gateway) InitialiseRoom(ctx context.Context, roomCode domain.RoomCode) error {
	return g.router.InitialiseRoom(ctx, roomCode)
}

func (g *Gateway) SyncContext(ctx context.Context, roomCode domain.RoomCode) error {
	return g.router.SyncContext(ctx, roomCode)
}

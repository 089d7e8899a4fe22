// Package domain contains core concepts of the mediated chat.
// This file defines Message entries and their visibility rules.
// Messages are append-only and never edited once stored.
package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleUser           Role = "user"
	RoleAssistant      Role = "assistant"
	RoleSystem         Role = "system"
	RoleMediator       Role = "mediator"
	RoleRepresentative Role = "representative"
)

func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleUser, RoleAssistant, RoleSystem, RoleMediator, RoleRepresentative:
		return Role(s), nil
	default:
		return "", fmt.Errorf("unknown role %q", s)
	}
}

// Message is one entry of a room log.
type Message struct {
	ID        uuid.UUID
	RoomCode  RoomCode
	Email     string
	Content   string
	Role      Role
	IsPublic  bool
	IsContext bool
	CreatedAt time.Time
}

// VisibleTo reports whether the given user may read the message.
// Private messages are only ever shown to their author.
func (m Message) VisibleTo(email string) bool {
	return m.IsPublic || m.Email == email
}

// Decorated is the content as presented to the mediator, tagged with
// its author, its visibility and the room it was written in.
func (m Message) Decorated() string {
	visibility := "Private"
	if m.IsPublic {
		visibility = "Public"
	}
	return fmt.Sprintf("%s - Asked by %s - %s in room %s", m.Content, m.Email, visibility, m.RoomCode)
}

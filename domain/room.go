// Package domain contains core concepts of the mediated chat.
// This file defines rooms and the breakout relation between them.
package domain

import (
	"fmt"
	"time"
)

type RoomCode = string

// Room is either a top-level room shared by all participants
// or a breakout room owned by exactly one of them.
type Room struct {
	Code           RoomCode
	Name           string
	Description    string
	Mediator       MediatorType
	CreatorEmail   string
	ParentRoomCode RoomCode
	IsChatEnded    bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (r Room) IsBreakout() bool {
	return r.ParentRoomCode != ""
}

// ParentOrSelf returns the code of the top-level room this room belongs to.
func (r Room) ParentOrSelf() RoomCode {
	if r.IsBreakout() {
		return r.ParentRoomCode
	}
	return r.Code
}

// BreakoutName derives the name of the breakout room opened for the given member.
func (r Room) BreakoutName(email string) string {
	name := r.Name
	if name == "" {
		name = r.Code
	}
	return fmt.Sprintf("%s - %s", name, email)
}

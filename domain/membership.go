package domain

import (
	"fmt"
	"time"
)

type MembershipStatus string

const (
	StatusInCaucus          MembershipStatus = "in_caucus"
	StatusInMediation       MembershipStatus = "in_mediation"
	StatusAwaitingMediation MembershipStatus = "awaiting_mediation"
	StatusResolved          MembershipStatus = "resolved"
)

func ParseMembershipStatus(s string) (MembershipStatus, error) {
	switch MembershipStatus(s) {
	case StatusInCaucus, StatusInMediation, StatusAwaitingMediation, StatusResolved:
		return MembershipStatus(s), nil
	default:
		return "", fmt.Errorf("unknown membership status %q", s)
	}
}

func (s MembershipStatus) Title() string {
	switch s {
	case StatusInCaucus:
		return "Caucus"
	case StatusInMediation:
		return "Mediation"
	case StatusAwaitingMediation:
		return "Waiting"
	case StatusResolved:
		return "Resolved"
	default:
		return string(s)
	}
}

func (s MembershipStatus) Description() string {
	switch s {
	case StatusInCaucus:
		return "Your representative will ask you questions to understand your perspective on the conflict."
	case StatusInMediation:
		return "Your representative is presenting your case to the mediator. Please wait. You will receive an update shortly."
	case StatusAwaitingMediation:
		return "Your representative has enough information for now. Mediation will start once all parties have briefed their representatives."
	case StatusResolved:
		return "An agreement has been made. You may reinitiate a conversation with your representative at any time."
	default:
		return ""
	}
}

// Membership links a user to a room. IsInputEnable gates whether
// the user may currently type in that room.
type Membership struct {
	RoomCode      RoomCode
	Email         string
	IsInputEnable bool
	Status        MembershipStatus
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func NewMembership(roomCode RoomCode, email string, at time.Time) Membership {
	return Membership{
		RoomCode:      roomCode,
		Email:         email,
		IsInputEnable: true,
		Status:        StatusInCaucus,
		CreatedAt:     at,
	}
}

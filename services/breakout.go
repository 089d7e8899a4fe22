package services

import (
	"context"
	"fmt"
	"log/slog"
	"mediator/auth"
	"mediator/domain"
	"mediator/errors"
	"mediator/repositories"
)

// BreakoutFanout creates the breakout set of a parent room.
type BreakoutFanout interface {
	CreateBreakoutRooms(ctx context.Context, parentCode domain.RoomCode) ([]domain.RoomCode, error)
}

type IBreakoutResolver interface {
	GetBreakoutRoom(ctx context.Context, roomCode domain.RoomCode) (domain.Room, error)
}

type BreakoutResolver struct {
	rooms   repositories.IRoomRepository
	members repositories.IMembershipRepository
	fanout  BreakoutFanout
	log     *slog.Logger
}

func NewBreakoutResolver(
	rooms repositories.IRoomRepository,
	members repositories.IMembershipRepository,
	fanout BreakoutFanout,
	log *slog.Logger,
) *BreakoutResolver {
	return &BreakoutResolver{rooms: rooms, members: members, fanout: fanout, log: log}
}

// GetBreakoutRoom returns the requester's breakout room of the given parent.
// A breakout code is returned as is. When the set does not exist yet it is
// created once and looked up a second time, never more.
func (r *BreakoutResolver) GetBreakoutRoom(ctx context.Context, roomCode domain.RoomCode) (domain.Room, error) {
	room, err := r.rooms.GetRoom(roomCode)
	if err != nil {
		return domain.Room{}, err
	}
	if room.IsBreakout() {
		return room, nil
	}

	email, err := auth.EmailFromContext(ctx)
	if err != nil {
		return domain.Room{}, err
	}
	// Only participants get a breakout room, a stranger would trigger a useless fan-out
	if _, err = r.members.GetMember(roomCode, email); err != nil {
		return domain.Room{}, err
	}

	breakout, found, err := r.rooms.FindBreakout(roomCode, email)
	if err != nil {
		return domain.Room{}, err
	}
	if found {
		return breakout, nil
	}

	r.log.Info("No breakout room yet, fanning out", "parent_room_code", roomCode, "email", email)
	if _, err = r.fanout.CreateBreakoutRooms(ctx, roomCode); err != nil {
		return domain.Room{}, err
	}

	breakout, found, err = r.rooms.FindBreakout(roomCode, email)
	if err != nil {
		return domain.Room{}, err
	}
	if !found {
		return domain.Room{}, fmt.Errorf("%w: parent %s, user %s", errors.ErrBreakoutResolution, roomCode, email)
	}
	return breakout, nil
}

package services

import (
	"context"
	"fmt"
	"log/slog"
	"mediator/auth"
	"mediator/domain"
	"mediator/errors"
	"mediator/repositories"
	"strings"
	"time"

	"github.com/samber/lo"
)

// RoomInitializer is told about every breakout room once it is stored.
type RoomInitializer interface {
	InitialiseRoom(ctx context.Context, roomCode string) error
}

type CreateRoomInput struct {
	Mediator       domain.MediatorType
	Description    string
	Participants   []string
	RoomName       string
	CreatorEmail   string
	ParentRoomCode domain.RoomCode
}

type ILifecycleService interface {
	CreateRoom(ctx context.Context, input CreateRoomInput) (domain.RoomCode, error)
	CreateBreakoutRooms(ctx context.Context, parentCode domain.RoomCode) ([]domain.RoomCode, error)
}

// LifecycleService creates rooms and fans top-level rooms out into one
// breakout room per participant.
type LifecycleService struct {
	rooms       repositories.IRoomRepository
	members     repositories.IMembershipRepository
	initializer RoomInitializer
	log         *slog.Logger
	now         func() time.Time
	newCode     func() (domain.RoomCode, error)
}

func NewLifecycleService(
	rooms repositories.IRoomRepository,
	members repositories.IMembershipRepository,
	initializer RoomInitializer,
	log *slog.Logger,
) *LifecycleService {
	return &LifecycleService{
		rooms:       rooms,
		members:     members,
		initializer: initializer,
		log:         log,
		now:         time.Now,
		newCode:     domain.NewRoomCode,
	}
}

// CreateRoom stores the room, then a membership for every participant and the creator.
// A top-level room is fanned out before returning.
func (s *LifecycleService) CreateRoom(ctx context.Context, input CreateRoomInput) (domain.RoomCode, error) {
	creator := strings.TrimSpace(input.CreatorEmail)
	if creator == "" {
		email, err := auth.EmailFromContext(ctx)
		if err != nil {
			return "", err
		}
		creator = email
	}

	participants := lo.Map(input.Participants, func(p string, _ int) string { return strings.TrimSpace(p) })
	if err := auth.ValidateCreateRoom(auth.CreateRoomRequest{
		Mediator:       string(input.Mediator),
		Description:    input.Description,
		Participants:   participants,
		RoomName:       input.RoomName,
		CreatorEmail:   creator,
		ParentRoomCode: input.ParentRoomCode,
	}); err != nil {
		return "", err
	}

	if input.ParentRoomCode != "" {
		parent, err := s.rooms.GetRoom(input.ParentRoomCode)
		if err != nil {
			return "", err
		}
		if parent.IsBreakout() {
			return "", errors.NewValidationError("parent_room_code")
		}
	}

	code, err := s.newCode()
	if err != nil {
		return "", fmt.Errorf("room code: %w", err)
	}
	now := s.now().UTC()
	room := domain.Room{
		Code:           code,
		Name:           strings.TrimSpace(input.RoomName),
		Description:    input.Description,
		Mediator:       input.Mediator,
		CreatorEmail:   creator,
		ParentRoomCode: input.ParentRoomCode,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err = s.rooms.CreateRoom(room); err != nil {
		return "", err
	}

	emails := lo.Uniq(append(participants, creator))
	if err = s.members.AddMembers(code, emails, now); err != nil {
		// The room row stays without members
		s.log.Error("Room created without members", "room_code", code, "error", err)
		return "", err
	}
	s.log.Info("Room created", "room_code", code, "mediator", room.Mediator, "members", len(emails))

	if room.IsBreakout() {
		return code, nil
	}
	if _, err = s.CreateBreakoutRooms(ctx, code); err != nil {
		return "", err
	}
	return code, nil
}

// CreateBreakoutRooms creates one breakout room per current member of the parent,
// then initialises them in creation order. Calling it twice creates a second set.
func (s *LifecycleService) CreateBreakoutRooms(ctx context.Context, parentCode domain.RoomCode) ([]domain.RoomCode, error) {
	parent, err := s.rooms.GetRoom(parentCode)
	if err != nil {
		return nil, err
	}
	if parent.IsBreakout() {
		return nil, fmt.Errorf("%w: %s is already a breakout room", errors.ErrValidation, parentCode)
	}
	members, err := s.members.ListMembers(parentCode)
	if err != nil {
		return nil, err
	}

	codes := make([]domain.RoomCode, 0, len(members))
	for _, member := range members {
		code, err := s.newCode()
		if err != nil {
			return codes, fmt.Errorf("room code: %w", err)
		}
		now := s.now().UTC()
		breakout := domain.Room{
			Code:           code,
			Name:           parent.BreakoutName(member.Email),
			Description:    parent.Description,
			Mediator:       parent.Mediator,
			CreatorEmail:   member.Email,
			ParentRoomCode: parent.Code,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		if err = s.rooms.CreateRoom(breakout); err != nil {
			return codes, err
		}
		if err = s.members.AddMembers(code, []string{member.Email}, now); err != nil {
			s.log.Error("Breakout room created without member", "room_code", code, "email", member.Email, "error", err)
			return codes, err
		}
		codes = append(codes, code)
	}

	// Every breakout is stored before the first one is initialised
	for _, code := range codes {
		if err := s.initializer.InitialiseRoom(ctx, code); err != nil {
			s.log.Warn("Room initialise failed", "room_code", code, "error", err)
		}
	}
	s.log.Info("Breakout rooms created", "parent_room_code", parentCode, "count", len(codes))
	return codes, nil
}

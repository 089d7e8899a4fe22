package services

import (
	"context"
	"log/slog"
	"mediator/auth"
	"mediator/domain"
	"mediator/repositories"
	"mediator/search"
	"slices"
	"time"

	"github.com/samber/lo"
)

// Searcher is the full-text lookup over room messages.
type Searcher interface {
	Search(ctx context.Context, roomCode domain.RoomCode, requester, terms string) ([]search.Hit, error)
}

// StatusView is the status of the requester in a room, ready to display.
type StatusView struct {
	RoomCode    domain.RoomCode
	Status      domain.MembershipStatus
	Title       string
	Description string
	CanType     bool
}

type IRoomService interface {
	VerifyMembership(ctx context.Context, roomCode domain.RoomCode) (domain.Room, domain.Membership, error)
	GetRoom(ctx context.Context, roomCode domain.RoomCode) (domain.Room, error)
	Participants(ctx context.Context, roomCode domain.RoomCode) ([]domain.Participant, error)
	UserRooms(ctx context.Context) ([]domain.Room, error)
	RoomStatus(ctx context.Context, roomCode domain.RoomCode) (StatusView, error)
	ParentRoomCode(ctx context.Context, roomCode domain.RoomCode) (domain.RoomCode, error)
	EndChat(ctx context.Context, roomCode domain.RoomCode) (domain.Room, error)
	SetStatus(ctx context.Context, roomCode domain.RoomCode, email string, status domain.MembershipStatus) (domain.Membership, error)
	ListMessages(ctx context.Context, roomCode domain.RoomCode, debug bool) ([]domain.Message, error)
	Search(ctx context.Context, roomCode domain.RoomCode, terms string) ([]search.Hit, error)
}

// RoomService serves what a participant reads about the rooms they are in.
// Every call is scoped to the authenticated user.
type RoomService struct {
	rooms    repositories.IRoomRepository
	members  repositories.IMembershipRepository
	messages repositories.IMessageRepository
	searcher Searcher
	log      *slog.Logger
	now      func() time.Time
}

func NewRoomService(
	rooms repositories.IRoomRepository,
	members repositories.IMembershipRepository,
	messages repositories.IMessageRepository,
	searcher Searcher,
	log *slog.Logger,
) *RoomService {
	return &RoomService{
		rooms:    rooms,
		members:  members,
		messages: messages,
		searcher: searcher,
		log:      log,
		now:      time.Now,
	}
}

// VerifyMembership fails with ErrRoomNotFound or ErrNotMember.
func (s *RoomService) VerifyMembership(ctx context.Context, roomCode domain.RoomCode) (domain.Room, domain.Membership, error) {
	email, err := auth.EmailFromContext(ctx)
	if err != nil {
		return domain.Room{}, domain.Membership{}, err
	}
	room, err := s.rooms.GetRoom(roomCode)
	if err != nil {
		return domain.Room{}, domain.Membership{}, err
	}
	membership, err := s.members.GetMember(roomCode, email)
	if err != nil {
		return domain.Room{}, domain.Membership{}, err
	}
	return room, membership, nil
}

func (s *RoomService) GetRoom(ctx context.Context, roomCode domain.RoomCode) (domain.Room, error) {
	room, _, err := s.VerifyMembership(ctx, roomCode)
	return room, err
}

func (s *RoomService) Participants(ctx context.Context, roomCode domain.RoomCode) ([]domain.Participant, error) {
	if _, _, err := s.VerifyMembership(ctx, roomCode); err != nil {
		return nil, err
	}
	members, err := s.members.ListMembers(roomCode)
	if err != nil {
		return nil, err
	}
	return lo.Map(members, func(m domain.Membership, _ int) domain.Participant {
		return domain.NewParticipant(m)
	}), nil
}

// UserRooms lists the rooms of the requester, newest first.
func (s *RoomService) UserRooms(ctx context.Context) ([]domain.Room, error) {
	email, err := auth.EmailFromContext(ctx)
	if err != nil {
		return nil, err
	}
	codes, err := s.members.ListRoomCodes(email)
	if err != nil {
		return nil, err
	}
	rooms := make([]domain.Room, 0, len(codes))
	for _, code := range codes {
		room, err := s.rooms.GetRoom(code)
		if err != nil {
			return nil, err
		}
		rooms = append(rooms, room)
	}
	slices.SortStableFunc(rooms, func(a, b domain.Room) int { return b.CreatedAt.Compare(a.CreatedAt) })
	return rooms, nil
}

func (s *RoomService) RoomStatus(ctx context.Context, roomCode domain.RoomCode) (StatusView, error) {
	_, membership, err := s.VerifyMembership(ctx, roomCode)
	if err != nil {
		return StatusView{}, err
	}
	return StatusView{
		RoomCode:    roomCode,
		Status:      membership.Status,
		Title:       membership.Status.Title(),
		Description: membership.Status.Description(),
		CanType:     membership.IsInputEnable,
	}, nil
}

// ParentRoomCode returns the parent of a breakout room, or the code itself.
func (s *RoomService) ParentRoomCode(ctx context.Context, roomCode domain.RoomCode) (domain.RoomCode, error) {
	room, err := s.GetRoom(ctx, roomCode)
	if err != nil {
		return "", err
	}
	return room.ParentOrSelf(), nil
}

func (s *RoomService) EndChat(ctx context.Context, roomCode domain.RoomCode) (domain.Room, error) {
	if _, _, err := s.VerifyMembership(ctx, roomCode); err != nil {
		return domain.Room{}, err
	}
	room, err := s.rooms.EndChat(roomCode, s.now().UTC())
	if err != nil {
		return domain.Room{}, err
	}
	s.log.Info("Chat ended", "room_code", roomCode)
	return room, nil
}

// SetStatus moves a member of the room to another status.
func (s *RoomService) SetStatus(ctx context.Context, roomCode domain.RoomCode, email string, status domain.MembershipStatus) (domain.Membership, error) {
	if err := auth.ValidateStatus(auth.StatusRequest{Email: email, Status: string(status)}); err != nil {
		return domain.Membership{}, err
	}
	if _, _, err := s.VerifyMembership(ctx, roomCode); err != nil {
		return domain.Membership{}, err
	}
	membership, err := s.members.SetStatus(roomCode, email, status, s.now().UTC())
	if err != nil {
		return domain.Membership{}, err
	}
	s.log.Info("Membership status changed", "room_code", roomCode, "email", email, "status", status)
	return membership, nil
}

// ListMessages returns the messages the requester may read, oldest first.
// System messages are only included in debug mode.
func (s *RoomService) ListMessages(ctx context.Context, roomCode domain.RoomCode, debug bool) ([]domain.Message, error) {
	_, membership, err := s.VerifyMembership(ctx, roomCode)
	if err != nil {
		return nil, err
	}
	messages, err := s.messages.GetMessages(roomCode)
	if err != nil {
		return nil, err
	}
	return lo.Filter(messages, func(m domain.Message, _ int) bool {
		if m.Role == domain.RoleSystem && !debug {
			return false
		}
		return m.VisibleTo(membership.Email)
	}), nil
}

func (s *RoomService) Search(ctx context.Context, roomCode domain.RoomCode, terms string) ([]search.Hit, error) {
	_, membership, err := s.VerifyMembership(ctx, roomCode)
	if err != nil {
		return nil, err
	}
	return s.searcher.Search(ctx, roomCode, membership.Email, terms)
}

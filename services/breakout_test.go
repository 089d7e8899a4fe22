package services

import (
	"context"
	"log/slog"
	"mediator/domain"
	"mediator/errors"
	"mediator/mocks"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type fanoutFunc func(ctx context.Context, parentCode domain.RoomCode) ([]domain.RoomCode, error)

func (f fanoutFunc) CreateBreakoutRooms(ctx context.Context, parentCode domain.RoomCode) ([]domain.RoomCode, error) {
	return f(ctx, parentCode)
}

func TestBreakoutResolver_AliceAndBob(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	s := newStore(t)
	router := mocks.NewMockIRouter(ctrl)
	router.EXPECT().InitialiseRoom(gomock.Any(), gomock.Any()).Return(nil).Times(2)
	parent := s.seedRoom(t, "PARENTAAAAAAA", "Invoice", "alice@x.com", "bob@x.com")
	lifecycle := s.lifecycle(router)
	resolver := NewBreakoutResolver(s.rooms, s.members, lifecycle, slog.Default())

	codes, err := lifecycle.CreateBreakoutRooms(context.Background(), parent.Code)
	req.NoError(err)
	req.Len(codes, 2)

	first, err := resolver.GetBreakoutRoom(as("alice@x.com"), parent.Code)
	req.NoError(err)
	req.Equal("alice@x.com", first.CreatorEmail)
	req.Contains(codes, first.Code)

	second, err := resolver.GetBreakoutRoom(as("alice@x.com"), parent.Code)
	req.NoError(err)
	req.Equal(first.Code, second.Code)

	bob, err := resolver.GetBreakoutRoom(as("bob@x.com"), parent.Code)
	req.NoError(err)
	req.Equal("bob@x.com", bob.CreatorEmail)
	req.NotEqual(first.Code, bob.Code)

	breakouts, err := s.rooms.ListBreakouts(parent.Code)
	req.NoError(err)
	req.Len(breakouts, 2)
}

func TestBreakoutResolver_GetBreakoutRoom(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	t.Run("should fan out on first access then reuse the set", func(t *testing.T) {
		req := require.New(t)
		s := newStore(t)
		router := mocks.NewMockIRouter(ctrl)
		router.EXPECT().InitialiseRoom(gomock.Any(), gomock.Any()).Return(nil).Times(2)
		parent := s.seedRoom(t, "PARENTAAAAAAA", "Invoice", "alice@x.com", "bob@x.com")
		lifecycle := s.lifecycle(router)
		fanouts := 0
		resolver := NewBreakoutResolver(s.rooms, s.members, fanoutFunc(func(ctx context.Context, code domain.RoomCode) ([]domain.RoomCode, error) {
			fanouts++
			return lifecycle.CreateBreakoutRooms(ctx, code)
		}), slog.Default())

		alice, err := resolver.GetBreakoutRoom(as("alice@x.com"), parent.Code)
		req.NoError(err)
		req.Equal("alice@x.com", alice.CreatorEmail)

		bob, err := resolver.GetBreakoutRoom(as("bob@x.com"), parent.Code)
		req.NoError(err)
		req.Equal("bob@x.com", bob.CreatorEmail)
		req.Equal(1, fanouts)
	})

	t.Run("should return a breakout room unchanged", func(t *testing.T) {
		req := require.New(t)
		roomRepo := mocks.NewMockIRoomRepository(ctrl)
		memberRepo := mocks.NewMockIMembershipRepository(ctrl)
		breakout := domain.Room{Code: "BREAKOUTAAAAA", ParentRoomCode: "PARENTAAAAAAA", CreatorEmail: "alice@x.com"}
		roomRepo.EXPECT().GetRoom(breakout.Code).Return(breakout, nil)
		roomRepo.EXPECT().FindBreakout(gomock.Any(), gomock.Any()).Times(0)

		resolver := NewBreakoutResolver(roomRepo, memberRepo, fanoutFunc(func(context.Context, domain.RoomCode) ([]domain.RoomCode, error) {
			req.Fail("no fan-out expected")
			return nil, nil
		}), slog.Default())

		// No identity is needed for a breakout code
		room, err := resolver.GetBreakoutRoom(context.Background(), breakout.Code)
		req.NoError(err)
		req.Equal(breakout, room)
	})

	t.Run("should require an authenticated user for a parent room", func(t *testing.T) {
		req := require.New(t)
		roomRepo := mocks.NewMockIRoomRepository(ctrl)
		memberRepo := mocks.NewMockIMembershipRepository(ctrl)
		roomRepo.EXPECT().GetRoom("PARENTAAAAAAA").Return(domain.Room{Code: "PARENTAAAAAAA"}, nil)

		resolver := NewBreakoutResolver(roomRepo, memberRepo, nil, slog.Default())
		_, err := resolver.GetBreakoutRoom(context.Background(), "PARENTAAAAAAA")
		req.ErrorIs(err, errors.ErrUnauthenticated)
	})

	t.Run("should refuse a user outside the room", func(t *testing.T) {
		req := require.New(t)
		roomRepo := mocks.NewMockIRoomRepository(ctrl)
		memberRepo := mocks.NewMockIMembershipRepository(ctrl)
		roomRepo.EXPECT().GetRoom("PARENTAAAAAAA").Return(domain.Room{Code: "PARENTAAAAAAA"}, nil)
		memberRepo.EXPECT().GetMember("PARENTAAAAAAA", "mallory@x.com").Return(domain.Membership{}, errors.ErrNotMember)

		resolver := NewBreakoutResolver(roomRepo, memberRepo, nil, slog.Default())
		_, err := resolver.GetBreakoutRoom(as("mallory@x.com"), "PARENTAAAAAAA")
		req.ErrorIs(err, errors.ErrNotMember)
	})

	t.Run("should look up exactly twice and then give up", func(t *testing.T) {
		req := require.New(t)
		roomRepo := mocks.NewMockIRoomRepository(ctrl)
		memberRepo := mocks.NewMockIMembershipRepository(ctrl)
		roomRepo.EXPECT().GetRoom("PARENTAAAAAAA").Return(domain.Room{Code: "PARENTAAAAAAA"}, nil)
		memberRepo.EXPECT().GetMember("PARENTAAAAAAA", "alice@x.com").Return(domain.Membership{Email: "alice@x.com"}, nil)
		roomRepo.EXPECT().FindBreakout("PARENTAAAAAAA", "alice@x.com").Return(domain.Room{}, false, nil).Times(2)
		fanouts := 0

		resolver := NewBreakoutResolver(roomRepo, memberRepo, fanoutFunc(func(context.Context, domain.RoomCode) ([]domain.RoomCode, error) {
			fanouts++
			return nil, nil
		}), slog.Default())
		_, err := resolver.GetBreakoutRoom(as("alice@x.com"), "PARENTAAAAAAA")
		req.ErrorIs(err, errors.ErrBreakoutResolution)
		req.Equal(1, fanouts)
	})

	t.Run("should report a missing room", func(t *testing.T) {
		req := require.New(t)
		roomRepo := mocks.NewMockIRoomRepository(ctrl)
		memberRepo := mocks.NewMockIMembershipRepository(ctrl)
		roomRepo.EXPECT().GetRoom("MISSINGAAAAAA").Return(domain.Room{}, errors.ErrRoomNotFound)

		resolver := NewBreakoutResolver(roomRepo, memberRepo, nil, slog.Default())
		_, err := resolver.GetBreakoutRoom(as("alice@x.com"), "MISSINGAAAAAA")
		req.ErrorIs(err, errors.ErrRoomNotFound)
	})
}

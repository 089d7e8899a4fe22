package services

import (
	"context"
	"fmt"
	"mediator/domain"
	"mediator/errors"
	"mediator/mocks"
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestLifecycleService_CreateRoom(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	t.Run("should register every distinct participant and the creator once", func(t *testing.T) {
		req := require.New(t)
		s := newStore(t)
		router := mocks.NewMockIRouter(ctrl)
		router.EXPECT().InitialiseRoom(gomock.Any(), gomock.Any()).Return(nil).Times(3)

		code, err := s.lifecycle(router).CreateRoom(context.Background(), CreateRoomInput{
			Mediator:     domain.MediatorLawyer,
			Description:  "Unpaid invoice",
			Participants: []string{"a@x.com", "b@x.com", "c@x.com", "b@x.com"},
			RoomName:     "Invoice",
			CreatorEmail: "a@x.com",
		})
		req.NoError(err)
		req.True(domain.IsRoomCode(code))

		members, err := s.members.ListMembers(code)
		req.NoError(err)
		req.ElementsMatch([]string{"a@x.com", "b@x.com", "c@x.com"},
			lo.Map(members, func(m domain.Membership, _ int) string { return m.Email }))
		for _, m := range members {
			req.True(m.IsInputEnable)
			req.Equal(domain.StatusInCaucus, m.Status)
		}
	})

	t.Run("should fan a top-level room out into one breakout per member", func(t *testing.T) {
		req := require.New(t)
		s := newStore(t)
		router := mocks.NewMockIRouter(ctrl)
		var initialised []string
		router.EXPECT().InitialiseRoom(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, code string) error {
				// The room must already be stored when it is initialised
				_, err := s.rooms.GetRoom(code)
				req.NoError(err)
				initialised = append(initialised, code)
				return nil
			}).Times(2)

		code, err := s.lifecycle(router).CreateRoom(context.Background(), CreateRoomInput{
			Mediator:     domain.MediatorHR,
			Description:  "Shift planning",
			Participants: []string{"bob@x.com"},
			RoomName:     "Planning",
			CreatorEmail: "alice@x.com",
		})
		req.NoError(err)

		breakouts, err := s.rooms.ListBreakouts(code)
		req.NoError(err)
		req.Len(breakouts, 2)
		req.ElementsMatch([]string{"alice@x.com", "bob@x.com"},
			lo.Map(breakouts, func(r domain.Room, _ int) string { return r.CreatorEmail }))
		req.ElementsMatch(initialised, lo.Map(breakouts, func(r domain.Room, _ int) string { return r.Code }))

		for _, b := range breakouts {
			req.Equal(code, b.ParentRoomCode)
			req.Equal(domain.MediatorHR, b.Mediator)
			req.Equal("Shift planning", b.Description)
			req.Equal("Planning - "+b.CreatorEmail, b.Name)

			members, err := s.members.ListMembers(b.Code)
			req.NoError(err)
			req.Len(members, 1)
			req.Equal(b.CreatorEmail, members[0].Email)

			nested, err := s.rooms.ListBreakouts(b.Code)
			req.NoError(err)
			req.Empty(nested)
		}
	})

	t.Run("should take the creator from the authenticated user", func(t *testing.T) {
		req := require.New(t)
		s := newStore(t)
		router := mocks.NewMockIRouter(ctrl)
		router.EXPECT().InitialiseRoom(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

		code, err := s.lifecycle(router).CreateRoom(as("carol@x.com"), CreateRoomInput{
			Mediator: domain.MediatorPsychologist, Description: "Budget",
		})
		req.NoError(err)

		room, err := s.rooms.GetRoom(code)
		req.NoError(err)
		req.Equal("carol@x.com", room.CreatorEmail)
	})

	t.Run("should fail without creator nor authenticated user", func(t *testing.T) {
		req := require.New(t)
		s := newStore(t)
		router := mocks.NewMockIRouter(ctrl)

		_, err := s.lifecycle(router).CreateRoom(context.Background(), CreateRoomInput{Mediator: domain.MediatorLawyer})
		req.ErrorIs(err, errors.ErrUnauthenticated)
	})

	t.Run("should reject malformed participants and unknown mediators", func(t *testing.T) {
		req := require.New(t)
		s := newStore(t)
		router := mocks.NewMockIRouter(ctrl)

		_, err := s.lifecycle(router).CreateRoom(as("alice@x.com"), CreateRoomInput{
			Mediator:     "astrologer",
			Participants: []string{"not-an-email"},
		})
		var validationErr *errors.ValidationError
		req.True(errors.As(err, &validationErr))
		req.Equal([]string{"mediator", "participants"}, validationErr.Fields)

		codes, err := s.members.ListRoomCodes("alice@x.com")
		req.NoError(err)
		req.Empty(codes)
	})

	t.Run("should create a breakout room without fan-out when a parent is given", func(t *testing.T) {
		req := require.New(t)
		s := newStore(t)
		router := mocks.NewMockIRouter(ctrl)
		parent := s.seedRoom(t, "PARENTAAAAAAA", "Invoice", "alice@x.com")

		code, err := s.lifecycle(router).CreateRoom(as("alice@x.com"), CreateRoomInput{
			Mediator: domain.MediatorLawyer, ParentRoomCode: parent.Code,
		})
		req.NoError(err)

		room, err := s.rooms.GetRoom(code)
		req.NoError(err)
		req.True(room.IsBreakout())

		_, err = s.lifecycle(router).CreateRoom(as("alice@x.com"), CreateRoomInput{
			Mediator: domain.MediatorLawyer, ParentRoomCode: code,
		})
		req.ErrorIs(err, errors.ErrValidation)
	})

	t.Run("should surface a code collision as a conflict", func(t *testing.T) {
		req := require.New(t)
		s := newStore(t)
		router := mocks.NewMockIRouter(ctrl)
		s.seedRoom(t, "TAKENAAAAAAAA", "Taken", "alice@x.com")
		svc := s.lifecycle(router)
		svc.newCode = func() (domain.RoomCode, error) { return "TAKENAAAAAAAA", nil }

		_, err := svc.CreateRoom(as("bob@x.com"), CreateRoomInput{Mediator: domain.MediatorLawyer})
		req.ErrorIs(err, errors.ErrPersistenceConflict)
	})
}

func TestLifecycleService_CreateBreakoutRooms(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	t.Run("should create N breakout rooms with distinct creators", func(t *testing.T) {
		req := require.New(t)
		s := newStore(t)
		router := mocks.NewMockIRouter(ctrl)
		emails := []string{"a@x.com", "b@x.com", "c@x.com", "d@x.com"}
		parent := s.seedRoom(t, "PARENTAAAAAAA", "Invoice", emails...)

		var initialised []string
		router.EXPECT().InitialiseRoom(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, code string) error {
				initialised = append(initialised, code)
				return nil
			}).Times(len(emails))

		codes, err := s.lifecycle(router).CreateBreakoutRooms(context.Background(), parent.Code)
		req.NoError(err)
		req.Len(codes, len(emails))
		req.Equal(codes, initialised)

		creators := make([]string, 0, len(codes))
		for _, code := range codes {
			room, err := s.rooms.GetRoom(code)
			req.NoError(err)
			req.Equal(parent.Code, room.ParentRoomCode)
			creators = append(creators, room.CreatorEmail)
		}
		req.ElementsMatch(emails, creators)
	})

	t.Run("should create a second set when called twice", func(t *testing.T) {
		req := require.New(t)
		s := newStore(t)
		router := mocks.NewMockIRouter(ctrl)
		router.EXPECT().InitialiseRoom(gomock.Any(), gomock.Any()).Return(nil).Times(4)
		parent := s.seedRoom(t, "PARENTAAAAAAA", "Invoice", "alice@x.com", "bob@x.com")
		svc := s.lifecycle(router)

		first, err := svc.CreateBreakoutRooms(context.Background(), parent.Code)
		req.NoError(err)
		second, err := svc.CreateBreakoutRooms(context.Background(), parent.Code)
		req.NoError(err)
		req.Empty(lo.Intersect(first, second))

		breakouts, err := s.rooms.ListBreakouts(parent.Code)
		req.NoError(err)
		req.Len(breakouts, 4)

		// The oldest breakout of each user stays the resolved one
		found, ok, err := s.rooms.FindBreakout(parent.Code, "alice@x.com")
		req.NoError(err)
		req.True(ok)
		req.Contains(first, found.Code)
	})

	t.Run("should keep going when the initialise hook fails", func(t *testing.T) {
		req := require.New(t)
		s := newStore(t)
		router := mocks.NewMockIRouter(ctrl)
		router.EXPECT().InitialiseRoom(gomock.Any(), gomock.Any()).
			Return(fmt.Errorf("%w: connection refused", errors.ErrRouterUnavailable)).Times(2)
		parent := s.seedRoom(t, "PARENTAAAAAAA", "Invoice", "alice@x.com", "bob@x.com")

		codes, err := s.lifecycle(router).CreateBreakoutRooms(context.Background(), parent.Code)
		req.NoError(err)
		req.Len(codes, 2)
	})

	t.Run("should fail for an unknown parent", func(t *testing.T) {
		req := require.New(t)
		s := newStore(t)
		router := mocks.NewMockIRouter(ctrl)

		_, err := s.lifecycle(router).CreateBreakoutRooms(context.Background(), "MISSINGAAAAAA")
		req.ErrorIs(err, errors.ErrRoomNotFound)
	})
}

//go:generate go run go.uber.org/mock/mockgen -source=room.go -destination=../mocks/mock_room_repository.go -package=mocks
package repositories

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"mediator/domain"
	"mediator/errors"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
)

const (
	RoomPrefix     = "room:"
	BreakoutPrefix = "breakout:"
)

type IRoomRepository interface {
	CreateRoom(room domain.Room) error
	GetRoom(code domain.RoomCode) (domain.Room, error)
	FindBreakout(parentCode domain.RoomCode, creatorEmail string) (domain.Room, bool, error)
	ListBreakouts(parentCode domain.RoomCode) ([]domain.Room, error)
	EndChat(code domain.RoomCode, at time.Time) (domain.Room, error)
}

type RoomRepository struct {
	db  *badger.DB
	log *slog.Logger
}

func NewRoomRepository(db *badger.DB, log *slog.Logger) RoomRepository {
	return RoomRepository{db: db, log: log}
}

// DiskRoom is the stored form of a room, one JSON document per key.
type DiskRoom struct {
	RoomCode       string    `json:"room_code"`
	RoomName       string    `json:"room_name,omitempty"`
	Description    string    `json:"description"`
	MediatorType   string    `json:"mediator_type"`
	CreatorEmail   string    `json:"creator_email"`
	ParentRoomCode string    `json:"parent_room_code,omitempty"`
	IsChatEnded    bool      `json:"is_chat_ended"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func roomKey(code domain.RoomCode) []byte {
	return []byte(RoomPrefix + code)
}

// breakoutKey indexes breakout rooms by parent then creator.
// The padded timestamp keeps duplicates ordered from the oldest.
func breakoutKey(room domain.Room) []byte {
	return []byte(fmt.Sprintf("%s%s:%s:%019d:%s",
		BreakoutPrefix,
		room.ParentRoomCode,
		room.CreatorEmail,
		room.CreatedAt.UnixNano(),
		room.Code,
	))
}

// CreateRoom inserts the room and, for a breakout, its parent index entry
// in one transaction. An existing code yields ErrPersistenceConflict.
func (r RoomRepository) CreateRoom(room domain.Room) error {
	bytes, err := json.Marshal(fromDomainRoom(room))
	if err != nil {
		return fmt.Errorf("%w: %v", errors.ErrPersistence, err)
	}
	err = r.db.Update(func(txn *badger.Txn) error {
		key := roomKey(room.Code)
		if _, err := txn.Get(key); err == nil {
			return errors.ErrPersistenceConflict
		}
		if err := txn.Set(key, bytes); err != nil {
			return err
		}
		if room.IsBreakout() {
			return txn.Set(breakoutKey(room), []byte(room.Code))
		}
		return nil
	})
	return storeError(err)
}

func (r RoomRepository) GetRoom(code domain.RoomCode) (domain.Room, error) {
	var room domain.Room
	err := r.db.View(func(txn *badger.Txn) error {
		var err error
		room, err = getRoom(txn, code)
		return err
	})
	if err != nil {
		return domain.Room{}, storeError(err)
	}
	return room, nil
}

// FindBreakout returns the oldest breakout of the parent created for the given user.
func (r RoomRepository) FindBreakout(parentCode domain.RoomCode, creatorEmail string) (domain.Room, bool, error) {
	var room domain.Room
	var found bool
	err := r.db.View(func(txn *badger.Txn) error {
		prefix := []byte(fmt.Sprintf("%s%s:%s:", BreakoutPrefix, parentCode, creatorEmail))
		it := txn.NewIterator(badger.IteratorOptions{Prefix: prefix})
		defer it.Close()

		it.Seek(prefix)
		if !it.ValidForPrefix(prefix) {
			return nil
		}
		code, err := it.Item().ValueCopy(nil)
		if err != nil {
			return err
		}
		room, err = getRoom(txn, string(code))
		if err != nil {
			return err
		}
		found = true
		return nil
	})
	if err != nil {
		return domain.Room{}, false, storeError(err)
	}
	return room, found, nil
}

// ListBreakouts returns every breakout of the parent grouped by creator.
func (r RoomRepository) ListBreakouts(parentCode domain.RoomCode) ([]domain.Room, error) {
	var rooms []domain.Room
	err := r.db.View(func(txn *badger.Txn) error {
		prefix := []byte(BreakoutPrefix + parentCode + ":")
		it := txn.NewIterator(badger.IteratorOptions{Prefix: prefix})
		defer it.Close()

		var codes []string
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			code, err := it.Item().ValueCopy(nil)
			if err != nil {
				return err
			}
			codes = append(codes, string(code))
		}
		for _, code := range codes {
			room, err := getRoom(txn, code)
			if err != nil {
				return err
			}
			rooms = append(rooms, room)
		}
		return nil
	})
	if err != nil {
		return nil, storeError(err)
	}
	return rooms, nil
}

// EndChat flags the room as ended. Rooms are never removed.
func (r RoomRepository) EndChat(code domain.RoomCode, at time.Time) (domain.Room, error) {
	var room domain.Room
	err := r.db.Update(func(txn *badger.Txn) error {
		var err error
		room, err = getRoom(txn, code)
		if err != nil {
			return err
		}
		room.IsChatEnded = true
		room.UpdatedAt = at
		bytes, err := json.Marshal(fromDomainRoom(room))
		if err != nil {
			return err
		}
		return txn.Set(roomKey(code), bytes)
	})
	if err != nil {
		return domain.Room{}, storeError(err)
	}
	return room, nil
}

func getRoom(txn *badger.Txn, code domain.RoomCode) (domain.Room, error) {
	item, err := txn.Get(roomKey(code))
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return domain.Room{}, fmt.Errorf("%w: %s", errors.ErrRoomNotFound, code)
		}
		return domain.Room{}, err
	}
	var diskRoom DiskRoom
	if err = item.Value(func(val []byte) error {
		return json.Unmarshal(val, &diskRoom)
	}); err != nil {
		return domain.Room{}, err
	}
	return diskRoom.ToDomain(), nil
}

func fromDomainRoom(room domain.Room) DiskRoom {
	return DiskRoom{
		RoomCode:       room.Code,
		RoomName:       room.Name,
		Description:    room.Description,
		MediatorType:   string(room.Mediator),
		CreatorEmail:   room.CreatorEmail,
		ParentRoomCode: room.ParentRoomCode,
		IsChatEnded:    room.IsChatEnded,
		CreatedAt:      room.CreatedAt,
		UpdatedAt:      room.UpdatedAt,
	}
}

func (d DiskRoom) ToDomain() domain.Room {
	return domain.Room{
		Code:           d.RoomCode,
		Name:           d.RoomName,
		Description:    d.Description,
		Mediator:       domain.MediatorType(d.MediatorType),
		CreatorEmail:   d.CreatorEmail,
		ParentRoomCode: d.ParentRoomCode,
		IsChatEnded:    d.IsChatEnded,
		CreatedAt:      d.CreatedAt.UTC(),
		UpdatedAt:      d.UpdatedAt.UTC(),
	}
}

// storeError keeps domain sentinels and classifies raw badger failures.
func storeError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, errors.ErrRoomNotFound),
		errors.Is(err, errors.ErrNotMember),
		errors.Is(err, errors.ErrPersistenceConflict),
		errors.Is(err, errors.ErrAccountExists),
		errors.Is(err, errors.ErrInvalidCredentials):
		return err
	case errors.Is(err, badger.ErrConflict):
		return fmt.Errorf("%w: %v", errors.ErrPersistenceConflict, err)
	default:
		return fmt.Errorf("%w: %v", errors.ErrPersistence, err)
	}
}

// RoomCodeOf extracts the room code from any room scoped key.
func RoomCodeOf(key string) string {
	parts := strings.SplitN(key, ":", 3)
	if len(parts) < 2 {
		return ""
	}
	return parts[1]
}

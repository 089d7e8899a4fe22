//go:generate go run go.uber.org/mock/mockgen -source=membership.go -destination=../mocks/mock_membership_repository.go -package=mocks
package repositories

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"mediator/domain"
	"mediator/errors"
	"time"

	"github.com/dgraph-io/badger/v4"
)

const (
	MembershipPrefix = "member:"
	MemberOfPrefix   = "member_of:"
)

type IMembershipRepository interface {
	AddMembers(roomCode domain.RoomCode, emails []string, at time.Time) error
	GetMember(roomCode domain.RoomCode, email string) (domain.Membership, error)
	ListMembers(roomCode domain.RoomCode) ([]domain.Membership, error)
	ListRoomCodes(email string) ([]domain.RoomCode, error)
	SetInputEnabled(roomCode domain.RoomCode, email string, enabled bool, at time.Time) (domain.Membership, error)
	SetStatus(roomCode domain.RoomCode, email string, status domain.MembershipStatus, at time.Time) (domain.Membership, error)
}

type MembershipRepository struct {
	db  *badger.DB
	log *slog.Logger
}

func NewMembershipRepository(db *badger.DB, log *slog.Logger) MembershipRepository {
	return MembershipRepository{db: db, log: log}
}

// DiskMembership is the stored form of a membership.
// A zero UpdatedAt means the row was never modified after insertion.
type DiskMembership struct {
	RoomCode      string    `json:"room_code"`
	Email         string    `json:"email"`
	IsInputEnable bool      `json:"is_input_enable"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func membershipKey(roomCode domain.RoomCode, email string) []byte {
	return []byte(fmt.Sprintf("%s%s:%s", MembershipPrefix, roomCode, email))
}

func memberOfKey(email string, roomCode domain.RoomCode) []byte {
	return []byte(fmt.Sprintf("%s%s:%s", MemberOfPrefix, email, roomCode))
}

// AddMembers inserts all memberships in a single transaction.
// Callers deduplicate emails; an existing membership yields ErrPersistenceConflict.
func (m MembershipRepository) AddMembers(roomCode domain.RoomCode, emails []string, at time.Time) error {
	err := m.db.Update(func(txn *badger.Txn) error {
		for _, email := range emails {
			key := membershipKey(roomCode, email)
			if _, err := txn.Get(key); err == nil {
				return fmt.Errorf("%w: %s in %s", errors.ErrPersistenceConflict, email, roomCode)
			}
			bytes, err := json.Marshal(fromDomainMembership(domain.NewMembership(roomCode, email, at)))
			if err != nil {
				return err
			}
			if err = txn.Set(key, bytes); err != nil {
				return err
			}
			if err = txn.Set(memberOfKey(email, roomCode), nil); err != nil {
				return err
			}
		}
		return nil
	})
	return storeError(err)
}

func (m MembershipRepository) GetMember(roomCode domain.RoomCode, email string) (domain.Membership, error) {
	var membership domain.Membership
	err := m.db.View(func(txn *badger.Txn) error {
		var err error
		membership, err = getMembership(txn, roomCode, email)
		return err
	})
	if err != nil {
		return domain.Membership{}, storeError(err)
	}
	return membership, nil
}

// ListMembers returns the memberships of a room ordered by email.
func (m MembershipRepository) ListMembers(roomCode domain.RoomCode) ([]domain.Membership, error) {
	var memberships []domain.Membership
	err := m.db.View(func(txn *badger.Txn) error {
		prefix := []byte(MembershipPrefix + roomCode + ":")
		it := txn.NewIterator(badger.IteratorOptions{PrefetchValues: true, PrefetchSize: 10, Prefix: prefix})
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var diskMembership DiskMembership
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &diskMembership)
			}); err != nil {
				return err
			}
			memberships = append(memberships, diskMembership.ToDomain())
		}
		return nil
	})
	if err != nil {
		return nil, storeError(err)
	}
	return memberships, nil
}

// ListRoomCodes returns the codes of every room the user belongs to.
func (m MembershipRepository) ListRoomCodes(email string) ([]domain.RoomCode, error) {
	var codes []domain.RoomCode
	err := m.db.View(func(txn *badger.Txn) error {
		prefix := []byte(MemberOfPrefix + email + ":")
		it := txn.NewIterator(badger.IteratorOptions{Prefix: prefix})
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			codes = append(codes, string(it.Item().Key()[len(prefix):]))
		}
		return nil
	})
	if err != nil {
		return nil, storeError(err)
	}
	return codes, nil
}

// SetInputEnabled flips the chat permission of exactly one membership.
func (m MembershipRepository) SetInputEnabled(roomCode domain.RoomCode, email string, enabled bool, at time.Time) (domain.Membership, error) {
	return m.update(roomCode, email, at, func(membership *domain.Membership) {
		membership.IsInputEnable = enabled
	})
}

func (m MembershipRepository) SetStatus(roomCode domain.RoomCode, email string, status domain.MembershipStatus, at time.Time) (domain.Membership, error) {
	return m.update(roomCode, email, at, func(membership *domain.Membership) {
		membership.Status = status
	})
}

func (m MembershipRepository) update(roomCode domain.RoomCode, email string, at time.Time, mutate func(*domain.Membership)) (domain.Membership, error) {
	var membership domain.Membership
	err := m.db.Update(func(txn *badger.Txn) error {
		var err error
		membership, err = getMembership(txn, roomCode, email)
		if err != nil {
			return err
		}
		mutate(&membership)
		membership.UpdatedAt = at
		bytes, err := json.Marshal(fromDomainMembership(membership))
		if err != nil {
			return err
		}
		return txn.Set(membershipKey(roomCode, email), bytes)
	})
	if err != nil {
		return domain.Membership{}, storeError(err)
	}
	return membership, nil
}

func getMembership(txn *badger.Txn, roomCode domain.RoomCode, email string) (domain.Membership, error) {
	item, err := txn.Get(membershipKey(roomCode, email))
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return domain.Membership{}, fmt.Errorf("%w: %s in %s", errors.ErrNotMember, email, roomCode)
		}
		return domain.Membership{}, err
	}
	var diskMembership DiskMembership
	if err = item.Value(func(val []byte) error {
		return json.Unmarshal(val, &diskMembership)
	}); err != nil {
		return domain.Membership{}, err
	}
	return diskMembership.ToDomain(), nil
}

func fromDomainMembership(m domain.Membership) DiskMembership {
	return DiskMembership{
		RoomCode:      m.RoomCode,
		Email:         m.Email,
		IsInputEnable: m.IsInputEnable,
		Status:        string(m.Status),
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

func (d DiskMembership) ToDomain() domain.Membership {
	return domain.Membership{
		RoomCode:      d.RoomCode,
		Email:         d.Email,
		IsInputEnable: d.IsInputEnable,
		Status:        domain.MembershipStatus(d.Status),
		CreatedAt:     d.CreatedAt.UTC(),
		UpdatedAt:     d.UpdatedAt.UTC(),
	}
}

//go:generate go run go.uber.org/mock/mockgen -source=account.go -destination=../mocks/mock_account_repository.go -package=mocks
package repositories

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"mediator/errors"
	"time"

	"github.com/dgraph-io/badger/v4"
)

const AccountPrefix = "account:"

type IAccountRepository interface {
	CreateAccount(email, passwordHash string, at time.Time) error
	GetAccount(email string) (Account, error)
}

type AccountRepository struct {
	db  *badger.DB
	log *slog.Logger
}

func NewAccountRepository(db *badger.DB, log *slog.Logger) AccountRepository {
	return AccountRepository{db: db, log: log}
}

// Account holds the credentials of a chat user. The email is the identity
// carried by tokens and memberships.
type Account struct {
	Email        string    `json:"email"`
	PasswordHash string    `json:"password_hash"`
	CreatedAt    time.Time `json:"created_at"`
}

func accountKey(email string) []byte {
	return []byte(AccountPrefix + email)
}

// CreateAccount stores a new account, ErrAccountExists if the email is taken.
func (a AccountRepository) CreateAccount(email, passwordHash string, at time.Time) error {
	bytes, err := json.Marshal(Account{Email: email, PasswordHash: passwordHash, CreatedAt: at})
	if err != nil {
		return fmt.Errorf("%w: %v", errors.ErrPersistence, err)
	}
	err = a.db.Update(func(txn *badger.Txn) error {
		key := accountKey(email)
		if _, err := txn.Get(key); err == nil {
			return errors.ErrAccountExists
		}
		return txn.Set(key, bytes)
	})
	return storeError(err)
}

// GetAccount returns ErrInvalidCredentials for an unknown email so that
// callers cannot tell a missing account from a wrong password.
func (a AccountRepository) GetAccount(email string) (Account, error) {
	var account Account
	err := a.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(accountKey(email))
		if err != nil {
			if err == badger.ErrKeyNotFound {
				return errors.ErrInvalidCredentials
			}
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &account)
		})
	})
	if err != nil {
		return Account{}, storeError(err)
	}
	account.CreatedAt = account.CreatedAt.UTC()
	return account, nil
}

package services

import (
	"fmt"
	"log/slog"
	"mediator/auth"
	"mediator/errors"
	"mediator/repositories"
	"time"
)

type IAccountService interface {
	Register(email, password string) (Token, error)
	Login(email, password string) (Token, error)
}

type Token string

type AccountService struct {
	accounts repositories.IAccountRepository
	tokens   auth.TokenManager
	log      *slog.Logger
	now      func() time.Time
}

func NewAccountService(accounts repositories.IAccountRepository, tokens auth.TokenManager, log *slog.Logger) *AccountService {
	return &AccountService{accounts: accounts, tokens: tokens, log: log, now: time.Now}
}

func (s *AccountService) Register(email, password string) (Token, error) {
	// Validate before any expensive hashing
	if err := auth.ValidateRegister(auth.RegisterRequest{Email: email, Password: password}); err != nil {
		return "", err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return "", fmt.Errorf("hashing failed: %w", err)
	}
	if err = s.accounts.CreateAccount(email, hash, s.now().UTC()); err != nil {
		return "", err
	}
	s.log.Info("Account registered", "email", email)
	return s.issue(email)
}

func (s *AccountService) Login(email, password string) (Token, error) {
	account, err := s.accounts.GetAccount(email)
	if err != nil {
		if errors.Is(err, errors.ErrInvalidCredentials) {
			return "", err
		}
		return "", fmt.Errorf("%w: %v", errors.ErrInvalidCredentials, err)
	}
	match, err := auth.ComparePassword(password, account.PasswordHash)
	if err != nil || !match {
		return "", errors.ErrInvalidCredentials
	}
	return s.issue(email)
}

func (s *AccountService) issue(email string) (Token, error) {
	token, err := s.tokens.GenerateToken(email)
	if err != nil {
		return "", fmt.Errorf("token generation: %w", err)
	}
	return Token(token), nil
}

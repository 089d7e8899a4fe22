package services

import (
	"log/slog"
	"mediator/auth"
	"mediator/errors"
	"mediator/mocks"
	"mediator/repositories"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestAccountService_Register(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockIAccountRepository(ctrl)
	tokens := auth.NewTokenManager("secret-for-tests", time.Hour)
	svc := NewAccountService(mockRepo, tokens, slog.Default())

	t.Run("should register and issue a token carrying the email", func(t *testing.T) {
		req := require.New(t)
		mockRepo.EXPECT().
			CreateAccount("alice@x.com", gomock.Not("Correct-Horse-42"), gomock.Any()).
			Return(nil).
			Times(1)

		token, err := svc.Register("alice@x.com", "Correct-Horse-42")
		req.NoError(err)

		claims, err := tokens.ValidateToken(string(token))
		req.NoError(err)
		req.Equal("alice@x.com", claims.Email)
	})

	t.Run("should fail when password complexity is not met", func(t *testing.T) {
		req := require.New(t)
		mockRepo.EXPECT().CreateAccount(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

		_, err := svc.Register("alice@x.com", "simplepassword")
		req.ErrorIs(err, errors.ErrInvalidPassword)
	})

	t.Run("should fail when the account exists", func(t *testing.T) {
		req := require.New(t)
		mockRepo.EXPECT().
			CreateAccount("dup@x.com", gomock.Any(), gomock.Any()).
			Return(errors.ErrAccountExists)

		_, err := svc.Register("dup@x.com", "Correct-Horse-42")
		req.ErrorIs(err, errors.ErrAccountExists)
	})
}

func TestAccountService_Login(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockIAccountRepository(ctrl)
	svc := NewAccountService(mockRepo, auth.NewTokenManager("secret-for-tests", time.Hour), slog.Default())
	hash, err := auth.HashPassword("Correct-Horse-42")
	require.NoError(t, err)

	t.Run("should login with correct credentials", func(t *testing.T) {
		req := require.New(t)
		mockRepo.EXPECT().GetAccount("alice@x.com").
			Return(repositories.Account{Email: "alice@x.com", PasswordHash: hash}, nil)

		token, err := svc.Login("alice@x.com", "Correct-Horse-42")
		req.NoError(err)
		req.NotEmpty(token)
	})

	t.Run("should reject a wrong password", func(t *testing.T) {
		req := require.New(t)
		mockRepo.EXPECT().GetAccount("alice@x.com").
			Return(repositories.Account{Email: "alice@x.com", PasswordHash: hash}, nil)

		_, err := svc.Login("alice@x.com", "Wrong-Horse-42")
		req.ErrorIs(err, errors.ErrInvalidCredentials)
	})

	t.Run("should not reveal unknown accounts", func(t *testing.T) {
		req := require.New(t)
		mockRepo.EXPECT().GetAccount("ghost@x.com").Return(repositories.Account{}, errors.ErrInvalidCredentials)

		_, err := svc.Login("ghost@x.com", "Correct-Horse-42")
		req.ErrorIs(err, errors.ErrInvalidCredentials)
	})
}

package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidationError_MatchesSentinel(t *testing.T) {
	req := require.New(t)

	err := fmt.Errorf("send message: %w", NewValidationError("room_code", "email"))

	req.True(Is(err, ErrValidation))
	req.False(Is(err, ErrPersistence))

	var validationErr *ValidationError
	req.True(As(err, &validationErr))
	req.Equal([]string{"email", "room_code"}, validationErr.Fields)
	req.Equal("validation failed: email, room_code", validationErr.Error())
}

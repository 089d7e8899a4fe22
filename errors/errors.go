package errors

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrWorkerPanic         = fmt.Errorf("worker panic")
	ErrEmptyWords          = fmt.Errorf("no words have been found")
	ErrValidation          = fmt.Errorf("validation failed")
	ErrUnauthenticated     = fmt.Errorf("no authenticated user")
	ErrRoomNotFound        = fmt.Errorf("room not found")
	ErrBreakoutResolution  = fmt.Errorf("breakout room could not be resolved")
	ErrPersistence         = fmt.Errorf("persistence failure")
	ErrPersistenceConflict = fmt.Errorf("record already exists")
	ErrNotMember           = fmt.Errorf("user is not a member of the room")
	ErrUnknownTool         = fmt.Errorf("unknown tool")
	ErrCompletion          = fmt.Errorf("completion failure")
	ErrRouterUnavailable   = fmt.Errorf("router unavailable")
	ErrDispatchQueueFull   = fmt.Errorf("dispatch queue is full")
	ErrInvalidPassword     = fmt.Errorf("password does not meet complexity requirements")
	ErrInvalidCredentials  = fmt.Errorf("invalid email or password")
	ErrAccountExists       = fmt.Errorf("account already exists")
	ErrInputDisabled       = fmt.Errorf("chat input is disabled for this user")
	ErrChatEnded           = fmt.Errorf("chat has ended")
	ErrForbiddenSender     = fmt.Errorf("message sender does not match the authenticated user")
)

// ValidationError lists the request fields that failed validation.
type ValidationError struct {
	Fields []string
}

func NewValidationError(fields ...string) *ValidationError {
	sort.Strings(fields)
	return &ValidationError{Fields: fields}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", ErrValidation, strings.Join(e.Fields, ", "))
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func Is(err, target error) bool {
	return errors.Is(err, target)
}

func As(err error, target any) bool {
	return errors.As(err, target)
}

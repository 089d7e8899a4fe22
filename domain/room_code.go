package domain

import (
	"strings"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

const (
	RoomCodeAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"
	RoomCodeLength   = 13
)

// NewRoomCode draws a code uniformly from the 62 alphanumeric symbols.
// Uniqueness is left to the store's insert conflict.
func NewRoomCode() (RoomCode, error) {
	return gonanoid.Generate(RoomCodeAlphabet, RoomCodeLength)
}

func IsRoomCode(s string) bool {
	if len(s) != RoomCodeLength {
		return false
	}
	for _, r := range s {
		if !strings.ContainsRune(RoomCodeAlphabet, r) {
			return false
		}
	}
	return true
}

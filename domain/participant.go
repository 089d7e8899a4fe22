// Package domain contains core concepts of the mediated chat.
// This file defines how a member is presented to the others.
package domain

import (
	"strings"
	"unicode"
)

type Participant struct {
	Email       string
	DisplayName string
	Initials    string
	Status      MembershipStatus
	CanType     bool
}

func NewParticipant(m Membership) Participant {
	name := DisplayName(m.Email)
	return Participant{
		Email:       m.Email,
		DisplayName: name,
		Initials:    Initials(name),
		Status:      m.Status,
		CanType:     m.IsInputEnable,
	}
}

// DisplayName is the local part of the email address.
func DisplayName(email string) string {
	local, _, _ := strings.Cut(email, "@")
	return local
}

// Initials keeps the first letter of up to two words of the name,
// words being separated by dots, dashes, underscores or spaces.
func Initials(name string) string {
	words := strings.FieldsFunc(name, func(r rune) bool {
		return r == '.' || r == '-' || r == '_' || unicode.IsSpace(r)
	})
	initials := make([]rune, 0, 2)
	for _, w := range words {
		if len(initials) == 2 {
			break
		}
		initials = append(initials, unicode.ToUpper([]rune(w)[0]))
	}
	return string(initials)
}

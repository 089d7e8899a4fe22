package domain

import "fmt"

// MediatorType is the persona the AI mediator adopts in a room.
type MediatorType string

const (
	MediatorLawyer       MediatorType = "lawyer"
	MediatorPsychologist MediatorType = "psychologist"
	MediatorHR           MediatorType = "HR"
)

var MediatorTypes = []MediatorType{MediatorLawyer, MediatorPsychologist, MediatorHR}

func ParseMediatorType(s string) (MediatorType, error) {
	switch MediatorType(s) {
	case MediatorLawyer, MediatorPsychologist, MediatorHR:
		return MediatorType(s), nil
	default:
		return "", fmt.Errorf("unknown mediator type %q", s)
	}
}

// Label is the text shown when picking a mediator.
func (m MediatorType) Label() string {
	switch m {
	case MediatorLawyer:
		return "Business related"
	case MediatorPsychologist:
		return "Finance related"
	case MediatorHR:
		return "Patent related"
	default:
		return string(m)
	}
}

package auth

import (
	"mediator/domain"
	"mediator/errors"
	"reflect"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/samber/lo"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report violations under their JSON names
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" || name == "" {
			return field.Name
		}
		return name
	})
	_ = v.RegisterValidation("mediator", func(fl validator.FieldLevel) bool {
		_, err := domain.ParseMediatorType(fl.Field().String())
		return err == nil
	})
	_ = v.RegisterValidation("role", func(fl validator.FieldLevel) bool {
		_, err := domain.ParseRole(fl.Field().String())
		return err == nil
	})
	_ = v.RegisterValidation("status", func(fl validator.FieldLevel) bool {
		_, err := domain.ParseMembershipStatus(fl.Field().String())
		return err == nil
	})
	return v
}

type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=12,max=72"`
}

type CreateRoomRequest struct {
	Mediator       string   `json:"mediator" validate:"required,mediator"`
	Description    string   `json:"description"`
	Participants   []string `json:"participants" validate:"dive,required,email"`
	RoomName       string   `json:"room_name"`
	CreatorEmail   string   `json:"creator_email" validate:"omitempty,email"`
	ParentRoomCode string   `json:"parent_room_code"`
}

type MessageRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Content   string `json:"content" validate:"required"`
	RoomCode  string `json:"room_code" validate:"required"`
	Role      string `json:"role" validate:"required,role"`
	IsPublic  bool   `json:"is_public"`
	IsContext bool   `json:"is_context"`
}

type TurnRequest struct {
	Content   string `json:"content" validate:"required"`
	IsPrivate bool   `json:"is_private"`
	IsContext bool   `json:"is_context"`
}

type StatusRequest struct {
	Email  string `json:"email" validate:"required,email"`
	Status string `json:"status" validate:"required,status"`
}

func ValidateRegister(req RegisterRequest) error {
	if err := validateStruct(req); err != nil {
		return err
	}
	if !isPasswordComplex(req.Password) {
		return errors.ErrInvalidPassword
	}
	return nil
}

func isPasswordComplex(s string) bool {
	var hasUpper, hasLower, hasNumber, hasSpecial bool
	for _, char := range s {
		switch {
		case unicode.IsUpper(char):
			hasUpper = true
		case unicode.IsLower(char):
			hasLower = true
		case unicode.IsNumber(char):
			hasNumber = true
		case unicode.IsPunct(char) || unicode.IsSymbol(char):
			hasSpecial = true
		}
	}
	return hasUpper && hasLower && hasNumber && hasSpecial
}

func ValidateCreateRoom(req CreateRoomRequest) error {
	return validateStruct(req)
}

func ValidateMessage(req MessageRequest) error {
	return validateStruct(req)
}

func ValidateTurn(req TurnRequest) error {
	return validateStruct(req)
}

func ValidateStatus(req StatusRequest) error {
	return validateStruct(req)
}

// validateStruct converts validator failures into a ValidationError naming each bad field once.
func validateStruct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return err
	}
	fields := lo.Uniq(lo.Map(fieldErrors, func(fe validator.FieldError, _ int) string {
		// participants[1] is reported as participants
		name, _, _ := strings.Cut(fe.Field(), "[")
		return name
	}))
	return errors.NewValidationError(fields...)
}

package auth

import (
	"unicode"

	"github.com/go-playground/validator/v10"

	"chat-server/errors"
)

var validate = validator.New()

type SignupRequest struct {
	Username  string `validate:"required,min=3,max=32,alphanum"`
	Firstname string `validate:"required,max=64"`
	Lastname  string `validate:"required,max=64"`
	Password  string `validate:"required,min=8,max=72"`
}

// ValidateSignup checks structural rules first, then password complexity.
// Both run before any expensive cryptographic operation.
func ValidateSignup(req SignupRequest) error {
	if err := validate.Struct(req); err != nil {
		return err
	}
	if !isPasswordComplex(req.Password) {
		return errors.ErrInvalidPassword
	}
	return nil
}

func isPasswordComplex(s string) bool {
	var hasUpper, hasLower, hasNumber bool
	for _, char := range s {
		switch {
		case unicode.IsUpper(char):
			hasUpper = true
		case unicode.IsLower(char):
			hasLower = true
		case unicode.IsNumber(char):
			hasNumber = true
		}
	}
	return hasUpper && hasLower && hasNumber
}

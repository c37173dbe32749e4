package errors

import "fmt"

var (
	ErrValidation         = fmt.Errorf("validation failed")
	ErrUserAlreadyExists  = fmt.Errorf("user already exists")
	ErrInvalidCredentials = fmt.Errorf("invalid credentials")
	ErrInvalidPassword    = fmt.Errorf("password does not meet complexity rules")
	ErrTokenGeneration    = fmt.Errorf("token generation failed")
	ErrUserNotFound       = fmt.Errorf("user not found")
)

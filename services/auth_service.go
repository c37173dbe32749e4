//go:generate go run go.uber.org/mock/mockgen -source=auth_service.go -destination=../mocks/mock_auth_service.go -package=mocks
package services

import (
	"fmt"

	"chat-server/auth"
	"chat-server/errors"
	"chat-server/repositories"
)

// Identity is what a successful signup or login returns to the client.
// It never carries the password hash.
type Identity struct {
	Username  string `json:"username"`
	Firstname string `json:"firstname"`
	Lastname  string `json:"lastname"`
}

type IAuthService interface {
	Signup(username, firstname, lastname, password string) (Identity, string, error)
	Login(username, password string) (Identity, string, error)
}

type AuthService struct {
	userRepository repositories.IUserRepository
	tokens         *auth.TokenIssuer
}

func NewAuthService(repo repositories.IUserRepository, tokens *auth.TokenIssuer) IAuthService {
	return &AuthService{userRepository: repo, tokens: tokens}
}

// Signup validates the request, hashes the password and persists the
// account. Hashing happens in the service layer so the repository never
// sees a plain password. Returns the identity and a session token.
func (s *AuthService) Signup(username, firstname, lastname, password string) (Identity, string, error) {
	req := auth.SignupRequest{
		Username:  username,
		Firstname: firstname,
		Lastname:  lastname,
		Password:  password,
	}
	if err := auth.ValidateSignup(req); err != nil {
		return Identity{}, "", fmt.Errorf("%w: %v", errors.ErrValidation, err)
	}

	hashedPassword, err := auth.HashPassword(password)
	if err != nil {
		return Identity{}, "", fmt.Errorf("hashing failed: %w", err)
	}

	userID, err := s.userRepository.CreateUser(username, firstname, lastname, hashedPassword)
	if err != nil {
		return Identity{}, "", err // propagates ErrUserAlreadyExists
	}

	token, err := s.tokens.Generate(userID, username)
	if err != nil {
		return Identity{}, "", errors.ErrTokenGeneration
	}
	return Identity{Username: username, Firstname: firstname, Lastname: lastname}, token, nil
}

// Login verifies the credentials and issues a session token. Lookup and
// password failures collapse into the same generic error to prevent user
// enumeration.
func (s *AuthService) Login(username, password string) (Identity, string, error) {
	user, err := s.userRepository.GetUserByUsername(username)
	if err != nil {
		return Identity{}, "", errors.ErrInvalidCredentials
	}

	match, err := auth.ComparePassword(password, user.PasswordHash)
	if err != nil || !match {
		return Identity{}, "", errors.ErrInvalidCredentials
	}

	token, err := s.tokens.Generate(user.ID, user.Username)
	if err != nil {
		return Identity{}, "", errors.ErrTokenGeneration
	}
	identity := Identity{Username: user.Username, Firstname: user.Firstname, Lastname: user.Lastname}
	return identity, token, nil
}

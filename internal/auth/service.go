package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/mrlokans/library-catalog/internal/config"
	"github.com/mrlokans/library-catalog/internal/database/users"
	"github.com/mrlokans/library-catalog/internal/entities"
	"github.com/mrlokans/library-catalog/internal/validation"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthenticated    = errors.New("unauthenticated")
)

// Service handles registration, login, and bearer-token resolution.
type Service struct {
	users   *users.Repository
	lookups validation.Lookups
	config  config.Auth
}

// NewService creates a new authentication service.
func NewService(repo *users.Repository, lookups validation.Lookups, cfg config.Auth) *Service {
	return &Service{
		users:   repo,
		lookups: lookups,
		config:  cfg,
	}
}

// Register validates the payload, creates the user, and issues a fresh
// bearer token. A confirmation mismatch or an already-registered email
// comes back as a *validation.Error.
func (s *Service) Register(in validation.RegisterInput) (*entities.User, string, error) {
	if err := validation.Register(in, s.lookups); err != nil {
		return nil, "", err
	}

	passwordHash, err := HashPassword(in.Password, s.config.BcryptCost)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	user := &entities.User{
		Name:         strings.TrimSpace(in.Name),
		Email:        strings.TrimSpace(in.Email),
		PasswordHash: passwordHash,
	}
	if err := s.users.Create(user); err != nil {
		return nil, "", fmt.Errorf("failed to create user: %w", err)
	}

	token, err := s.issueToken(user.ID)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Login verifies credentials and issues a fresh bearer token. Unknown
// email and wrong password are indistinguishable to the caller.
func (s *Service) Login(email, password string) (*entities.User, string, error) {
	user, err := s.users.GetByEmail(strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("failed to find user: %w", err)
	}

	if err := CheckPassword(password, user.PasswordHash); err != nil {
		if errors.Is(err, ErrInvalidPassword) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}

	token, err := s.issueToken(user.ID)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Logout revokes the presented token. Revoking an unknown or already
// revoked token is a no-op; other tokens of the same user stay valid.
func (s *Service) Logout(token string) error {
	if token == "" {
		return nil
	}
	return s.users.DeleteTokenByHash(HashToken(token))
}

// ResolveUser maps a bearer token back to its user, or reports
// ErrUnauthenticated. Tokens past the configured TTL are rejected.
func (s *Service) ResolveUser(token string) (*entities.User, error) {
	if token == "" {
		return nil, ErrUnauthenticated
	}

	user, accessToken, err := s.users.GetByTokenHash(HashToken(token))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnauthenticated
		}
		return nil, err
	}

	if s.config.TokenTTL > 0 && time.Since(accessToken.CreatedAt) > s.config.TokenTTL {
		return nil, ErrUnauthenticated
	}

	if err := s.users.TouchToken(accessToken.ID); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *Service) issueToken(userID uint) (string, error) {
	plaintext, hash, err := GenerateToken()
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	if _, err := s.users.CreateToken(userID, hash); err != nil {
		return "", fmt.Errorf("failed to save token: %w", err)
	}
	return plaintext, nil
}

package services

import (
	"errors"

	"github.com/charterhub/roster-backend/internal/apperrors"
	"github.com/charterhub/roster-backend/internal/models"
	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials is returned for a wrong username or password. The
// two cases are deliberately indistinguishable.
var ErrInvalidCredentials = errors.New("invalid username or password")

// AuthService is the credential checker for the admin boundary
type AuthService struct {
	admins     AdminUserStore
	bcryptCost int
}

// NewAuthService creates a new AuthService
func NewAuthService(admins AdminUserStore, bcryptCost int) *AuthService {
	return &AuthService{admins: admins, bcryptCost: bcryptCost}
}

// Verify checks a username/password pair and returns the admin identity
func (s *AuthService) Verify(username, password string) (*models.AdminUser, error) {
	user, err := s.admins.GetByUsername(username)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// Register creates a new admin account with a bcrypt-hashed password
func (s *AuthService) Register(username, password string) (*models.AdminUser, error) {
	if username == "" {
		return nil, apperrors.Validation("username must not be empty")
	}
	if len(password) < 8 {
		return nil, apperrors.Validation("password must be at least 8 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, apperrors.Database(err, "failed to hash password")
	}

	user := &models.AdminUser{
		Username:     username,
		PasswordHash: string(hash),
	}
	if err := s.admins.Create(user); err != nil {
		return nil, err
	}
	return user, nil
}

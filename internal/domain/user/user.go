package user

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/inkgate/paywall/internal/domain/errors"
)

// User is a registered reader identity.
type User struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// NewUser creates a user from an email and an already-hashed password.
func NewUser(email, passwordHash string) (*User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, errors.NewValidationError("email", "cannot be empty")
	}
	if passwordHash == "" {
		return nil, errors.NewValidationError("password", "hash cannot be empty")
	}
	return &User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now(),
	}, nil
}

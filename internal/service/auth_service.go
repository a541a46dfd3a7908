package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	domainErrors "github.com/inkgate/paywall/internal/domain/errors"
	"github.com/inkgate/paywall/internal/domain/user"
)

// TokenClaims are the JWT claims carried by issued session tokens.
type TokenClaims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

// AuthService owns registration, login and token lifecycle.
type AuthService struct {
	users     user.Repository
	denylist  TokenDenylist
	jwtSecret []byte
	jwtExpiry time.Duration
	logger    zerolog.Logger
}

// NewAuthService creates a new AuthService.
func NewAuthService(users user.Repository, denylist TokenDenylist, jwtSecret string, jwtExpiry time.Duration, logger zerolog.Logger) *AuthService {
	return &AuthService{
		users:     users,
		denylist:  denylist,
		jwtSecret: []byte(jwtSecret),
		jwtExpiry: jwtExpiry,
		logger:    logger,
	}
}

// Register creates a new user with a bcrypt-hashed password.
func (s *AuthService) Register(ctx context.Context, email, password string) (*user.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if len(password) < 8 {
		return nil, domainErrors.NewValidationError("password", "must be at least 8 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u, err := user.NewUser(email, string(hash))
	if err != nil {
		return nil, err
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}

	s.logger.Info().Str("user_id", u.ID.String()).Msg("user registered")
	return u, nil
}

// Login verifies credentials and issues a signed session token.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *user.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domainErrors.ErrUserNotFound) {
			return "", nil, domainErrors.ErrInvalidCredentials
		}
		return "", nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return "", nil, domainErrors.ErrInvalidCredentials
	}

	token, err := s.issueToken(u.ID.String())
	if err != nil {
		return "", nil, err
	}
	return token, u, nil
}

// Session resolves the user behind an authenticated request.
func (s *AuthService) Session(ctx context.Context, userID string) (*user.User, error) {
	id, err := uuid.Parse(userID)
	if err != nil {
		return nil, domainErrors.ErrUserNotFound
	}
	return s.users.GetByID(ctx, id)
}

// Logout revokes the presented token for the remainder of its lifetime.
func (s *AuthService) Logout(ctx context.Context, rawToken string) error {
	claims, err := s.parseToken(rawToken)
	if err != nil {
		return domainErrors.ErrUnauthorized
	}

	ttl := s.jwtExpiry
	if claims.ExpiresAt != nil {
		ttl = time.Until(claims.ExpiresAt.Time)
	}
	if ttl <= 0 {
		return nil // already expired
	}
	if err := s.denylist.Revoke(ctx, claims.ID, ttl); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	s.logger.Info().Str("user_id", claims.UserID).Msg("user logged out")
	return nil
}

// VerifyToken validates a session token and returns the user id it carries.
// Revoked tokens are rejected even when otherwise valid.
func (s *AuthService) VerifyToken(ctx context.Context, rawToken string) (string, error) {
	claims, err := s.parseToken(rawToken)
	if err != nil {
		return "", domainErrors.ErrUnauthorized
	}

	if s.denylist != nil && claims.ID != "" {
		revoked, err := s.denylist.IsRevoked(ctx, claims.ID)
		if err != nil {
			// Fail closed: an unreachable denylist must not re-admit
			// revoked tokens.
			s.logger.Error().Err(err).Msg("token denylist unavailable")
			return "", domainErrors.ErrUnauthorized
		}
		if revoked {
			return "", domainErrors.ErrTokenRevoked
		}
	}
	return claims.UserID, nil
}

func (s *AuthService) issueToken(userID string) (string, error) {
	now := time.Now()
	claims := &TokenClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.jwtExpiry)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

func (s *AuthService) parseToken(rawToken string) (*TokenClaims, error) {
	claims := &TokenClaims{}
	token, err := jwt.ParseWithClaims(rawToken, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method")
		}
		return s.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return nil, domainErrors.ErrUnauthorized
	}
	return claims, nil
}

package testutil

import (
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/inkgate/paywall/internal/domain/article"
	"github.com/inkgate/paywall/internal/domain/user"
	"github.com/inkgate/paywall/internal/infrastructure/observability"
	"github.com/inkgate/paywall/pkg/retry"
)

func NewTestArticle(title string, isPremium bool, priceCents int64) *article.Article {
	return &article.Article{
		ID:         uuid.New(),
		Title:      title,
		Content:    "Lorem ipsum dolor sit amet, consectetur adipiscing elit.",
		IsPremium:  isPremium,
		PriceCents: priceCents,
		CreatedAt:  time.Now(),
	}
}

func NewTestUser(email string) *user.User {
	return &user.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy", // "password"
		CreatedAt:    time.Now(),
	}
}

// NewTestMetrics returns metrics bound to a throwaway registry so parallel
// tests never collide on the default one.
func NewTestMetrics() *observability.Metrics {
	return observability.NewMetrics("test", prometheus.NewRegistry())
}

// NewTestLogger returns a logger that discards everything.
func NewTestLogger() zerolog.Logger {
	return zerolog.Nop()
}

// FastRetry is a retry config tuned so failing tests do not sleep.
func FastRetry() retry.Config {
	return retry.Config{MaxAttempts: 3, InitialDelay: time.Millisecond, MaxDelay: 5 * time.Millisecond}
}

func UUIDPtr(id uuid.UUID) *uuid.UUID {
	return &id
}

package service

import (
	"context"
	"fmt"
	"math"

	"github.com/rs/zerolog"

	domainErrors "github.com/inkgate/paywall/internal/domain/errors"
	"github.com/inkgate/paywall/internal/infrastructure/observability"
)

// CheckoutService opens payment sessions for article unlocks.
type CheckoutService struct {
	gateway  PaymentGateway
	currency string
	logger   zerolog.Logger
	metrics  *observability.Metrics
}

// NewCheckoutService creates a new CheckoutService.
func NewCheckoutService(gateway PaymentGateway, currency string, logger zerolog.Logger, metrics *observability.Metrics) *CheckoutService {
	return &CheckoutService{
		gateway:  gateway,
		currency: currency,
		logger:   logger,
		metrics:  metrics,
	}
}

// CreateSessionRequest holds the input for opening a checkout session.
// Amount is in major currency units.
type CreateSessionRequest struct {
	ArticleID  string
	UserID     string
	Amount     float64
	SuccessURL string
	CancelURL  string
}

// CreateSession validates the amount, converts it to minor units and opens a
// checkout session carrying the article and user ids as session metadata.
// Gateway failures are returned as-is; the caller decides whether to retry.
func (s *CheckoutService) CreateSession(ctx context.Context, req CreateSessionRequest) (string, error) {
	if req.Amount <= 0 {
		return "", fmt.Errorf("%w: amount must be greater than 0", domainErrors.ErrInvalidAmount)
	}

	unitAmount := int64(math.Round(req.Amount * 100))

	sessionID, err := s.gateway.CreateCheckoutSession(ctx, CheckoutSessionParams{
		ArticleID:  req.ArticleID,
		UserID:     req.UserID,
		UnitAmount: unitAmount,
		Currency:   s.currency,
		SuccessURL: req.SuccessURL,
		CancelURL:  req.CancelURL,
	})
	if err != nil {
		s.metrics.CheckoutSessionsTotal.WithLabelValues("error").Inc()
		s.logger.Error().Err(err).
			Str("article_id", req.ArticleID).
			Str("user_id", req.UserID).
			Msg("checkout session creation failed")
		return "", fmt.Errorf("create checkout session: %w", err)
	}

	s.metrics.CheckoutSessionsTotal.WithLabelValues("created").Inc()
	s.logger.Info().
		Str("session_id", sessionID).
		Str("article_id", req.ArticleID).
		Int64("unit_amount", unitAmount).
		Msg("checkout session created")
	return sessionID, nil
}

package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	domainErrors "github.com/inkgate/paywall/internal/domain/errors"
	"github.com/inkgate/paywall/internal/domain/unlock"
	"github.com/inkgate/paywall/internal/infrastructure/observability"
	"github.com/inkgate/paywall/pkg/retry"
)

// EventCheckoutCompleted is the only event type that produces a state change.
const EventCheckoutCompleted = "checkout.session.completed"

// Session metadata keys. These must match the keys attached at session
// creation so the ids survive the round trip through the gateway.
const (
	metaArticleID = "articleId"
	metaUserID    = "userId"
)

// WebhookService reconciles verified payment events into unlock records.
//
// The gateway delivers events at least once and requires a timely 2xx to stop
// retrying, so every outcome past signature verification acknowledges the
// event: failures on the write path are logged and counted, never bounced.
type WebhookService struct {
	gateway  PaymentGateway
	unlocks  unlock.Repository
	eventLog EventLog // optional, observability only
	retryCfg retry.Config
	logger   zerolog.Logger
	metrics  *observability.Metrics
}

// NewWebhookService creates a new WebhookService. eventLog may be nil.
func NewWebhookService(
	gateway PaymentGateway,
	unlocks unlock.Repository,
	eventLog EventLog,
	retryCfg retry.Config,
	logger zerolog.Logger,
	metrics *observability.Metrics,
) *WebhookService {
	return &WebhookService{
		gateway:  gateway,
		unlocks:  unlocks,
		eventLog: eventLog,
		retryCfg: retryCfg,
		logger:   logger,
		metrics:  metrics,
	}
}

// HandleEvent verifies an inbound event and, for a completed checkout,
// records the unlock. A non-nil error is returned only for verification
// failures; everything after the signature check resolves to nil so the
// caller acknowledges receipt.
func (s *WebhookService) HandleEvent(ctx context.Context, payload []byte, signature string) error {
	event, err := s.gateway.VerifyEvent(payload, signature)
	if err != nil {
		s.metrics.WebhookEventsTotal.WithLabelValues("unknown", "verification_failed").Inc()
		s.logger.Warn().Err(err).Msg("webhook signature verification failed")
		return fmt.Errorf("%w: %v", domainErrors.ErrEventVerification, err)
	}

	s.noteDelivery(ctx, event)

	if event.Type != EventCheckoutCompleted {
		s.metrics.WebhookEventsTotal.WithLabelValues(event.Type, "ignored").Inc()
		s.logger.Debug().Str("event_id", event.ID).Str("event_type", event.Type).Msg("event type ignored")
		return nil
	}

	articleID := event.Metadata[metaArticleID]
	userID := event.Metadata[metaUserID]
	if articleID == "" || userID == "" {
		// A legacy or foreign session without our metadata must not crash
		// the handler or trap the gateway in a retry loop.
		s.metrics.WebhookEventsTotal.WithLabelValues(event.Type, "missing_metadata").Inc()
		s.logger.Error().
			Str("event_id", event.ID).
			Str("article_id", articleID).
			Str("user_id", userID).
			Msg("completed checkout without articleId/userId metadata, skipping")
		return nil
	}

	rec, err := unlock.NewRecord(userID, articleID)
	if err != nil {
		s.metrics.WebhookEventsTotal.WithLabelValues(event.Type, "missing_metadata").Inc()
		s.logger.Error().Err(err).Str("event_id", event.ID).Msg("invalid unlock metadata, skipping")
		return nil
	}

	var inserted bool
	err = retry.Do(ctx, s.retryCfg, func() error {
		var insertErr error
		inserted, insertErr = s.unlocks.Insert(ctx, rec)
		return insertErr
	})
	if err != nil {
		// Deliberate trade-off: the unlock is lost from the gateway's point
		// of view. Surface it through logs and metrics, not delivery retries.
		s.metrics.UnlockWriteFailures.Inc()
		s.metrics.WebhookEventsTotal.WithLabelValues(event.Type, "write_failed").Inc()
		s.logger.Error().Err(err).
			Str("event_id", event.ID).
			Str("user_id", userID).
			Str("article_id", articleID).
			Msg("failed to record unlock after retries")
		return nil
	}

	if !inserted {
		s.metrics.WebhookEventsTotal.WithLabelValues(event.Type, "already_unlocked").Inc()
		s.logger.Info().
			Str("event_id", event.ID).
			Str("user_id", userID).
			Str("article_id", articleID).
			Msg("unlock already recorded, insert skipped")
		return nil
	}

	s.metrics.UnlocksRecordedTotal.Inc()
	s.metrics.WebhookEventsTotal.WithLabelValues(event.Type, "unlocked").Inc()
	s.logger.Info().
		Str("event_id", event.ID).
		Str("user_id", userID).
		Str("article_id", articleID).
		Msg("article unlock recorded")
	return nil
}

// noteDelivery records the event id in the first-seen log. Duplicates are
// expected under at-least-once delivery; they are surfaced for alerting but
// never short-circuit the conditional insert.
func (s *WebhookService) noteDelivery(ctx context.Context, event *PaymentEvent) {
	if s.eventLog == nil || event.ID == "" {
		return
	}
	first, err := s.eventLog.FirstSeen(ctx, event.ID)
	if err != nil {
		s.logger.Warn().Err(err).Str("event_id", event.ID).Msg("event log unavailable")
		return
	}
	if !first {
		s.metrics.DuplicateDeliveriesTotal.Inc()
		s.logger.Info().Str("event_id", event.ID).Msg("duplicate event delivery")
	}
}

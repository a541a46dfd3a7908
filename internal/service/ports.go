package service

import (
	"context"
	"time"
)

// CheckoutSessionParams describes the single-item checkout session opened for
// an article unlock. ArticleID and UserID travel as opaque session metadata
// and must round-trip unchanged through the gateway's event payload.
type CheckoutSessionParams struct {
	ArticleID  string
	UserID     string
	UnitAmount int64 // minor currency units
	Currency   string
	SuccessURL string
	CancelURL  string
}

// PaymentEvent is a verified event from the payment gateway's feed.
type PaymentEvent struct {
	ID       string
	Type     string
	Metadata map[string]string
}

// PaymentGateway is the payment collaborator boundary. Implementations own
// session creation and webhook signature verification; handlers never touch
// an unverified payload.
type PaymentGateway interface {
	// CreateCheckoutSession opens a hosted checkout session and returns its id.
	CreateCheckoutSession(ctx context.Context, params CheckoutSessionParams) (string, error)

	// VerifyEvent reconstructs a trusted event from the raw body and signature
	// header. Any verification failure returns an error and no event.
	VerifyEvent(payload []byte, signature string) (*PaymentEvent, error)
}

// EventLog tracks which gateway event ids have already been delivered.
// It informs logging and metrics only: delivery is at-least-once and the
// unlock insert stays conditional regardless of what the log says.
type EventLog interface {
	// FirstSeen marks the event id as seen and reports whether this delivery
	// was the first.
	FirstSeen(ctx context.Context, eventID string) (bool, error)
}

// TokenDenylist revokes issued auth tokens until they expire.
type TokenDenylist interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

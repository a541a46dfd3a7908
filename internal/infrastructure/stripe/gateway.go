package stripe

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/sony/gobreaker/v2"
	stripe "github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/client"
	"github.com/stripe/stripe-go/v81/webhook"

	"github.com/inkgate/paywall/internal/infrastructure/config"
	"github.com/inkgate/paywall/internal/service"
)

// Gateway implements service.PaymentGateway on top of the Stripe API.
// Session creation goes through a circuit breaker; webhook verification is
// purely local (HMAC over the raw body) and needs no protection.
type Gateway struct {
	api           *client.API
	webhookSecret string
	currency      string
	breaker       *gobreaker.CircuitBreaker[string]
}

// NewGateway creates a Gateway from Stripe configuration.
func NewGateway(cfg *config.StripeConfig) *Gateway {
	api := &client.API{}
	api.Init(cfg.SecretKey, nil)

	breaker := gobreaker.NewCircuitBreaker[string](gobreaker.Settings{
		Name:        "stripe",
		MaxRequests: 10,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 10 && failureRatio >= 0.6
		},
	})

	return &Gateway{
		api:           api,
		webhookSecret: cfg.WebhookSecret,
		currency:      strings.ToLower(cfg.Currency),
		breaker:       breaker,
	}
}

// CreateCheckoutSession opens a single-item, single-quantity hosted checkout
// session. The article and user ids ride along as session metadata so the
// webhook side can recover them without a lookup.
func (g *Gateway) CreateCheckoutSession(ctx context.Context, p service.CheckoutSessionParams) (string, error) {
	return g.breaker.Execute(func() (string, error) {
		params := &stripe.CheckoutSessionParams{
			Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
			SuccessURL: stripe.String(p.SuccessURL),
			CancelURL:  stripe.String(p.CancelURL),
			LineItems: []*stripe.CheckoutSessionLineItemParams{
				{
					PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
						Currency: stripe.String(g.currency),
						ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
							Name: stripe.String(fmt.Sprintf("Unlock article #%s", p.ArticleID)),
						},
						UnitAmount: stripe.Int64(p.UnitAmount),
					},
					Quantity: stripe.Int64(1),
				},
			},
		}
		params.Context = ctx
		params.AddMetadata("articleId", p.ArticleID)
		params.AddMetadata("userId", p.UserID)

		sess, err := g.api.CheckoutSessions.New(params)
		if err != nil {
			return "", err
		}
		return sess.ID, nil
	})
}

// VerifyEvent reconstructs a trusted event from the exact request bytes and
// the Stripe-Signature header. API version drift on the event envelope is
// tolerated; the signature itself is not.
func (g *Gateway) VerifyEvent(payload []byte, signature string) (*service.PaymentEvent, error) {
	event, err := webhook.ConstructEventWithOptions(payload, signature, g.webhookSecret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		return nil, err
	}

	out := &service.PaymentEvent{
		ID:       event.ID,
		Type:     string(event.Type),
		Metadata: map[string]string{},
	}

	// Only checkout sessions carry the unlock metadata. A payload that fails
	// to decode is treated as metadata-less, not as a verification failure.
	if strings.HasPrefix(out.Type, "checkout.session.") {
		var sess stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &sess); err == nil && sess.Metadata != nil {
			out.Metadata = sess.Metadata
		}
	}
	return out, nil
}

package stripe

import (
	"encoding/hex"
	"fmt"
	"testing"
	"time"

	"github.com/stripe/stripe-go/v81/webhook"

	"github.com/inkgate/paywall/internal/infrastructure/config"
)

const testWebhookSecret = "whsec_test_secret"

func newTestGateway() *Gateway {
	return NewGateway(&config.StripeConfig{
		SecretKey:     "sk_test_123",
		WebhookSecret: testWebhookSecret,
		Currency:      "USD",
	})
}

func signPayload(payload []byte, secret string) string {
	now := time.Now()
	sig := webhook.ComputeSignature(now, payload, secret)
	return fmt.Sprintf("t=%d,v1=%s", now.Unix(), hex.EncodeToString(sig))
}

func TestVerifyEvent_ValidSignature(t *testing.T) {
	g := newTestGateway()

	payload := []byte(`{
		"id": "evt_123",
		"type": "checkout.session.completed",
		"data": {
			"object": {
				"id": "cs_test_123",
				"object": "checkout.session",
				"metadata": {"articleId": "A1", "userId": "U1"}
			}
		}
	}`)

	event, err := g.VerifyEvent(payload, signPayload(payload, testWebhookSecret))
	if err != nil {
		t.Fatalf("VerifyEvent() error = %v", err)
	}
	if event.ID != "evt_123" {
		t.Errorf("expected event id evt_123, got %q", event.ID)
	}
	if event.Type != "checkout.session.completed" {
		t.Errorf("unexpected event type %q", event.Type)
	}
	if event.Metadata["articleId"] != "A1" || event.Metadata["userId"] != "U1" {
		t.Errorf("metadata did not round-trip: %v", event.Metadata)
	}
}

func TestVerifyEvent_WrongSecret(t *testing.T) {
	g := newTestGateway()

	payload := []byte(`{"id": "evt_123", "type": "checkout.session.completed", "data": {"object": {}}}`)

	_, err := g.VerifyEvent(payload, signPayload(payload, "whsec_other_secret"))
	if err == nil {
		t.Fatal("expected verification failure for wrong secret")
	}
}

func TestVerifyEvent_TamperedPayload(t *testing.T) {
	g := newTestGateway()

	payload := []byte(`{"id": "evt_123", "type": "checkout.session.completed", "data": {"object": {}}}`)
	header := signPayload(payload, testWebhookSecret)

	tampered := []byte(`{"id": "evt_666", "type": "checkout.session.completed", "data": {"object": {}}}`)
	if _, err := g.VerifyEvent(tampered, header); err == nil {
		t.Fatal("expected verification failure for tampered payload")
	}
}

func TestVerifyEvent_GarbageSignature(t *testing.T) {
	g := newTestGateway()

	payload := []byte(`{"id": "evt_123", "type": "checkout.session.completed", "data": {"object": {}}}`)
	if _, err := g.VerifyEvent(payload, "not-a-signature"); err == nil {
		t.Fatal("expected verification failure for malformed header")
	}
}

func TestVerifyEvent_NonCheckoutEvent_NoMetadata(t *testing.T) {
	g := newTestGateway()

	payload := []byte(`{
		"id": "evt_456",
		"type": "payment_intent.succeeded",
		"data": {"object": {"id": "pi_123", "object": "payment_intent"}}
	}`)

	event, err := g.VerifyEvent(payload, signPayload(payload, testWebhookSecret))
	if err != nil {
		t.Fatalf("VerifyEvent() error = %v", err)
	}
	if event.Type != "payment_intent.succeeded" {
		t.Errorf("unexpected event type %q", event.Type)
	}
	if len(event.Metadata) != 0 {
		t.Errorf("expected no metadata for non-checkout event, got %v", event.Metadata)
	}
}

func TestVerifyEvent_CheckoutSessionWithoutMetadata(t *testing.T) {
	g := newTestGateway()

	payload := []byte(`{
		"id": "evt_789",
		"type": "checkout.session.completed",
		"data": {"object": {"id": "cs_test_456", "object": "checkout.session"}}
	}`)

	event, err := g.VerifyEvent(payload, signPayload(payload, testWebhookSecret))
	if err != nil {
		t.Fatalf("a session without metadata must still verify: %v", err)
	}
	if event.Metadata["articleId"] != "" {
		t.Errorf("unexpected metadata: %v", event.Metadata)
	}
}

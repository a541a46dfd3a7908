package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainErrors "github.com/inkgate/paywall/internal/domain/errors"
	"github.com/inkgate/paywall/internal/domain/unlock"
	"github.com/inkgate/paywall/internal/service"
	"github.com/inkgate/paywall/internal/testutil"
)

func setupWebhookService() (*service.WebhookService, *testutil.MockPaymentGateway, *testutil.MockUnlockRepository, *testutil.MockEventLog) {
	gateway := testutil.NewMockPaymentGateway()
	unlocks := testutil.NewMockUnlockRepository()
	eventLog := testutil.NewMockEventLog()
	svc := service.NewWebhookService(gateway, unlocks, eventLog, testutil.FastRetry(), testutil.NewTestLogger(), testutil.NewTestMetrics())
	return svc, gateway, unlocks, eventLog
}

func completedEvent(id, articleID, userID string) *service.PaymentEvent {
	return &service.PaymentEvent{
		ID:   id,
		Type: service.EventCheckoutCompleted,
		Metadata: map[string]string{
			"articleId": articleID,
			"userId":    userID,
		},
	}
}

func TestHandleEvent_CompletedCheckout_RecordsUnlock(t *testing.T) {
	svc, gateway, unlocks, _ := setupWebhookService()

	gateway.VerifyEventFunc = func(payload []byte, signature string) (*service.PaymentEvent, error) {
		return completedEvent("evt_1", "A1", "U1"), nil
	}

	err := svc.HandleEvent(context.Background(), []byte(`{}`), "sig")
	require.NoError(t, err)

	unlocked, err := unlocks.Exists(context.Background(), "U1", "A1")
	require.NoError(t, err)
	assert.True(t, unlocked)
}

func TestHandleEvent_VerificationFailure(t *testing.T) {
	svc, gateway, unlocks, _ := setupWebhookService()

	gateway.VerifyEventFunc = func(payload []byte, signature string) (*service.PaymentEvent, error) {
		return nil, errors.New("signature mismatch")
	}

	err := svc.HandleEvent(context.Background(), []byte(`{}`), "bad-sig")
	assert.ErrorIs(t, err, domainErrors.ErrEventVerification)
	assert.Zero(t, unlocks.InsertAttempts(), "no insert may happen for an unverified event")
}

func TestHandleEvent_IgnoredEventType(t *testing.T) {
	svc, gateway, unlocks, _ := setupWebhookService()

	for _, eventType := range []string{"checkout.session.expired", "payment_intent.succeeded", "charge.refunded"} {
		gateway.VerifyEventFunc = func(payload []byte, signature string) (*service.PaymentEvent, error) {
			return &service.PaymentEvent{ID: "evt_x", Type: eventType}, nil
		}

		err := svc.HandleEvent(context.Background(), []byte(`{}`), "sig")
		require.NoError(t, err, "ignored event %s must still be acknowledged", eventType)
	}
	assert.Zero(t, unlocks.InsertAttempts())
}

func TestHandleEvent_MissingMetadata(t *testing.T) {
	tests := []struct {
		name     string
		metadata map[string]string
	}{
		{"no metadata", nil},
		{"missing userId", map[string]string{"articleId": "A1"}},
		{"missing articleId", map[string]string{"userId": "U1"}},
		{"empty values", map[string]string{"articleId": "", "userId": ""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, gateway, unlocks, _ := setupWebhookService()

			gateway.VerifyEventFunc = func(payload []byte, signature string) (*service.PaymentEvent, error) {
				return &service.PaymentEvent{ID: "evt_1", Type: service.EventCheckoutCompleted, Metadata: tt.metadata}, nil
			}

			err := svc.HandleEvent(context.Background(), []byte(`{}`), "sig")
			require.NoError(t, err, "foreign session must be acknowledged, not bounced")
			assert.Zero(t, unlocks.InsertAttempts())
		})
	}
}

func TestHandleEvent_Redelivery_AttemptsInsertAgain(t *testing.T) {
	svc, gateway, unlocks, _ := setupWebhookService()

	gateway.VerifyEventFunc = func(payload []byte, signature string) (*service.PaymentEvent, error) {
		return completedEvent("evt_1", "A1", "U1"), nil
	}

	// Same event delivered twice. The second delivery must reach the store
	// again and resolve through the conditional insert, not be short-circuited
	// by the first-seen log.
	require.NoError(t, svc.HandleEvent(context.Background(), []byte(`{}`), "sig"))
	require.NoError(t, svc.HandleEvent(context.Background(), []byte(`{}`), "sig"))

	assert.Equal(t, 2, unlocks.InsertAttempts())

	recs, err := unlocks.ListByUser(context.Background(), "U1")
	require.NoError(t, err)
	assert.Len(t, recs, 1, "redelivery must not create a second record")
}

func TestHandleEvent_DistinctArticles_BothRecorded(t *testing.T) {
	svc, gateway, unlocks, _ := setupWebhookService()

	for i, articleID := range []string{"A1", "A2"} {
		id := articleID
		gateway.VerifyEventFunc = func(payload []byte, signature string) (*service.PaymentEvent, error) {
			return completedEvent("evt_"+id, id, "U1"), nil
		}
		require.NoError(t, svc.HandleEvent(context.Background(), []byte(`{}`), "sig"), "event %d", i)
	}

	recs, err := unlocks.ListByUser(context.Background(), "U1")
	require.NoError(t, err)
	assert.Len(t, recs, 2)
}

func TestHandleEvent_InsertFailure_StillAcknowledges(t *testing.T) {
	svc, gateway, unlocks, _ := setupWebhookService()

	gateway.VerifyEventFunc = func(payload []byte, signature string) (*service.PaymentEvent, error) {
		return completedEvent("evt_1", "A1", "U1"), nil
	}
	unlocks.InsertFunc = func(ctx context.Context, rec *unlock.Record) (bool, error) {
		return false, errors.New("connection refused")
	}

	err := svc.HandleEvent(context.Background(), []byte(`{}`), "sig")
	assert.NoError(t, err, "a write failure must not trap the provider in a retry loop")
	assert.Equal(t, 3, unlocks.InsertAttempts(), "insert should be retried before giving up")
}

func TestHandleEvent_InsertRecoversOnRetry(t *testing.T) {
	svc, gateway, unlocks, _ := setupWebhookService()

	gateway.VerifyEventFunc = func(payload []byte, signature string) (*service.PaymentEvent, error) {
		return completedEvent("evt_1", "A1", "U1"), nil
	}

	calls := 0
	unlocks.InsertFunc = func(ctx context.Context, rec *unlock.Record) (bool, error) {
		calls++
		if calls < 2 {
			return false, errors.New("deadlock detected")
		}
		return true, nil
	}

	err := svc.HandleEvent(context.Background(), []byte(`{}`), "sig")
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestHandleEvent_EventLogFailure_DoesNotBlockUnlock(t *testing.T) {
	svc, gateway, unlocks, eventLog := setupWebhookService()

	gateway.VerifyEventFunc = func(payload []byte, signature string) (*service.PaymentEvent, error) {
		return completedEvent("evt_1", "A1", "U1"), nil
	}
	eventLog.FirstSeenFunc = func(ctx context.Context, eventID string) (bool, error) {
		return false, errors.New("redis: connection pool timeout")
	}

	err := svc.HandleEvent(context.Background(), []byte(`{}`), "sig")
	require.NoError(t, err)

	unlocked, err := unlocks.Exists(context.Background(), "U1", "A1")
	require.NoError(t, err)
	assert.True(t, unlocked, "event log is observability only")
}

func TestHandleEvent_NilEventLog(t *testing.T) {
	gateway := testutil.NewMockPaymentGateway()
	unlocks := testutil.NewMockUnlockRepository()
	svc := service.NewWebhookService(gateway, unlocks, nil, testutil.FastRetry(), testutil.NewTestLogger(), testutil.NewTestMetrics())

	gateway.VerifyEventFunc = func(payload []byte, signature string) (*service.PaymentEvent, error) {
		return completedEvent("evt_1", "A1", "U1"), nil
	}

	require.NoError(t, svc.HandleEvent(context.Background(), []byte(`{}`), "sig"))
}

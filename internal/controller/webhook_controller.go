package controller

import (
	"errors"
	"io"
	"net/http"

	domainErrors "github.com/inkgate/paywall/internal/domain/errors"
	"github.com/inkgate/paywall/internal/service"
)

// maxEventBytes bounds the webhook body read. Stripe events are small; this
// only guards against a hostile oversized payload.
const maxEventBytes = 1 << 20

// WebhookController receives payment provider events.
type WebhookController struct {
	webhookService *service.WebhookService
}

// NewWebhookController creates a new WebhookController.
func NewWebhookController(webhookService *service.WebhookService) *WebhookController {
	return &WebhookController{webhookService: webhookService}
}

// HandleStripeEvent handles POST /api/v1/webhooks/stripe
//
// The body is passed to verification as raw bytes: the signature covers the
// exact byte stream, not a re-serialized form.
func (h *WebhookController) HandleStripeEvent(w http.ResponseWriter, r *http.Request) {
	signature := r.Header.Get("Stripe-Signature")
	if signature == "" {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "missing stripe signature header", Code: "missing_signature"})
		return
	}

	payload, err := io.ReadAll(io.LimitReader(r.Body, maxEventBytes))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "failed to read request body", Code: "invalid_body"})
		return
	}

	if err := h.webhookService.HandleEvent(r.Context(), payload, signature); err != nil {
		if errors.Is(err, domainErrors.ErrEventVerification) {
			writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error(), Code: "verification_failed"})
			return
		}
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, WebhookAckResponse{Received: true})
}

package controller

import (
	"errors"
	"net/http"

	domainErrors "github.com/inkgate/paywall/internal/domain/errors"
	"github.com/inkgate/paywall/internal/service"
)

// CheckoutController handles checkout session requests.
type CheckoutController struct {
	checkoutService *service.CheckoutService
}

// NewCheckoutController creates a new CheckoutController.
func NewCheckoutController(checkoutService *service.CheckoutService) *CheckoutController {
	return &CheckoutController{checkoutService: checkoutService}
}

// CreateSession handles POST /api/v1/checkout/session
func (h *CheckoutController) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req CreateCheckoutSessionRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, err)
		return
	}

	sessionID, err := h.checkoutService.CreateSession(r.Context(), service.CreateSessionRequest{
		ArticleID:  req.ArticleID,
		UserID:     req.UserID,
		Amount:     req.Amount,
		SuccessURL: req.SuccessURL,
		CancelURL:  req.CancelURL,
	})
	if err != nil {
		if errors.Is(err, domainErrors.ErrInvalidAmount) {
			writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error(), Code: "invalid_amount"})
			return
		}
		// Collaborator failure. The failure message is surfaced so the
		// client can decide whether to retry session creation.
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: err.Error(), Code: "gateway_error"})
		return
	}

	writeJSON(w, http.StatusOK, CheckoutSessionResponse{SessionID: sessionID})
}

package controllers

import (
	"log/slog"
	"net/http"
	"strings"

	h "clubhub/internal/delivery/http/helpers"
	"clubhub/internal/delivery/http/middleware"
	"clubhub/internal/domain"
)

// CreateCheckoutRequest is the request body for POST /payments/checkout
type CreateCheckoutRequest struct {
	Purpose     string `json:"purpose"`
	AmountCents int    `json:"amount_cents"`
}

// Validate implements Validator.
func (c CreateCheckoutRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(c.Purpose) == "" {
		errs = append(errs, "purpose is required")
	}
	if c.AmountCents <= 0 {
		errs = append(errs, "amount_cents must be positive")
	}
	return errs
}

// GatewayWebhookRequest is the request body for POST /payments/webhook
type GatewayWebhookRequest struct {
	GatewayID string `json:"gateway_id"`
	Status    string `json:"status"`
}

// Validate implements Validator.
func (g GatewayWebhookRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(g.GatewayID) == "" {
		errs = append(errs, "gateway_id is required")
	}
	if strings.TrimSpace(g.Status) == "" {
		errs = append(errs, "status is required")
	}
	return errs
}

type PaymentController struct {
	Logger  *slog.Logger
	Service domain.PaymentService
}

func NewPaymentController(logger *slog.Logger, svc domain.PaymentService) *PaymentController {
	return &PaymentController{
		Logger:  logger,
		Service: svc,
	}
}

// CreateCheckout godoc
// @Summary Create a checkout transaction
// @Description Creates a PENDING transaction for the caller's family, correlated with the gateway by a generated id. The gateway reports the outcome through the webhook.
// @Tags payments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreateCheckoutRequest true "Checkout data"
// @Success 201 {object} helpers.APIResponse "data contains the pending transaction"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /payments/checkout [post]
func (c *PaymentController) CreateCheckout(w http.ResponseWriter, r *http.Request) {
	holderID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
		return
	}
	var req CreateCheckoutRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	tx, err := c.Service.CreateCheckout(r.Context(), holderID, strings.TrimSpace(req.Purpose), req.AmountCents)
	if err != nil {
		h.WriteDomainError(w, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusCreated, tx)
}

// GatewayWebhook godoc
// @Summary Apply a payment-gateway status update
// @Description Called by the payment gateway. Statuses only move forward; a paid affiliation checkout activates the family's affiliation.
// @Tags payments
// @Accept json
// @Produce json
// @Param body body GatewayWebhookRequest true "Gateway status update"
// @Success 200 {object} helpers.APIResponse "data contains the updated transaction"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /payments/webhook [post]
func (c *PaymentController) GatewayWebhook(w http.ResponseWriter, r *http.Request) {
	var req GatewayWebhookRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	status := domain.TransactionStatus(strings.ToUpper(strings.TrimSpace(req.Status)))
	tx, err := c.Service.ApplyGatewayStatus(r.Context(), strings.TrimSpace(req.GatewayID), status)
	if err != nil {
		h.WriteDomainError(w, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, tx)
}

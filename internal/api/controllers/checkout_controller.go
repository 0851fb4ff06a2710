package controllers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"cabbie/internal/models/request_models"
	"cabbie/internal/services"
	"cabbie/pkg/utils"
)

// Stripe events are well under this size.
const maxWebhookBody = 64 << 10

type CheckoutController struct {
	checkout services.CheckoutServiceInterface
	wizard   services.WizardServiceInterface
	log      *zap.Logger
}

func NewCheckoutController(checkout services.CheckoutServiceInterface, wizard services.WizardServiceInterface, log *zap.Logger) *CheckoutController {
	return &CheckoutController{checkout: checkout, wizard: wizard, log: log}
}

// CreateSession godoc
// @Summary Start payment
// @Description Opens (or reuses) a payment session for a completed wizard draft or a full booking draft
// @Tags Checkout
// @Accept json
// @Produce json
// @Param request body request_models.CreateCheckoutRequest true "Draft id or draft"
// @Success 200 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Failure 502 {object} utils.APIResponse
// @Router /checkout/sessions [post]
func (ch *CheckoutController) CreateSession(c *gin.Context) {
	var req request_models.CreateCheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	ctx := c.Request.Context()

	var draft request_models.BookingDraft
	switch {
	case req.DraftID != "":
		d, err := ch.wizard.CompletedDraft(ctx, req.DraftID)
		if err != nil {
			utils.HandleServiceError(c, err)
			return
		}
		draft = *d
	case req.Draft != nil:
		draft = *req.Draft
	default:
		utils.RespondError(c, http.StatusBadRequest, "draft_id or draft is required")
		return
	}

	session, err := ch.checkout.CreateSession(ctx, optionalAccountID(c), draft)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, session, "Payment session ready")
}

// GetSession godoc
// @Summary Payment session status
// @Description Polled by the client after confirming payment until a booking reference appears
// @Tags Checkout
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Router /checkout/sessions/{id} [get]
func (ch *CheckoutController) GetSession(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.HandleServiceError(c, utils.ErrSessionNotFound)
		return
	}

	status, err := ch.checkout.GetSessionStatus(c.Request.Context(), id)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, status, "Session fetched")
}

// StripeWebhook verifies and applies a Stripe event. Anything other than a
// bad signature that fails is answered with 500 so Stripe retries it.
func (ch *CheckoutController) StripeWebhook(c *gin.Context) {
	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
	if err != nil {
		utils.RespondError(c, http.StatusServiceUnavailable, "Could not read body")
		return
	}

	err = ch.checkout.HandleWebhook(c.Request.Context(), payload, c.GetHeader("Stripe-Signature"))
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"received": true})
	case errors.Is(err, utils.ErrWebhookSignature):
		ch.log.Warn("rejected stripe webhook", zap.String("trace_id", c.GetString("trace_id")), zap.Error(err))
		utils.HandleServiceError(c, err)
	default:
		ch.log.Error("stripe webhook failed", zap.String("trace_id", c.GetString("trace_id")), zap.Error(err))
		utils.RespondError(c, http.StatusInternalServerError, "Webhook processing failed")
	}
}

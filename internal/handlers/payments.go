package handlers

import (
	"net/http"
	"strconv"

	"gigbook/internal/models"

	"github.com/gin-gonic/gin"
)

// Payments handlers

// CreatePayment - POST /api/payments
func (h *Handlers) CreatePayment(c *gin.Context) {
	var req models.CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	payment, err := h.services.Payments.Create(c.Request.Context(), principal(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusCreated, payment)
}

// ListPayments - GET /api/payments
func (h *Handlers) ListPayments(c *gin.Context) {
	explicit, _ := strconv.ParseInt(c.Query("booker_id"), 10, 64)
	if explicit == 0 {
		explicit, _ = strconv.ParseInt(c.Query("artist_id"), 10, 64)
	}

	payments, err := h.services.Payments.List(c.Request.Context(), principal(c), explicit)
	if err != nil {
		respondError(c, err)
		return
	}

	respondList(c, payments, len(payments))
}

// GetPayment - GET /api/payments/:id
func (h *Handlers) GetPayment(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	payment, err := h.services.Payments.Get(c.Request.Context(), principal(c), id)
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, payment)
}

// PaymentWebhook - POST /api/payments/:id/webhook
// Settlement callback from the payment gateway. Unauthenticated; replay-safe.
func (h *Handlers) PaymentWebhook(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	var req models.PaymentWebhookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	if err := h.services.Payments.HandleWebhook(c.Request.Context(), id, &req); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.Response{Success: true})
}

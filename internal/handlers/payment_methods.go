package handlers

import (
	"net/http"

	"gigbook/internal/models"

	"github.com/gin-gonic/gin"
)

// Payment methods handlers

// CreatePaymentMethod - POST /api/payment-methods
func (h *Handlers) CreatePaymentMethod(c *gin.Context) {
	var req models.CreatePaymentMethodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	method, err := h.services.PaymentMethods.Create(c.Request.Context(), principal(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusCreated, method)
}

// ListPaymentMethods - GET /api/payment-methods
func (h *Handlers) ListPaymentMethods(c *gin.Context) {
	methods, err := h.services.PaymentMethods.List(c.Request.Context(), principal(c))
	if err != nil {
		respondError(c, err)
		return
	}

	respondList(c, methods, len(methods))
}

// UpdatePaymentMethod - PUT /api/payment-methods/:id
func (h *Handlers) UpdatePaymentMethod(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	var req models.UpdatePaymentMethodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	method, err := h.services.PaymentMethods.Update(c.Request.Context(), principal(c), id, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, method)
}

// SetDefaultPaymentMethod - PUT /api/payment-methods/:id/default
func (h *Handlers) SetDefaultPaymentMethod(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	method, err := h.services.PaymentMethods.SetDefault(c.Request.Context(), principal(c), id)
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, method)
}

// DeletePaymentMethod - DELETE /api/payment-methods/:id
func (h *Handlers) DeletePaymentMethod(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	if err := h.services.PaymentMethods.Delete(c.Request.Context(), principal(c), id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.Response{Success: true})
}

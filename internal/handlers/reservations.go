package handlers

import (
	"net/http"
	"strconv"

	"gigbook/internal/models"

	"github.com/gin-gonic/gin"
)

// Reservations handlers

// CreateReservation - POST /api/reservations
func (h *Handlers) CreateReservation(c *gin.Context) {
	var req models.CreateReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	res, err := h.services.Reservations.Create(c.Request.Context(), principal(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusCreated, res)
}

// ListReservations - GET /api/reservations
func (h *Handlers) ListReservations(c *gin.Context) {
	// Explicit id is a read-path fallback for tokens without a profile claim
	explicit, _ := strconv.ParseInt(c.Query("booker_id"), 10, 64)
	if explicit == 0 {
		explicit, _ = strconv.ParseInt(c.Query("artist_id"), 10, 64)
	}

	reservations, err := h.services.Reservations.List(c.Request.Context(), principal(c), explicit)
	if err != nil {
		respondError(c, err)
		return
	}

	respondList(c, reservations, len(reservations))
}

// GetReservation - GET /api/reservations/:id
func (h *Handlers) GetReservation(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	res, err := h.services.Reservations.Get(c.Request.Context(), principal(c), id)
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, res)
}

// UpdateReservationStatus - PATCH /api/reservations/:id/status
func (h *Handlers) UpdateReservationStatus(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	var req models.UpdateReservationStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	res, err := h.services.Reservations.UpdateStatus(c.Request.Context(), principal(c), id, req.Status)
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, res)
}

// UpdateReservationPayment - PATCH /api/reservations/:id/payment
func (h *Handlers) UpdateReservationPayment(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	var req models.UpdateReservationPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	res, err := h.services.Reservations.UpdatePaymentStatus(c.Request.Context(), principal(c), id, req.PaymentStatus)
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, res)
}

// DeleteReservation - DELETE /api/reservations/:id
func (h *Handlers) DeleteReservation(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	if err := h.services.Reservations.Delete(c.Request.Context(), principal(c), id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.Response{Success: true})
}

package handlers

import (
	"net/http"

	"gigbook/internal/models"

	"github.com/gin-gonic/gin"
)

// Notifications handlers

// ListNotifications - GET /api/notifications
func (h *Handlers) ListNotifications(c *gin.Context) {
	notifications, err := h.services.Notifications.List(c.Request.Context(), principal(c))
	if err != nil {
		respondError(c, err)
		return
	}

	respondList(c, notifications, len(notifications))
}

// MarkNotificationRead - PATCH /api/notifications/:id/read
func (h *Handlers) MarkNotificationRead(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	if err := h.services.Notifications.MarkRead(c.Request.Context(), principal(c), id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.Response{Success: true})
}

// MarkAllNotificationsRead - PATCH /api/notifications/read-all
func (h *Handlers) MarkAllNotificationsRead(c *gin.Context) {
	count, err := h.services.Notifications.MarkAllRead(c.Request.Context(), principal(c))
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, gin.H{"updated": count})
}

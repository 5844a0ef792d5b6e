package consumers

import (
	"context"
	"encoding/json"
	"log/slog"

	"gigbook/internal/models"
	"gigbook/internal/repository"

	"github.com/nats-io/stan.go"
)

type Handlers struct {
	repos *repository.Repositories
}

func NewHandlers(repos *repository.Repositories) *Handlers {
	return &Handlers{repos: repos}
}

func (h *Handlers) HandleReservationCreated(m *stan.Msg) {
	var event models.ReservationCreatedEvent
	if err := json.Unmarshal(m.Data, &event); err != nil {
		slog.Error("Failed to unmarshal reservation created event", "error", err)
		return
	}

	slog.Info("Processing reservation created event",
		"reservation_id", event.ReservationID,
		"booker_id", event.BookerID,
		"artist_id", event.ArtistID)

	// Analytics and calendar sync hook; the in-band side effects already ran

	m.Ack()
}

func (h *Handlers) HandleReservationStatusChanged(m *stan.Msg) {
	var event models.ReservationStatusChangedEvent
	if err := json.Unmarshal(m.Data, &event); err != nil {
		slog.Error("Failed to unmarshal status changed event", "error", err)
		return
	}

	slog.Info("Processing reservation status changed event",
		"reservation_id", event.ReservationID,
		"previous_status", event.PreviousStatus,
		"status", event.Status,
		"actor_role", event.ActorRole)

	m.Ack()
}

func (h *Handlers) HandlePaymentCompleted(m *stan.Msg) {
	var event models.PaymentCompletedEvent
	if err := json.Unmarshal(m.Data, &event); err != nil {
		slog.Error("Failed to unmarshal payment completed event", "error", err)
		return
	}

	slog.Info("Processing payment completed event",
		"payment_id", event.PaymentID,
		"reservation_id", event.ReservationID,
		"transaction_id", event.TransactionID)

	// Cross-check the reservation landed on the expected payment axis; the
	// settlement transaction is authoritative, this only surfaces drift
	ctx := context.Background()
	res, err := h.repos.Reservations.GetByID(ctx, event.ReservationID)
	if err != nil {
		slog.Error("Failed to get reservation", "reservation_id", event.ReservationID, "error", err)
		return
	}
	if res != nil && res.PaymentStatus == models.ReservationUnpaid {
		slog.Warn("Reservation still unpaid after payment completion",
			"reservation_id", res.ID,
			"payment_id", event.PaymentID)
	}

	m.Ack()
}

func (h *Handlers) HandlePaymentFailed(m *stan.Msg) {
	var event models.PaymentFailedEvent
	if err := json.Unmarshal(m.Data, &event); err != nil {
		slog.Error("Failed to unmarshal payment failed event", "error", err)
		return
	}

	slog.Info("Processing payment failed event",
		"payment_id", event.PaymentID,
		"reservation_id", event.ReservationID,
		"reason", event.Reason)

	m.Ack()
}

func (h *Handlers) HandleNotificationCreated(m *stan.Msg) {
	var event models.NotificationCreatedEvent
	if err := json.Unmarshal(m.Data, &event); err != nil {
		slog.Error("Failed to unmarshal notification created event", "error", err)
		return
	}

	slog.Info("Processing notification created event",
		"notification_id", event.NotificationID,
		"recipient_id", event.RecipientID,
		"recipient_type", event.RecipientType,
		"type", event.Type)

	// Delivery channels (email, push) hang off this subject

	m.Ack()
}

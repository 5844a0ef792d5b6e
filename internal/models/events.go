package models

import "time"

// NATS event subjects
const (
	EventReservationCreated       = "reservation.created"
	EventReservationStatusChanged = "reservation.status_changed"
	EventReservationDeleted       = "reservation.deleted"
	EventPaymentCreated           = "payment.created"
	EventPaymentCompleted         = "payment.completed"
	EventPaymentFailed            = "payment.failed"
	EventNotificationCreated      = "notification.created"
)

// ReservationCreatedEvent is published after a reservation is persisted.
type ReservationCreatedEvent struct {
	ReservationID int64     `json:"reservation_id"`
	BookerID      int64     `json:"booker_id"`
	ArtistID      int64     `json:"artist_id"`
	ServiceID     int64     `json:"service_id"`
	Timestamp     time.Time `json:"timestamp"`
}

// ReservationStatusChangedEvent is published after every successful status
// transition, including the payment-driven auto-confirm.
type ReservationStatusChangedEvent struct {
	ReservationID  int64             `json:"reservation_id"`
	PreviousStatus ReservationStatus `json:"previous_status"`
	Status         ReservationStatus `json:"status"`
	ActorRole      Role              `json:"actor_role"`
	Timestamp      time.Time         `json:"timestamp"`
}

// ReservationDeletedEvent is published after a hard delete.
type ReservationDeletedEvent struct {
	ReservationID int64     `json:"reservation_id"`
	ActorRole     Role      `json:"actor_role"`
	Timestamp     time.Time `json:"timestamp"`
}

// PaymentCreatedEvent is published after a payment record is persisted.
type PaymentCreatedEvent struct {
	PaymentID     int64     `json:"payment_id"`
	ReservationID int64     `json:"reservation_id"`
	Reference     string    `json:"reference"`
	TotalAmount   int64     `json:"total_amount"`
	Timestamp     time.Time `json:"timestamp"`
}

// PaymentCompletedEvent is published when a payment reaches completed status,
// via either the simulated gateway or the webhook.
type PaymentCompletedEvent struct {
	PaymentID     int64       `json:"payment_id"`
	ReservationID int64       `json:"reservation_id"`
	PaymentType   PaymentType `json:"payment_type"`
	TransactionID string      `json:"transaction_id"`
	Timestamp     time.Time   `json:"timestamp"`
}

// PaymentFailedEvent is published when a payment fails or is refunded.
type PaymentFailedEvent struct {
	PaymentID     int64     `json:"payment_id"`
	ReservationID int64     `json:"reservation_id"`
	Reason        string    `json:"reason"`
	Timestamp     time.Time `json:"timestamp"`
}

// NotificationCreatedEvent is published after a notification is stored so
// delivery consumers can fan it out.
type NotificationCreatedEvent struct {
	NotificationID int64            `json:"notification_id"`
	RecipientID    int64            `json:"recipient_id"`
	RecipientType  OwnerType        `json:"recipient_type"`
	Type           NotificationType `json:"type"`
	Timestamp      time.Time        `json:"timestamp"`
}

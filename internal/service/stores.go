package service

import (
	"context"

	"gigbook/internal/gateway"
	"gigbook/internal/models"
)

// Storage contracts consumed by the services. The repository package provides
// the Postgres implementations; tests substitute in-memory fakes.

type ReservationStore interface {
	Create(ctx context.Context, res *models.Reservation) error
	GetByID(ctx context.Context, id int64) (*models.Reservation, error)
	ListByBooker(ctx context.Context, bookerID int64) ([]models.Reservation, error)
	ListByArtist(ctx context.Context, artistID int64) ([]models.Reservation, error)
	Transition(ctx context.Context, id int64, from, to models.ReservationStatus) (bool, error)
	SettlePayment(ctx context.Context, id int64, ps models.ReservationPaymentStatus) (bool, error)
	UpdatePaymentStatus(ctx context.Context, id int64, ps models.ReservationPaymentStatus) error
	Delete(ctx context.Context, id int64) error
}

type PaymentStore interface {
	Create(ctx context.Context, p *models.Payment) error
	GetByID(ctx context.Context, id int64) (*models.Payment, error)
	ListByPayer(ctx context.Context, payerID int64) ([]models.Payment, error)
	ListByPayee(ctx context.Context, payeeID int64) ([]models.Payment, error)
	MarkStatus(ctx context.Context, id int64, status models.PaymentStatus, transactionID *string) (bool, error)
}

type PaymentMethodStore interface {
	Create(ctx context.Context, m *models.PaymentMethod) error
	GetByID(ctx context.Context, id int64) (*models.PaymentMethod, error)
	ListByOwner(ctx context.Context, ownerID int64, ownerType models.OwnerType) ([]models.PaymentMethod, error)
	Update(ctx context.Context, m *models.PaymentMethod) error
	SetDefault(ctx context.Context, id, ownerID int64, ownerType models.OwnerType) error
	Delete(ctx context.Context, m *models.PaymentMethod) error
}

type NotificationStore interface {
	Create(ctx context.Context, n *models.Notification) error
	ListByRecipient(ctx context.Context, recipientID int64, recipientType models.OwnerType) ([]models.Notification, error)
	MarkRead(ctx context.Context, id, recipientID int64, recipientType models.OwnerType) (bool, error)
	MarkAllRead(ctx context.Context, recipientID int64, recipientType models.OwnerType) (int64, error)
}

// ServiceDirectory is the external service catalog; the core only reads the
// active flag and the owning artist.
type ServiceDirectory interface {
	GetActiveByID(ctx context.Context, id int64) (*models.Service, error)
}

// EventPublisher is the fire-and-forget domain event sink (NATS).
type EventPublisher interface {
	Publish(subject string, data interface{}) error
}

// Gateway accepts payment intents. The in-process client settles instantly;
// a real one reports completion through the webhook.
type Gateway interface {
	Charge(ctx context.Context, req gateway.ChargeRequest) (*gateway.ChargeResult, error)
}

// IdempotencyStore deduplicates webhook deliveries.
type IdempotencyStore interface {
	FirstDelivery(ctx context.Context, key string) (bool, error)
}

package service

import (
	"gigbook/internal/cache"
	"gigbook/internal/gateway"
	"gigbook/internal/messaging"
	"gigbook/internal/repository"
)

type Services struct {
	Reservations   *ReservationService
	Payments       *PaymentService
	PaymentMethods *PaymentMethodService
	Notifications  *NotificationService
}

func NewServices(repos *repository.Repositories, natsClient *messaging.NATSClient, gatewayClient *gateway.Client, idempotency *cache.Client) *Services {
	notifier := NewNotifier(repos.Notifications, natsClient)

	// cache.Client is optional; a nil interface keeps the webhook on the
	// DB-level guard alone
	var idem IdempotencyStore
	if idempotency != nil {
		idem = idempotency
	}

	return &Services{
		Reservations:   NewReservationService(repos.Reservations, repos.Services, notifier, natsClient),
		Payments:       NewPaymentService(repos.Payments, repos.Reservations, repos.PaymentMethods, gatewayClient, idem, notifier, natsClient),
		PaymentMethods: NewPaymentMethodService(repos.PaymentMethods),
		Notifications:  NewNotificationService(repos.Notifications),
	}
}

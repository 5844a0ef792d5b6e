package repository

import (
	"gigbook/internal/database"
)

type Repositories struct {
	Reservations   *ReservationRepository
	Payments       *PaymentRepository
	PaymentMethods *PaymentMethodRepository
	Notifications  *NotificationRepository
	Services       *ServiceRepository
}

func NewRepositories(db *database.DB) *Repositories {
	return &Repositories{
		Reservations:   NewReservationRepository(db),
		Payments:       NewPaymentRepository(db),
		PaymentMethods: NewPaymentMethodRepository(db),
		Notifications:  NewNotificationRepository(db),
		Services:       NewServiceRepository(db),
	}
}

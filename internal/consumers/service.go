package consumers

import (
	"context"
	"log/slog"

	"gigbook/internal/config"
	"gigbook/internal/database"
	"gigbook/internal/messaging"
	"gigbook/internal/models"
	"gigbook/internal/repository"
)

type ConsumerService struct {
	db       *database.DB
	nats     *messaging.NATSClient
	repos    *repository.Repositories
	handlers *Handlers
}

func NewConsumerService(cfg *config.Config) (*ConsumerService, error) {
	// Connect to database
	db, err := database.Connect(cfg.Database)
	if err != nil {
		return nil, err
	}

	// Connect to NATS
	natsClient, err := messaging.NewNATSClient(cfg.NATS)
	if err != nil {
		return nil, err
	}

	repos := repository.NewRepositories(db)
	handlers := NewHandlers(repos)

	return &ConsumerService{
		db:       db,
		nats:     natsClient,
		repos:    repos,
		handlers: handlers,
	}, nil
}

func (cs *ConsumerService) Start() error {
	slog.Info("Starting NATS consumers...")

	// Reservation lifecycle events
	_, err := cs.nats.SubscribeQueue(models.EventReservationCreated, "consumers", cs.handlers.HandleReservationCreated)
	if err != nil {
		return err
	}

	_, err = cs.nats.SubscribeQueue(models.EventReservationStatusChanged, "consumers", cs.handlers.HandleReservationStatusChanged)
	if err != nil {
		return err
	}

	// Payment events
	_, err = cs.nats.SubscribeQueue(models.EventPaymentCompleted, "consumers", cs.handlers.HandlePaymentCompleted)
	if err != nil {
		return err
	}

	_, err = cs.nats.SubscribeQueue(models.EventPaymentFailed, "consumers", cs.handlers.HandlePaymentFailed)
	if err != nil {
		return err
	}

	// Notification fan-out
	_, err = cs.nats.SubscribeQueue(models.EventNotificationCreated, "consumers", cs.handlers.HandleNotificationCreated)
	if err != nil {
		return err
	}

	slog.Info("All consumers started successfully")
	return nil
}

func (cs *ConsumerService) Shutdown(ctx context.Context) error {
	slog.Info("Shutting down consumer service...")

	if cs.nats != nil {
		if err := cs.nats.Close(); err != nil {
			slog.Error("Error closing NATS connection", "error", err)
		}
	}

	if cs.db != nil {
		if err := cs.db.Close(); err != nil {
			slog.Error("Error closing database connection", "error", err)
			return err
		}
	}

	return nil
}

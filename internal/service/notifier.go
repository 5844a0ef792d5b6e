package service

import (
	"context"
	"fmt"
	"time"

	"gigbook/internal/apperrors"
	"gigbook/internal/identity"
	"gigbook/internal/logger"
	"gigbook/internal/metrics"
	"gigbook/internal/models"
)

// Notifier translates lifecycle and payment events into stored,
// recipient-addressed notifications. Dispatch runs after the primary
// mutation commits and never fails the triggering operation.
type Notifier struct {
	store     NotificationStore
	publisher EventPublisher
}

func NewNotifier(store NotificationStore, publisher EventPublisher) *Notifier {
	return &Notifier{store: store, publisher: publisher}
}

// Dispatch stores the notification and announces it to consumers. All
// failures are logged and swallowed.
func (n *Notifier) Dispatch(ctx context.Context, notif *models.Notification) {
	if err := n.store.Create(ctx, notif); err != nil {
		metrics.NotificationFailures.Inc()
		logger.WithContext(ctx).Error("Failed to store notification",
			"error", err,
			"recipient_id", notif.RecipientID,
			"type", notif.Type)
		return
	}

	event := models.NotificationCreatedEvent{
		NotificationID: notif.ID,
		RecipientID:    notif.RecipientID,
		RecipientType:  notif.RecipientType,
		Type:           notif.Type,
		Timestamp:      time.Now(),
	}
	if err := n.publisher.Publish(models.EventNotificationCreated, event); err != nil {
		logger.WithContext(ctx).Error("Failed to publish notification created event",
			"error", err,
			"notification_id", notif.ID)
	}
}

// NotificationService is the read side: recipients list their notifications
// and flip read state.
type NotificationService struct {
	store    NotificationStore
	resolver *identity.Resolver
}

func NewNotificationService(store NotificationStore) *NotificationService {
	return &NotificationService{store: store, resolver: identity.NewResolver()}
}

// recipient derives the (id, type) notification address for the principal.
func (s *NotificationService) recipient(p identity.Principal) (int64, models.OwnerType, error) {
	switch p.Role {
	case models.RoleBooker:
		id, err := s.resolver.Resolve(p, models.RoleBooker, 0)
		return id, models.OwnerBooker, err
	case models.RoleArtist:
		id, err := s.resolver.Resolve(p, models.RoleArtist, 0)
		return id, models.OwnerArtist, err
	}
	return 0, "", fmt.Errorf("role %s has no notification inbox: %w", p.Role, apperrors.ErrForbidden)
}

func (s *NotificationService) List(ctx context.Context, p identity.Principal) ([]models.Notification, error) {
	id, ownerType, err := s.recipient(p)
	if err != nil {
		return nil, err
	}

	notifications, err := s.store.ListByRecipient(ctx, id, ownerType)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}

	return notifications, nil
}

func (s *NotificationService) MarkRead(ctx context.Context, p identity.Principal, id int64) error {
	recipientID, ownerType, err := s.recipient(p)
	if err != nil {
		return err
	}

	ok, err := s.store.MarkRead(ctx, id, recipientID, ownerType)
	if err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	if !ok {
		return fmt.Errorf("notification %d: %w", id, apperrors.ErrNotFound)
	}

	return nil
}

func (s *NotificationService) MarkAllRead(ctx context.Context, p identity.Principal) (int64, error) {
	recipientID, ownerType, err := s.recipient(p)
	if err != nil {
		return 0, err
	}

	count, err := s.store.MarkAllRead(ctx, recipientID, ownerType)
	if err != nil {
		return 0, fmt.Errorf("failed to mark notifications read: %w", err)
	}

	return count, nil
}

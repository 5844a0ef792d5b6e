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

// allowedTargets is the transition table: which target statuses each actor
// role may request. The payment-driven pending→confirmed transition bypasses
// this table (system actor).
var allowedTargets = map[models.Role]map[models.ReservationStatus]bool{
	models.RoleBooker: {
		models.ReservationCancelled: true,
	},
	models.RoleArtist: {
		models.ReservationConfirmed: true,
		models.ReservationCompleted: true,
		models.ReservationCancelled: true,
	},
}

// transitionNotifications maps a target status to the notification sent to
// the counter-party.
var transitionNotifications = map[models.ReservationStatus]struct {
	Type  models.NotificationType
	Title string
}{
	models.ReservationConfirmed: {models.NotifReservationConfirmed, "Reservation confirmed"},
	models.ReservationCompleted: {models.NotifReservationCompleted, "Reservation completed"},
	models.ReservationCancelled: {models.NotifReservationCancelled, "Reservation cancelled"},
}

type ReservationService struct {
	reservations ReservationStore
	services     ServiceDirectory
	notifier     *Notifier
	publisher    EventPublisher
	resolver     *identity.Resolver
	lenient      *identity.Resolver
}

func NewReservationService(reservations ReservationStore, services ServiceDirectory, notifier *Notifier, publisher EventPublisher) *ReservationService {
	return &ReservationService{
		reservations: reservations,
		services:     services,
		notifier:     notifier,
		publisher:    publisher,
		resolver:     identity.NewResolver(),
		lenient:      identity.NewLenientResolver(),
	}
}

// Create books an active service for the acting booker. The reservation
// starts pending on both axes; the assigned artist is notified.
func (s *ReservationService) Create(ctx context.Context, p identity.Principal, req *models.CreateReservationRequest) (*models.Reservation, error) {
	bookerID, err := s.resolver.Resolve(p, models.RoleBooker, 0)
	if err != nil {
		return nil, err
	}

	svc, err := s.services.GetActiveByID(ctx, req.ServiceID)
	if err != nil {
		return nil, fmt.Errorf("failed to get service: %w", err)
	}
	if svc == nil {
		return nil, fmt.Errorf("active service %d: %w", req.ServiceID, apperrors.ErrNotFound)
	}

	eventDate, err := time.Parse("2006-01-02", req.EventDate)
	if err != nil {
		return nil, fmt.Errorf("event_date must be YYYY-MM-DD: %w", apperrors.ErrValidation)
	}

	res := &models.Reservation{
		BookerID:      bookerID,
		ArtistID:      svc.ArtistID,
		ServiceID:     svc.ID,
		Status:        models.ReservationPending,
		PaymentStatus: models.ReservationUnpaid,
		EventDate:     eventDate,
		StartTime:     req.StartTime,
		EndTime:       req.EndTime,
		Location:      req.Location,
		Amount:        req.Amount,
		ServiceFee:    req.ServiceFee,
		TotalAmount:   req.Amount + req.ServiceFee,
	}

	if err := s.reservations.Create(ctx, res); err != nil {
		return nil, fmt.Errorf("failed to create reservation: %w", err)
	}

	s.notifier.Dispatch(ctx, &models.Notification{
		RecipientID:   res.ArtistID,
		RecipientType: models.OwnerArtist,
		SenderID:      &res.BookerID,
		SenderType:    ownerTypePtr(models.OwnerBooker),
		ReservationID: &res.ID,
		Type:          models.NotifNewReservation,
		Title:         "New reservation",
		Message:       fmt.Sprintf("You have a new reservation request for %s", svc.Title),
	})

	event := models.ReservationCreatedEvent{
		ReservationID: res.ID,
		BookerID:      res.BookerID,
		ArtistID:      res.ArtistID,
		ServiceID:     res.ServiceID,
		Timestamp:     time.Now(),
	}
	if err := s.publisher.Publish(models.EventReservationCreated, event); err != nil {
		logger.WithContext(ctx).Error("Failed to publish reservation created event",
			"error", err,
			"reservation_id", res.ID)
	}

	return res, nil
}

// actingParty determines whether the principal is a party to the reservation
// and in which role. Ownership is checked against the stored record, never
// against the identity fallback alone.
func (s *ReservationService) actingParty(p identity.Principal, res *models.Reservation) (models.Role, bool) {
	if id, err := s.resolver.Resolve(p, models.RoleBooker, 0); err == nil && id == res.BookerID {
		return models.RoleBooker, true
	}
	if id, err := s.resolver.Resolve(p, models.RoleArtist, 0); err == nil && id == res.ArtistID {
		return models.RoleArtist, true
	}
	return "", false
}

// Get returns one reservation to its booker or assigned artist.
func (s *ReservationService) Get(ctx context.Context, p identity.Principal, id int64) (*models.Reservation, error) {
	res, err := s.reservations.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get reservation: %w", err)
	}
	if res == nil {
		return nil, fmt.Errorf("reservation %d: %w", id, apperrors.ErrNotFound)
	}

	if _, ok := s.actingParty(p, res); !ok && p.Role != models.RoleAdmin {
		return nil, fmt.Errorf("not a party to reservation %d: %w", id, apperrors.ErrForbidden)
	}

	return res, nil
}

// List returns the acting identity's own reservations. The explicit id is a
// read-path fallback for stale tokens.
func (s *ReservationService) List(ctx context.Context, p identity.Principal, explicit int64) ([]models.Reservation, error) {
	if p.Role == models.RoleArtist {
		artistID, err := s.lenient.Resolve(p, models.RoleArtist, explicit)
		if err != nil {
			return nil, err
		}
		return s.reservations.ListByArtist(ctx, artistID)
	}

	bookerID, err := s.lenient.Resolve(p, models.RoleBooker, explicit)
	if err != nil {
		return nil, err
	}
	return s.reservations.ListByBooker(ctx, bookerID)
}

// UpdateStatus applies an actor-requested lifecycle transition.
func (s *ReservationService) UpdateStatus(ctx context.Context, p identity.Principal, id int64, status string) (*models.Reservation, error) {
	target := models.ReservationStatus(status)
	if !target.Valid() {
		return nil, fmt.Errorf("unknown status %q: %w", status, apperrors.ErrInvalidState)
	}

	res, err := s.reservations.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get reservation: %w", err)
	}
	if res == nil {
		return nil, fmt.Errorf("reservation %d: %w", id, apperrors.ErrNotFound)
	}

	role, ok := s.actingParty(p, res)
	if !ok {
		return nil, fmt.Errorf("not a party to reservation %d: %w", id, apperrors.ErrForbidden)
	}

	if !allowedTargets[role][target] {
		return nil, fmt.Errorf("%s may not set status %s: %w", role, target, apperrors.ErrForbidden)
	}

	if res.Status.Terminal() {
		return nil, fmt.Errorf("reservation is already %s: %w", res.Status, apperrors.ErrInvalidState)
	}
	if res.Status == target {
		return nil, fmt.Errorf("reservation is already %s: %w", target, apperrors.ErrInvalidState)
	}

	applied, err := s.reservations.Transition(ctx, id, res.Status, target)
	if err != nil {
		return nil, fmt.Errorf("failed to update status: %w", err)
	}
	if !applied {
		return nil, fmt.Errorf("reservation %d changed concurrently: %w", id, apperrors.ErrConflict)
	}

	metrics.ReservationTransitions.WithLabelValues(string(target), string(role)).Inc()

	previous := res.Status
	res.PreviousStatus = &previous
	res.Status = target

	s.notifyTransition(ctx, res, role, target)
	s.publishStatusChange(ctx, res.ID, previous, target, role)

	return res, nil
}

// notifyTransition sends exactly one notification to the counter-party of
// the actor.
func (s *ReservationService) notifyTransition(ctx context.Context, res *models.Reservation, actor models.Role, target models.ReservationStatus) {
	note, ok := transitionNotifications[target]
	if !ok {
		return
	}

	notif := &models.Notification{
		ReservationID: &res.ID,
		Type:          note.Type,
		Title:         note.Title,
		Message:       fmt.Sprintf("Reservation #%d is now %s", res.ID, target),
	}

	if actor == models.RoleBooker {
		notif.RecipientID = res.ArtistID
		notif.RecipientType = models.OwnerArtist
		notif.SenderID = &res.BookerID
		notif.SenderType = ownerTypePtr(models.OwnerBooker)
	} else {
		notif.RecipientID = res.BookerID
		notif.RecipientType = models.OwnerBooker
		notif.SenderID = &res.ArtistID
		notif.SenderType = ownerTypePtr(models.OwnerArtist)
	}

	s.notifier.Dispatch(ctx, notif)
}

func (s *ReservationService) publishStatusChange(ctx context.Context, id int64, previous, status models.ReservationStatus, actor models.Role) {
	event := models.ReservationStatusChangedEvent{
		ReservationID:  id,
		PreviousStatus: previous,
		Status:         status,
		ActorRole:      actor,
		Timestamp:      time.Now(),
	}
	if err := s.publisher.Publish(models.EventReservationStatusChanged, event); err != nil {
		logger.WithContext(ctx).Error("Failed to publish status changed event",
			"error", err,
			"reservation_id", id)
	}
}

// UpdatePaymentStatus lets the owning booker set the payment axis directly.
func (s *ReservationService) UpdatePaymentStatus(ctx context.Context, p identity.Principal, id int64, paymentStatus string) (*models.Reservation, error) {
	ps := models.ReservationPaymentStatus(paymentStatus)
	if !ps.Valid() {
		return nil, fmt.Errorf("unknown payment status %q: %w", paymentStatus, apperrors.ErrInvalidState)
	}

	res, err := s.reservations.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get reservation: %w", err)
	}
	if res == nil {
		return nil, fmt.Errorf("reservation %d: %w", id, apperrors.ErrNotFound)
	}

	role, ok := s.actingParty(p, res)
	if !ok || role != models.RoleBooker {
		return nil, fmt.Errorf("only the owning booker may set payment status: %w", apperrors.ErrForbidden)
	}

	if err := s.reservations.UpdatePaymentStatus(ctx, id, ps); err != nil {
		return nil, fmt.Errorf("failed to update payment status: %w", err)
	}

	res.PaymentStatus = ps
	return res, nil
}

// Delete hard-deletes a reservation for its owning booker or an admin.
func (s *ReservationService) Delete(ctx context.Context, p identity.Principal, id int64) error {
	res, err := s.reservations.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get reservation: %w", err)
	}
	if res == nil {
		return fmt.Errorf("reservation %d: %w", id, apperrors.ErrNotFound)
	}

	if p.Role != models.RoleAdmin {
		role, ok := s.actingParty(p, res)
		if !ok || role != models.RoleBooker {
			return fmt.Errorf("only the owning booker or an admin may delete: %w", apperrors.ErrForbidden)
		}
	}

	if err := s.reservations.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete reservation: %w", err)
	}

	event := models.ReservationDeletedEvent{
		ReservationID: id,
		ActorRole:     p.Role,
		Timestamp:     time.Now(),
	}
	if err := s.publisher.Publish(models.EventReservationDeleted, event); err != nil {
		logger.WithContext(ctx).Error("Failed to publish reservation deleted event",
			"error", err,
			"reservation_id", id)
	}

	return nil
}

func ownerTypePtr(t models.OwnerType) *models.OwnerType {
	return &t
}

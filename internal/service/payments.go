package service

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"gigbook/internal/apperrors"
	"gigbook/internal/gateway"
	"gigbook/internal/identity"
	"gigbook/internal/logger"
	"gigbook/internal/metrics"
	"gigbook/internal/models"
	"gigbook/internal/repository"
)

// paymentTitles maps the caller-specified action label to the notification
// title; the label also becomes the notification type suffix.
var paymentTitles = map[string]string{
	"created":   "Payment successful",
	"confirmed": "Payment confirmed",
	"refunded":  "Payment refunded",
	"failed":    "Payment failed",
}

type PaymentService struct {
	payments     PaymentStore
	reservations ReservationStore
	methods      PaymentMethodStore
	gateway      Gateway
	idempotency  IdempotencyStore
	notifier     *Notifier
	publisher    EventPublisher
	resolver     *identity.Resolver
	lenient      *identity.Resolver
}

func NewPaymentService(payments PaymentStore, reservations ReservationStore, methods PaymentMethodStore, gw Gateway, idempotency IdempotencyStore, notifier *Notifier, publisher EventPublisher) *PaymentService {
	return &PaymentService{
		payments:     payments,
		reservations: reservations,
		methods:      methods,
		gateway:      gw,
		idempotency:  idempotency,
		notifier:     notifier,
		publisher:    publisher,
		resolver:     identity.NewResolver(),
		lenient:      identity.NewLenientResolver(),
	}
}

// newReference generates a human-readable payment reference. Uniqueness is
// enforced by the payments.reference constraint; Create retries on
// collision.
func newReference() string {
	return fmt.Sprintf("PAY-%s-%05d", time.Now().Format("20060102"), rand.Intn(100000))
}

// Create records a payment for a reservation and settles it through the
// gateway. The total is always recomputed server-side.
func (s *PaymentService) Create(ctx context.Context, p identity.Principal, req *models.CreatePaymentRequest) (*models.Payment, error) {
	payerID, err := s.resolver.Resolve(p, models.RoleBooker, 0)
	if err != nil {
		return nil, err
	}

	if req.Amount <= 0 || req.ServiceFee < 0 {
		return nil, fmt.Errorf("amount must be positive: %w", apperrors.ErrValidation)
	}

	paymentType := models.PaymentType(req.PaymentType)
	if paymentType == "" {
		paymentType = models.PaymentFull
	}
	if !paymentType.Valid() {
		return nil, fmt.Errorf("unknown payment type %q: %w", req.PaymentType, apperrors.ErrValidation)
	}

	res, err := s.reservations.GetByID(ctx, req.ReservationID)
	if err != nil {
		return nil, fmt.Errorf("failed to get reservation: %w", err)
	}
	if res == nil {
		return nil, fmt.Errorf("reservation %d: %w", req.ReservationID, apperrors.ErrNotFound)
	}
	if res.BookerID != payerID {
		return nil, fmt.Errorf("payer is not the reservation's booker: %w", apperrors.ErrForbidden)
	}

	method := req.Method
	details := req.Details
	if req.PaymentMethodID != nil {
		m, err := s.methods.GetByID(ctx, *req.PaymentMethodID)
		if err != nil {
			return nil, fmt.Errorf("failed to get payment method: %w", err)
		}
		if m == nil {
			return nil, fmt.Errorf("payment method %d: %w", *req.PaymentMethodID, apperrors.ErrNotFound)
		}
		if m.OwnerID != payerID || m.OwnerType != models.OwnerBooker {
			return nil, fmt.Errorf("payment method belongs to another owner: %w", apperrors.ErrForbidden)
		}
		// Stored method wins over caller-supplied type/details
		method = m.Type
		details = &m.Details
	}

	payment := &models.Payment{
		ReservationID: res.ID,
		PayerID:       payerID,
		PayeeID:       res.ArtistID,
		Amount:        req.Amount,
		ServiceFee:    req.ServiceFee,
		TotalAmount:   req.Amount + req.ServiceFee,
		PaymentType:   paymentType,
		Status:        models.PaymentPending,
		Method:        method,
		Details:       details,
	}

	// Retry on a reference collision; the unique constraint is the source of
	// truth
	for attempt := 0; attempt < 3; attempt++ {
		payment.Reference = newReference()
		err = s.payments.Create(ctx, payment)
		if err == nil || !repository.IsUniqueViolation(err) {
			break
		}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create payment: %w", err)
	}

	event := models.PaymentCreatedEvent{
		PaymentID:     payment.ID,
		ReservationID: payment.ReservationID,
		Reference:     payment.Reference,
		TotalAmount:   payment.TotalAmount,
		Timestamp:     time.Now(),
	}
	if err := s.publisher.Publish(models.EventPaymentCreated, event); err != nil {
		logger.WithContext(ctx).Error("Failed to publish payment created event",
			"error", err,
			"payment_id", payment.ID)
	}

	result, err := s.gateway.Charge(ctx, gateway.ChargeRequest{
		Reference:   payment.Reference,
		Amount:      payment.TotalAmount,
		Currency:    "USD",
		Description: fmt.Sprintf("Reservation #%d", payment.ReservationID),
	})
	if err != nil {
		return nil, fmt.Errorf("gateway charge failed: %w", err)
	}

	if err := s.settle(ctx, payment, result.TransactionID, "created"); err != nil {
		return nil, err
	}

	return payment, nil
}

// settle moves a payment to completed and applies the reservation coupling:
// advance payments mark the reservation partial, everything else paid, and a
// pending reservation is auto-confirmed. The same path serves the in-process
// gateway and the webhook, and is a no-op for an already-completed payment.
func (s *PaymentService) settle(ctx context.Context, payment *models.Payment, transactionID, action string) error {
	applied, err := s.payments.MarkStatus(ctx, payment.ID, models.PaymentCompleted, &transactionID)
	if err != nil {
		return fmt.Errorf("failed to complete payment: %w", err)
	}
	if !applied {
		return nil
	}

	payment.Status = models.PaymentCompleted
	payment.TransactionID = &transactionID

	ps := models.ReservationPaid
	if payment.PaymentType == models.PaymentAdvance {
		ps = models.ReservationPartial
	}

	confirmed, err := s.reservations.SettlePayment(ctx, payment.ReservationID, ps)
	if err != nil {
		return fmt.Errorf("failed to settle reservation: %w", err)
	}

	metrics.PaymentsSettled.WithLabelValues(string(models.PaymentCompleted), string(payment.PaymentType)).Inc()

	if confirmed {
		s.publishStatusChange(ctx, payment.ReservationID)
	}

	s.notifyParties(ctx, payment, action)

	event := models.PaymentCompletedEvent{
		PaymentID:     payment.ID,
		ReservationID: payment.ReservationID,
		PaymentType:   payment.PaymentType,
		TransactionID: transactionID,
		Timestamp:     time.Now(),
	}
	if err := s.publisher.Publish(models.EventPaymentCompleted, event); err != nil {
		logger.WithContext(ctx).Error("Failed to publish payment completed event",
			"error", err,
			"payment_id", payment.ID)
	}

	return nil
}

func (s *PaymentService) publishStatusChange(ctx context.Context, reservationID int64) {
	event := models.ReservationStatusChangedEvent{
		ReservationID:  reservationID,
		PreviousStatus: models.ReservationPending,
		Status:         models.ReservationConfirmed,
		ActorRole:      models.RoleSystem,
		Timestamp:      time.Now(),
	}
	if err := s.publisher.Publish(models.EventReservationStatusChanged, event); err != nil {
		logger.WithContext(ctx).Error("Failed to publish status changed event",
			"error", err,
			"reservation_id", reservationID)
	}
}

// notifyParties sends one notification to the payer and one to the payee,
// typed by the action label.
func (s *PaymentService) notifyParties(ctx context.Context, payment *models.Payment, action string) {
	title, ok := paymentTitles[action]
	if !ok {
		title = "Payment update"
	}
	message := fmt.Sprintf("Payment %s for %d %s reservation #%d",
		payment.Reference, payment.TotalAmount, action, payment.ReservationID)

	s.notifier.Dispatch(ctx, &models.Notification{
		RecipientID:   payment.PayerID,
		RecipientType: models.OwnerBooker,
		ReservationID: &payment.ReservationID,
		Type:          models.PaymentNotification(action),
		Title:         title,
		Message:       message,
	})
	s.notifier.Dispatch(ctx, &models.Notification{
		RecipientID:   payment.PayeeID,
		RecipientType: models.OwnerArtist,
		SenderID:      &payment.PayerID,
		SenderType:    ownerTypePtr(models.OwnerBooker),
		ReservationID: &payment.ReservationID,
		Type:          models.PaymentNotification(action),
		Title:         title,
		Message:       message,
	})
}

// HandleWebhook processes an out-of-band settlement callback. Deliveries are
// deduplicated by a redis key per (payment, transaction, status); the
// payment-status guard in the store catches replays even when redis is
// unavailable.
func (s *PaymentService) HandleWebhook(ctx context.Context, paymentID int64, req *models.PaymentWebhookRequest) error {
	status := models.PaymentStatus(req.Status)
	if !status.Valid() {
		return fmt.Errorf("unknown payment status %q: %w", req.Status, apperrors.ErrInvalidState)
	}

	payment, err := s.payments.GetByID(ctx, paymentID)
	if err != nil {
		return fmt.Errorf("failed to get payment: %w", err)
	}
	if payment == nil {
		return fmt.Errorf("payment %d: %w", paymentID, apperrors.ErrNotFound)
	}

	if s.idempotency != nil {
		key := fmt.Sprintf("%d:%s:%s", paymentID, req.TransactionID, status)
		first, err := s.idempotency.FirstDelivery(ctx, key)
		if err != nil {
			logger.WithContext(ctx).Error("Idempotency store unavailable, relying on status guard",
				"error", err,
				"payment_id", paymentID)
		} else if !first {
			metrics.WebhookReplays.Inc()
			logger.WithContext(ctx).Info("Dropping duplicate webhook delivery",
				"payment_id", paymentID,
				"transaction_id", req.TransactionID)
			return nil
		}
	}

	switch status {
	case models.PaymentCompleted:
		return s.settle(ctx, payment, req.TransactionID, "confirmed")
	case models.PaymentFailed:
		return s.failPayment(ctx, payment, req.TransactionID, models.PaymentFailed,
			models.ReservationPayFailed, "failed")
	case models.PaymentRefunded:
		return s.failPayment(ctx, payment, req.TransactionID, models.PaymentRefunded,
			models.ReservationRefunded, "refunded")
	default:
		// pending/processing carry no side effects
		_, err := s.payments.MarkStatus(ctx, payment.ID, status, &req.TransactionID)
		if err != nil {
			return fmt.Errorf("failed to update payment status: %w", err)
		}
		return nil
	}
}

func (s *PaymentService) failPayment(ctx context.Context, payment *models.Payment, transactionID string, status models.PaymentStatus, rps models.ReservationPaymentStatus, action string) error {
	applied, err := s.payments.MarkStatus(ctx, payment.ID, status, &transactionID)
	if err != nil {
		return fmt.Errorf("failed to mark payment %s: %w", status, err)
	}
	if !applied {
		return nil
	}

	payment.Status = status

	if err := s.reservations.UpdatePaymentStatus(ctx, payment.ReservationID, rps); err != nil {
		return fmt.Errorf("failed to update reservation payment status: %w", err)
	}

	metrics.PaymentsSettled.WithLabelValues(string(status), string(payment.PaymentType)).Inc()

	s.notifyParties(ctx, payment, action)

	event := models.PaymentFailedEvent{
		PaymentID:     payment.ID,
		ReservationID: payment.ReservationID,
		Reason:        string(status),
		Timestamp:     time.Now(),
	}
	if err := s.publisher.Publish(models.EventPaymentFailed, event); err != nil {
		logger.WithContext(ctx).Error("Failed to publish payment failed event",
			"error", err,
			"payment_id", payment.ID)
	}

	return nil
}

// Get returns one payment to its payer or payee.
func (s *PaymentService) Get(ctx context.Context, p identity.Principal, id int64) (*models.Payment, error) {
	payment, err := s.payments.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get payment: %w", err)
	}
	if payment == nil {
		return nil, fmt.Errorf("payment %d: %w", id, apperrors.ErrNotFound)
	}

	if !s.isParty(p, payment) && p.Role != models.RoleAdmin {
		return nil, fmt.Errorf("not a party to payment %d: %w", id, apperrors.ErrForbidden)
	}

	return payment, nil
}

func (s *PaymentService) isParty(p identity.Principal, payment *models.Payment) bool {
	if id, err := s.resolver.Resolve(p, models.RoleBooker, 0); err == nil && id == payment.PayerID {
		return true
	}
	if id, err := s.resolver.Resolve(p, models.RoleArtist, 0); err == nil && id == payment.PayeeID {
		return true
	}
	return false
}

// List returns the acting identity's own payments.
func (s *PaymentService) List(ctx context.Context, p identity.Principal, explicit int64) ([]models.Payment, error) {
	if p.Role == models.RoleArtist {
		artistID, err := s.lenient.Resolve(p, models.RoleArtist, explicit)
		if err != nil {
			return nil, err
		}
		return s.payments.ListByPayee(ctx, artistID)
	}

	bookerID, err := s.lenient.Resolve(p, models.RoleBooker, explicit)
	if err != nil {
		return nil, err
	}
	return s.payments.ListByPayer(ctx, bookerID)
}

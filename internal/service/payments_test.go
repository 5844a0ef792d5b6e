package service

import (
	"context"
	"strings"
	"testing"

	"gigbook/internal/apperrors"
	"gigbook/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type paymentFixture struct {
	svc           *PaymentService
	payments      *fakePaymentStore
	reservations  *fakeReservationStore
	methods       *fakePaymentMethodStore
	notifications *fakeNotificationStore
	publisher     *fakePublisher
	idempotency   *fakeIdempotency
}

func newPaymentFixture() *paymentFixture {
	payments := newFakePaymentStore()
	reservations := newFakeReservationStore()
	methods := newFakePaymentMethodStore()
	notifications := newFakeNotificationStore()
	publisher := &fakePublisher{}
	idempotency := newFakeIdempotency()
	notifier := NewNotifier(notifications, publisher)

	return &paymentFixture{
		svc: NewPaymentService(payments, reservations, methods,
			&fakeGateway{txnID: "TXN-test"}, idempotency, notifier, publisher),
		payments:      payments,
		reservations:  reservations,
		methods:       methods,
		notifications: notifications,
		publisher:     publisher,
		idempotency:   idempotency,
	}
}

func (f *paymentFixture) seedReservation(t *testing.T, bookerID, artistID int64) *models.Reservation {
	t.Helper()
	res := &models.Reservation{
		BookerID:      bookerID,
		ArtistID:      artistID,
		ServiceID:     1,
		Status:        models.ReservationPending,
		PaymentStatus: models.ReservationUnpaid,
		Amount:        50000,
		ServiceFee:    5000,
		TotalAmount:   55000,
	}
	require.NoError(t, f.reservations.Create(context.Background(), res))
	return res
}

func TestCreatePaymentFullSettlement(t *testing.T) {
	f := newPaymentFixture()
	res := f.seedReservation(t, 3, 7)

	payment, err := f.svc.Create(context.Background(), bookerPrincipal(3), &models.CreatePaymentRequest{
		ReservationID: res.ID,
		Amount:        50000,
		ServiceFee:    5000,
		TotalAmount:   1, // ignored: always recomputed server-side
		Method:        "card",
	})
	require.NoError(t, err)

	assert.Equal(t, models.PaymentCompleted, payment.Status)
	assert.Equal(t, int64(55000), payment.TotalAmount)
	assert.Equal(t, models.PaymentFull, payment.PaymentType)
	require.NotNil(t, payment.TransactionID)
	assert.Equal(t, "TXN-test", *payment.TransactionID)
	assert.True(t, strings.HasPrefix(payment.Reference, "PAY-"))

	// Settlement marks the reservation paid and auto-confirms it
	settled, _ := f.reservations.GetByID(context.Background(), res.ID)
	assert.Equal(t, models.ReservationPaid, settled.PaymentStatus)
	assert.Equal(t, models.ReservationConfirmed, settled.Status)

	// Exactly one notification each for payer and payee
	payerNotifs, _ := f.notifications.ListByRecipient(context.Background(), 3, models.OwnerBooker)
	payeeNotifs, _ := f.notifications.ListByRecipient(context.Background(), 7, models.OwnerArtist)
	require.Len(t, payerNotifs, 1)
	require.Len(t, payeeNotifs, 1)
	assert.Equal(t, models.PaymentNotification("created"), payerNotifs[0].Type)

	// The auto-confirm is announced as a system-actor status change
	assert.Equal(t, 1, f.publisher.published(models.EventReservationStatusChanged))
	assert.Equal(t, 1, f.publisher.published(models.EventPaymentCreated))
	assert.Equal(t, 1, f.publisher.published(models.EventPaymentCompleted))
}

func TestCreatePaymentAdvanceMarksPartial(t *testing.T) {
	f := newPaymentFixture()
	res := f.seedReservation(t, 3, 7)

	_, err := f.svc.Create(context.Background(), bookerPrincipal(3), &models.CreatePaymentRequest{
		ReservationID: res.ID,
		Amount:        20000,
		PaymentType:   "advance",
		Method:        "card",
	})
	require.NoError(t, err)

	settled, _ := f.reservations.GetByID(context.Background(), res.ID)
	assert.Equal(t, models.ReservationPartial, settled.PaymentStatus)
	assert.Equal(t, models.ReservationConfirmed, settled.Status)
}

func TestCreatePaymentConfirmedReservationStaysConfirmed(t *testing.T) {
	f := newPaymentFixture()
	res := f.seedReservation(t, 3, 7)
	applied, err := f.reservations.Transition(context.Background(), res.ID, models.ReservationPending, models.ReservationConfirmed)
	require.NoError(t, err)
	require.True(t, applied)

	_, err = f.svc.Create(context.Background(), bookerPrincipal(3), &models.CreatePaymentRequest{
		ReservationID: res.ID,
		Amount:        55000,
		Method:        "card",
	})
	require.NoError(t, err)

	settled, _ := f.reservations.GetByID(context.Background(), res.ID)
	assert.Equal(t, models.ReservationConfirmed, settled.Status)
	// No system status-change event when there was no transition
	assert.Equal(t, 0, f.publisher.published(models.EventReservationStatusChanged))
}

func TestCreatePaymentValidation(t *testing.T) {
	f := newPaymentFixture()
	res := f.seedReservation(t, 3, 7)

	_, err := f.svc.Create(context.Background(), bookerPrincipal(3), &models.CreatePaymentRequest{
		ReservationID: res.ID,
		Amount:        0,
	})
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = f.svc.Create(context.Background(), bookerPrincipal(3), &models.CreatePaymentRequest{
		ReservationID: res.ID,
		Amount:        100,
		PaymentType:   "installment",
	})
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestCreatePaymentNotTheBooker(t *testing.T) {
	f := newPaymentFixture()
	res := f.seedReservation(t, 3, 7)

	_, err := f.svc.Create(context.Background(), bookerPrincipal(4), &models.CreatePaymentRequest{
		ReservationID: res.ID,
		Amount:        55000,
	})
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}

func TestCreatePaymentStoredMethod(t *testing.T) {
	f := newPaymentFixture()
	res := f.seedReservation(t, 3, 7)

	m := &models.PaymentMethod{OwnerID: 3, OwnerType: models.OwnerBooker, Type: "card", Details: "**** 4242"}
	require.NoError(t, f.methods.Create(context.Background(), m))

	payment, err := f.svc.Create(context.Background(), bookerPrincipal(3), &models.CreatePaymentRequest{
		ReservationID:   res.ID,
		Amount:          55000,
		Method:          "cash", // overridden by the stored method
		PaymentMethodID: &m.ID,
	})
	require.NoError(t, err)

	assert.Equal(t, "card", payment.Method)
	require.NotNil(t, payment.Details)
	assert.Equal(t, "**** 4242", *payment.Details)
}

func TestCreatePaymentForeignStoredMethod(t *testing.T) {
	f := newPaymentFixture()
	res := f.seedReservation(t, 3, 7)

	m := &models.PaymentMethod{OwnerID: 4, OwnerType: models.OwnerBooker, Type: "card"}
	require.NoError(t, f.methods.Create(context.Background(), m))

	_, err := f.svc.Create(context.Background(), bookerPrincipal(3), &models.CreatePaymentRequest{
		ReservationID:   res.ID,
		Amount:          55000,
		PaymentMethodID: &m.ID,
	})
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}

func webhookPayment(t *testing.T, f *paymentFixture, res *models.Reservation) *models.Payment {
	t.Helper()
	payment := &models.Payment{
		ReservationID: res.ID,
		PayerID:       res.BookerID,
		PayeeID:       res.ArtistID,
		Amount:        55000,
		TotalAmount:   55000,
		PaymentType:   models.PaymentFull,
		Status:        models.PaymentPending,
		Method:        "card",
		Reference:     "PAY-20260830-00001",
	}
	require.NoError(t, f.payments.Create(context.Background(), payment))
	return payment
}

func TestWebhookCompletes(t *testing.T) {
	f := newPaymentFixture()
	res := f.seedReservation(t, 3, 7)
	payment := webhookPayment(t, f, res)

	err := f.svc.HandleWebhook(context.Background(), payment.ID, &models.PaymentWebhookRequest{
		Status:        "completed",
		TransactionID: "TXN-hook",
	})
	require.NoError(t, err)

	stored, _ := f.payments.GetByID(context.Background(), payment.ID)
	assert.Equal(t, models.PaymentCompleted, stored.Status)

	settled, _ := f.reservations.GetByID(context.Background(), res.ID)
	assert.Equal(t, models.ReservationPaid, settled.PaymentStatus)
	assert.Equal(t, models.ReservationConfirmed, settled.Status)
}

func TestWebhookReplayIsDropped(t *testing.T) {
	f := newPaymentFixture()
	res := f.seedReservation(t, 3, 7)
	payment := webhookPayment(t, f, res)

	req := &models.PaymentWebhookRequest{Status: "completed", TransactionID: "TXN-hook"}
	require.NoError(t, f.svc.HandleWebhook(context.Background(), payment.ID, req))
	require.NoError(t, f.svc.HandleWebhook(context.Background(), payment.ID, req))
	require.NoError(t, f.svc.HandleWebhook(context.Background(), payment.ID, req))

	// Side effects applied exactly once
	payerNotifs, _ := f.notifications.ListByRecipient(context.Background(), 3, models.OwnerBooker)
	assert.Len(t, payerNotifs, 1)
	assert.Equal(t, 1, f.publisher.published(models.EventPaymentCompleted))
}

func TestWebhookReplayWithoutIdempotencyStore(t *testing.T) {
	f := newPaymentFixture()
	f.svc.idempotency = nil
	res := f.seedReservation(t, 3, 7)
	payment := webhookPayment(t, f, res)

	// The payment-status guard alone still makes replays no-ops
	req := &models.PaymentWebhookRequest{Status: "completed", TransactionID: "TXN-hook"}
	require.NoError(t, f.svc.HandleWebhook(context.Background(), payment.ID, req))
	require.NoError(t, f.svc.HandleWebhook(context.Background(), payment.ID, req))

	payerNotifs, _ := f.notifications.ListByRecipient(context.Background(), 3, models.OwnerBooker)
	assert.Len(t, payerNotifs, 1)
}

func TestWebhookFailed(t *testing.T) {
	f := newPaymentFixture()
	res := f.seedReservation(t, 3, 7)
	payment := webhookPayment(t, f, res)

	err := f.svc.HandleWebhook(context.Background(), payment.ID, &models.PaymentWebhookRequest{
		Status:        "failed",
		TransactionID: "TXN-hook",
	})
	require.NoError(t, err)

	stored, _ := f.payments.GetByID(context.Background(), payment.ID)
	assert.Equal(t, models.PaymentFailed, stored.Status)

	updated, _ := f.reservations.GetByID(context.Background(), res.ID)
	assert.Equal(t, models.ReservationPayFailed, updated.PaymentStatus)
	// Lifecycle status untouched by a failed payment
	assert.Equal(t, models.ReservationPending, updated.Status)

	assert.Equal(t, 1, f.publisher.published(models.EventPaymentFailed))
}

func TestWebhookRefunded(t *testing.T) {
	f := newPaymentFixture()
	res := f.seedReservation(t, 3, 7)
	payment := webhookPayment(t, f, res)

	err := f.svc.HandleWebhook(context.Background(), payment.ID, &models.PaymentWebhookRequest{
		Status:        "refunded",
		TransactionID: "TXN-hook",
	})
	require.NoError(t, err)

	updated, _ := f.reservations.GetByID(context.Background(), res.ID)
	assert.Equal(t, models.ReservationRefunded, updated.PaymentStatus)
}

func TestWebhookUnknownStatus(t *testing.T) {
	f := newPaymentFixture()
	res := f.seedReservation(t, 3, 7)
	payment := webhookPayment(t, f, res)

	err := f.svc.HandleWebhook(context.Background(), payment.ID, &models.PaymentWebhookRequest{
		Status:        "charged_back",
		TransactionID: "TXN-hook",
	})
	assert.ErrorIs(t, err, apperrors.ErrInvalidState)
}

func TestWebhookUnknownPayment(t *testing.T) {
	f := newPaymentFixture()

	err := f.svc.HandleWebhook(context.Background(), 999, &models.PaymentWebhookRequest{
		Status:        "completed",
		TransactionID: "TXN-hook",
	})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestGetPaymentAccess(t *testing.T) {
	f := newPaymentFixture()
	res := f.seedReservation(t, 3, 7)
	payment := webhookPayment(t, f, res)

	_, err := f.svc.Get(context.Background(), bookerPrincipal(3), payment.ID)
	assert.NoError(t, err)
	_, err = f.svc.Get(context.Background(), artistPrincipal(7), payment.ID)
	assert.NoError(t, err)

	_, err = f.svc.Get(context.Background(), bookerPrincipal(4), payment.ID)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}

func TestListPaymentsByRole(t *testing.T) {
	f := newPaymentFixture()
	res := f.seedReservation(t, 3, 7)
	webhookPayment(t, f, res)
	webhookPayment(t, f, res)

	asPayer, err := f.svc.List(context.Background(), bookerPrincipal(3), 0)
	require.NoError(t, err)
	assert.Len(t, asPayer, 2)

	asPayee, err := f.svc.List(context.Background(), artistPrincipal(7), 0)
	require.NoError(t, err)
	assert.Len(t, asPayee, 2)

	none, err := f.svc.List(context.Background(), bookerPrincipal(4), 0)
	require.NoError(t, err)
	assert.Len(t, none, 0)
}

package service

import (
	"context"
	"fmt"
	"sync"

	"gigbook/internal/apperrors"
	"gigbook/internal/gateway"
	"gigbook/internal/models"
)

// In-memory store fakes backing the service tests.

type fakeReservationStore struct {
	mu     sync.Mutex
	nextID int64
	items  map[int64]*models.Reservation
}

func newFakeReservationStore() *fakeReservationStore {
	return &fakeReservationStore{items: make(map[int64]*models.Reservation)}
}

func (f *fakeReservationStore) Create(_ context.Context, res *models.Reservation) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	res.ID = f.nextID
	clone := *res
	f.items[res.ID] = &clone
	return nil
}

func (f *fakeReservationStore) GetByID(_ context.Context, id int64) (*models.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	res, ok := f.items[id]
	if !ok {
		return nil, nil
	}
	clone := *res
	return &clone, nil
}

func (f *fakeReservationStore) ListByBooker(_ context.Context, bookerID int64) ([]models.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Reservation
	for _, res := range f.items {
		if res.BookerID == bookerID {
			out = append(out, *res)
		}
	}
	return out, nil
}

func (f *fakeReservationStore) ListByArtist(_ context.Context, artistID int64) ([]models.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Reservation
	for _, res := range f.items {
		if res.ArtistID == artistID {
			out = append(out, *res)
		}
	}
	return out, nil
}

func (f *fakeReservationStore) Transition(_ context.Context, id int64, from, to models.ReservationStatus) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	res, ok := f.items[id]
	if !ok || res.Status != from {
		return false, nil
	}
	res.Status = to
	return true, nil
}

func (f *fakeReservationStore) SettlePayment(_ context.Context, id int64, ps models.ReservationPaymentStatus) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	res, ok := f.items[id]
	if !ok {
		return false, fmt.Errorf("reservation %d not found", id)
	}
	res.PaymentStatus = ps
	if res.Status == models.ReservationPending {
		res.Status = models.ReservationConfirmed
		return true, nil
	}
	return false, nil
}

func (f *fakeReservationStore) UpdatePaymentStatus(_ context.Context, id int64, ps models.ReservationPaymentStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	res, ok := f.items[id]
	if !ok {
		return fmt.Errorf("reservation %d not found", id)
	}
	res.PaymentStatus = ps
	return nil
}

func (f *fakeReservationStore) Delete(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.items, id)
	return nil
}

type fakePaymentStore struct {
	mu     sync.Mutex
	nextID int64
	items  map[int64]*models.Payment
}

func newFakePaymentStore() *fakePaymentStore {
	return &fakePaymentStore{items: make(map[int64]*models.Payment)}
}

func (f *fakePaymentStore) Create(_ context.Context, p *models.Payment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	p.ID = f.nextID
	clone := *p
	f.items[p.ID] = &clone
	return nil
}

func (f *fakePaymentStore) GetByID(_ context.Context, id int64) (*models.Payment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.items[id]
	if !ok {
		return nil, nil
	}
	clone := *p
	return &clone, nil
}

func (f *fakePaymentStore) ListByPayer(_ context.Context, payerID int64) ([]models.Payment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Payment
	for _, p := range f.items {
		if p.PayerID == payerID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakePaymentStore) ListByPayee(_ context.Context, payeeID int64) ([]models.Payment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Payment
	for _, p := range f.items {
		if p.PayeeID == payeeID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakePaymentStore) MarkStatus(_ context.Context, id int64, status models.PaymentStatus, transactionID *string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.items[id]
	if !ok || p.Status == status {
		return false, nil
	}
	p.Status = status
	if transactionID != nil {
		p.TransactionID = transactionID
	}
	return true, nil
}

type fakePaymentMethodStore struct {
	mu     sync.Mutex
	nextID int64
	items  map[int64]*models.PaymentMethod
}

func newFakePaymentMethodStore() *fakePaymentMethodStore {
	return &fakePaymentMethodStore{items: make(map[int64]*models.PaymentMethod)}
}

func (f *fakePaymentMethodStore) owned(ownerID int64, ownerType models.OwnerType) []*models.PaymentMethod {
	var out []*models.PaymentMethod
	for _, m := range f.items {
		if m.OwnerID == ownerID && m.OwnerType == ownerType {
			out = append(out, m)
		}
	}
	return out
}

func (f *fakePaymentMethodStore) Create(_ context.Context, m *models.PaymentMethod) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	siblings := f.owned(m.OwnerID, m.OwnerType)
	if len(siblings) == 0 {
		m.IsDefault = true
	}
	if m.IsDefault {
		for _, s := range siblings {
			s.IsDefault = false
		}
	}
	f.nextID++
	m.ID = f.nextID
	clone := *m
	f.items[m.ID] = &clone
	return nil
}

func (f *fakePaymentMethodStore) GetByID(_ context.Context, id int64) (*models.PaymentMethod, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.items[id]
	if !ok {
		return nil, nil
	}
	clone := *m
	return &clone, nil
}

func (f *fakePaymentMethodStore) ListByOwner(_ context.Context, ownerID int64, ownerType models.OwnerType) ([]models.PaymentMethod, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.PaymentMethod
	for _, m := range f.owned(ownerID, ownerType) {
		out = append(out, *m)
	}
	return out, nil
}

func (f *fakePaymentMethodStore) Update(_ context.Context, m *models.PaymentMethod) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if m.IsDefault {
		for _, s := range f.owned(m.OwnerID, m.OwnerType) {
			s.IsDefault = false
		}
	}
	clone := *m
	f.items[m.ID] = &clone
	return nil
}

func (f *fakePaymentMethodStore) SetDefault(_ context.Context, id, ownerID int64, ownerType models.OwnerType) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.owned(ownerID, ownerType) {
		s.IsDefault = s.ID == id
	}
	return nil
}

func (f *fakePaymentMethodStore) Delete(_ context.Context, m *models.PaymentMethod) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	siblings := f.owned(m.OwnerID, m.OwnerType)
	if len(siblings) <= 1 {
		return fmt.Errorf("cannot delete the last payment method: %w", apperrors.ErrConflict)
	}
	delete(f.items, m.ID)
	if m.IsDefault {
		var earliest *models.PaymentMethod
		for _, s := range f.owned(m.OwnerID, m.OwnerType) {
			if earliest == nil || s.ID < earliest.ID {
				earliest = s
			}
		}
		if earliest != nil {
			earliest.IsDefault = true
		}
	}
	return nil
}

type fakeNotificationStore struct {
	mu     sync.Mutex
	nextID int64
	items  []*models.Notification
}

func newFakeNotificationStore() *fakeNotificationStore {
	return &fakeNotificationStore{}
}

func (f *fakeNotificationStore) Create(_ context.Context, n *models.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	n.ID = f.nextID
	clone := *n
	f.items = append(f.items, &clone)
	return nil
}

func (f *fakeNotificationStore) ListByRecipient(_ context.Context, recipientID int64, recipientType models.OwnerType) ([]models.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Notification
	for _, n := range f.items {
		if n.RecipientID == recipientID && n.RecipientType == recipientType {
			out = append(out, *n)
		}
	}
	return out, nil
}

func (f *fakeNotificationStore) MarkRead(_ context.Context, id, recipientID int64, recipientType models.OwnerType) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, n := range f.items {
		if n.ID == id && n.RecipientID == recipientID && n.RecipientType == recipientType {
			n.IsRead = true
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeNotificationStore) MarkAllRead(_ context.Context, recipientID int64, recipientType models.OwnerType) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var count int64
	for _, n := range f.items {
		if n.RecipientID == recipientID && n.RecipientType == recipientType && !n.IsRead {
			n.IsRead = true
			count++
		}
	}
	return count, nil
}

type fakeDirectory struct {
	services map[int64]*models.Service
}

func (f *fakeDirectory) GetActiveByID(_ context.Context, id int64) (*models.Service, error) {
	svc, ok := f.services[id]
	if !ok || !svc.Active {
		return nil, nil
	}
	clone := *svc
	return &clone, nil
}

type fakePublisher struct {
	mu       sync.Mutex
	subjects []string
}

func (f *fakePublisher) Publish(subject string, _ interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.subjects = append(f.subjects, subject)
	return nil
}

func (f *fakePublisher) published(subject string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	count := 0
	for _, s := range f.subjects {
		if s == subject {
			count++
		}
	}
	return count
}

type fakeGateway struct {
	txnID string
	err   error
}

func (f *fakeGateway) Charge(_ context.Context, _ gateway.ChargeRequest) (*gateway.ChargeResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &gateway.ChargeResult{TransactionID: f.txnID, Status: "completed"}, nil
}

type fakeIdempotency struct {
	mu   sync.Mutex
	seen map[string]bool
	err  error
}

func newFakeIdempotency() *fakeIdempotency {
	return &fakeIdempotency{seen: make(map[string]bool)}
}

func (f *fakeIdempotency) FirstDelivery(_ context.Context, key string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return false, f.err
	}
	if f.seen[key] {
		return false, nil
	}
	f.seen[key] = true
	return true, nil
}

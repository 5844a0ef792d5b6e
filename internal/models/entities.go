package models

import (
	"encoding/json"
	"time"
)

// Role identifies how an authenticated user acts in the marketplace.
type Role string

const (
	RoleBooker Role = "booker"
	RoleArtist Role = "artist"
	RoleAdmin  Role = "admin"

	// RoleSystem is the actor recorded for payment-driven transitions.
	RoleSystem Role = "system"
)

// OwnerType discriminates role-scoped ownership of payment methods and
// notification recipients.
type OwnerType string

const (
	OwnerBooker OwnerType = "booker"
	OwnerArtist OwnerType = "artist"
)

// ReservationStatus is the reservation lifecycle axis.
type ReservationStatus string

const (
	ReservationPending   ReservationStatus = "pending"
	ReservationConfirmed ReservationStatus = "confirmed"
	ReservationCompleted ReservationStatus = "completed"
	ReservationCancelled ReservationStatus = "cancelled"
)

// Valid reports whether s is a known reservation status.
func (s ReservationStatus) Valid() bool {
	switch s {
	case ReservationPending, ReservationConfirmed, ReservationCompleted, ReservationCancelled:
		return true
	}
	return false
}

// Terminal reports whether no further transitions are allowed from s.
func (s ReservationStatus) Terminal() bool {
	return s == ReservationCompleted || s == ReservationCancelled
}

// ReservationPaymentStatus is the reservation payment axis. It is independent
// from ReservationStatus but coupled to it by payment completion rules.
type ReservationPaymentStatus string

const (
	ReservationUnpaid    ReservationPaymentStatus = "pending"
	ReservationPaid      ReservationPaymentStatus = "paid"
	ReservationPayFailed ReservationPaymentStatus = "failed"
	ReservationRefunded  ReservationPaymentStatus = "refunded"
	ReservationPartial   ReservationPaymentStatus = "partial"
)

// Valid reports whether s is a known reservation payment status.
func (s ReservationPaymentStatus) Valid() bool {
	switch s {
	case ReservationUnpaid, ReservationPaid, ReservationPayFailed, ReservationRefunded, ReservationPartial:
		return true
	}
	return false
}

// PaymentStatus is the status of a payment record.
type PaymentStatus string

const (
	PaymentPending    PaymentStatus = "pending"
	PaymentProcessing PaymentStatus = "processing"
	PaymentCompleted  PaymentStatus = "completed"
	PaymentFailed     PaymentStatus = "failed"
	PaymentRefunded   PaymentStatus = "refunded"
)

// Valid reports whether s is a known payment status.
func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentPending, PaymentProcessing, PaymentCompleted, PaymentFailed, PaymentRefunded:
		return true
	}
	return false
}

// PaymentType distinguishes full settlement from advance/balance installments.
type PaymentType string

const (
	PaymentFull    PaymentType = "full"
	PaymentAdvance PaymentType = "advance"
	PaymentBalance PaymentType = "balance"
)

// Valid reports whether t is a known payment type.
func (t PaymentType) Valid() bool {
	switch t {
	case PaymentFull, PaymentAdvance, PaymentBalance:
		return true
	}
	return false
}

// NotificationType classifies notifications for client rendering.
type NotificationType string

const (
	NotifNewReservation       NotificationType = "new_reservation"
	NotifReservationConfirmed NotificationType = "reservation_confirmed"
	NotifReservationCompleted NotificationType = "reservation_completed"
	NotifReservationCancelled NotificationType = "reservation_cancelled"
)

// PaymentNotification builds the notification type for a payment action
// label such as "created", "confirmed", "refunded" or "failed".
func PaymentNotification(action string) NotificationType {
	return NotificationType("payment_" + action)
}

// User is the shared identity record. Role-scoped profile ids discriminate
// the booker/artist shape of the account.
type User struct {
	ID        int64     `json:"id" db:"id"`
	Email     string    `json:"email" db:"email"`
	Role      Role      `json:"role" db:"role"`
	BookerID  *int64    `json:"booker_id" db:"booker_id"`
	ArtistID  *int64    `json:"artist_id" db:"artist_id"`
	IsActive  bool      `json:"is_active" db:"is_active"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Service is an offering published by an artist.
type Service struct {
	ID          int64     `json:"id" db:"id"`
	ArtistID    int64     `json:"artist_id" db:"artist_id"`
	Title       string    `json:"title" db:"title"`
	Category    string    `json:"category" db:"category"`
	Price       int64     `json:"price" db:"price"`
	DurationMin int       `json:"duration_min" db:"duration_min"`
	Active      bool      `json:"active" db:"active"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// Reservation is a booking of one artist's service by one booker.
// Amounts are minor currency units.
type Reservation struct {
	ID             int64                    `json:"id" db:"id"`
	BookerID       int64                    `json:"booker_id" db:"booker_id"`
	ArtistID       int64                    `json:"artist_id" db:"artist_id"`
	ServiceID      int64                    `json:"service_id" db:"service_id"`
	Status         ReservationStatus        `json:"status" db:"status"`
	PaymentStatus  ReservationPaymentStatus `json:"payment_status" db:"payment_status"`
	PreviousStatus *ReservationStatus       `json:"previous_status,omitempty" db:"previous_status"`
	EventDate      time.Time                `json:"event_date" db:"event_date"`
	StartTime      string                   `json:"start_time" db:"start_time"`
	EndTime        string                   `json:"end_time" db:"end_time"`
	Location       string                   `json:"location" db:"location"`
	Amount         int64                    `json:"amount" db:"amount"`
	ServiceFee     int64                    `json:"service_fee" db:"service_fee"`
	TotalAmount    int64                    `json:"total_amount" db:"total_amount"`
	CreatedAt      time.Time                `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time                `json:"updated_at" db:"updated_at"`
}

// Payment settles (part of) a reservation's cost. TotalAmount is always
// computed server-side as Amount + ServiceFee.
type Payment struct {
	ID            int64         `json:"id" db:"id"`
	ReservationID int64         `json:"reservation_id" db:"reservation_id"`
	PayerID       int64         `json:"payer_id" db:"payer_id"`
	PayeeID       int64         `json:"payee_id" db:"payee_id"`
	Amount        int64         `json:"amount" db:"amount"`
	ServiceFee    int64         `json:"service_fee" db:"service_fee"`
	TotalAmount   int64         `json:"total_amount" db:"total_amount"`
	PaymentType   PaymentType   `json:"payment_type" db:"payment_type"`
	Status        PaymentStatus `json:"status" db:"status"`
	Method        string        `json:"method" db:"method"`
	Details       *string       `json:"details,omitempty" db:"details"`
	Reference     string        `json:"reference" db:"reference"`
	TransactionID *string       `json:"transaction_id,omitempty" db:"transaction_id"`
	CreatedAt     time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at" db:"updated_at"`
}

// PaymentMethod is a saved payment instrument owned by exactly one booker or
// artist. At most one method per (owner, owner type) is the default.
type PaymentMethod struct {
	ID        int64     `json:"id" db:"id"`
	OwnerID   int64     `json:"owner_id" db:"owner_id"`
	OwnerType OwnerType `json:"owner_type" db:"owner_type"`
	Type      string    `json:"type" db:"type"`
	Details   string    `json:"details" db:"details"`
	IsDefault bool      `json:"is_default" db:"is_default"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Notification is a recipient-addressed message produced by lifecycle and
// payment events. Creation is best-effort and never blocks the triggering
// operation.
type Notification struct {
	ID            int64            `json:"id" db:"id"`
	RecipientID   int64            `json:"recipient_id" db:"recipient_id"`
	RecipientType OwnerType        `json:"recipient_type" db:"recipient_type"`
	SenderID      *int64           `json:"sender_id,omitempty" db:"sender_id"`
	SenderType    *OwnerType       `json:"sender_type,omitempty" db:"sender_type"`
	ReservationID *int64           `json:"reservation_id,omitempty" db:"reservation_id"`
	Type          NotificationType `json:"type" db:"type"`
	Title         string           `json:"title" db:"title"`
	Message       string           `json:"message" db:"message"`
	Data          json.RawMessage  `json:"data,omitempty" db:"data"`
	IsRead        bool             `json:"is_read" db:"is_read"`
	CreatedAt     time.Time        `json:"created_at" db:"created_at"`
}

package models

// Response is the envelope every API endpoint returns.
type Response struct {
	Success    bool        `json:"success"`
	Data       interface{} `json:"data,omitempty"`
	Error      string      `json:"error,omitempty"`
	Count      *int        `json:"count,omitempty"`
	Pagination *Pagination `json:"pagination,omitempty"`
}

// Pagination describes list slicing for list endpoints.
type Pagination struct {
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
	Total    int `json:"total"`
}

// CreateReservationRequest - request body for POST /api/reservations
type CreateReservationRequest struct {
	ServiceID  int64  `json:"service_id" binding:"required"`
	EventDate  string `json:"event_date" binding:"required"` // YYYY-MM-DD
	StartTime  string `json:"start_time" binding:"required"`
	EndTime    string `json:"end_time" binding:"required"`
	Location   string `json:"location"`
	Amount     int64  `json:"amount" binding:"required"`
	ServiceFee int64  `json:"service_fee"`
	// BookerID is a last-resort identity fallback; ignored when the token
	// resolves an acting booker.
	BookerID int64 `json:"booker_id,omitempty"`
}

// UpdateReservationStatusRequest - request body for PATCH /api/reservations/:id/status
type UpdateReservationStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateReservationPaymentRequest - request body for PATCH /api/reservations/:id/payment
type UpdateReservationPaymentRequest struct {
	PaymentStatus string `json:"payment_status" binding:"required"`
}

// CreatePaymentRequest - request body for POST /api/payments.
// TotalAmount from the client is ignored; the server always recomputes it.
type CreatePaymentRequest struct {
	ReservationID   int64   `json:"reservation_id" binding:"required"`
	Amount          int64   `json:"amount" binding:"required"`
	ServiceFee      int64   `json:"service_fee"`
	TotalAmount     int64   `json:"total_amount,omitempty"`
	PaymentType     string  `json:"payment_type"`
	Method          string  `json:"method"`
	PaymentMethodID *int64  `json:"payment_method_id,omitempty"`
	Details         *string `json:"details,omitempty"`
	BookerID        int64   `json:"booker_id,omitempty"`
}

// PaymentWebhookRequest - request body for POST /api/payments/:id/webhook,
// the out-of-band settlement callback from the payment gateway.
type PaymentWebhookRequest struct {
	Status        string `json:"status" binding:"required"`
	TransactionID string `json:"transactionId" binding:"required"`
}

// CreatePaymentMethodRequest - request body for POST /api/payment-methods
type CreatePaymentMethodRequest struct {
	Type      string `json:"type" binding:"required"`
	Details   string `json:"details"`
	IsDefault bool   `json:"is_default"`
}

// UpdatePaymentMethodRequest - request body for PUT /api/payment-methods/:id
type UpdatePaymentMethodRequest struct {
	Type      *string `json:"type,omitempty"`
	Details   *string `json:"details,omitempty"`
	IsDefault *bool   `json:"is_default,omitempty"`
}

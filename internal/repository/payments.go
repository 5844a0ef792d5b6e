package repository

import (
	"context"
	"database/sql"
	"errors"

	"gigbook/internal/database"
	"gigbook/internal/models"

	"github.com/lib/pq"
)

// IsUniqueViolation reports whether err is a Postgres unique constraint
// violation, e.g. a payment reference collision.
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

type PaymentRepository struct {
	db *database.DB
}

func NewPaymentRepository(db *database.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

const paymentColumns = `id, reservation_id, payer_id, payee_id, amount, service_fee,
	       total_amount, payment_type, status, method, details, reference,
	       transaction_id, created_at, updated_at`

func scanPayment(row interface{ Scan(...interface{}) error }, p *models.Payment) error {
	return row.Scan(
		&p.ID,
		&p.ReservationID,
		&p.PayerID,
		&p.PayeeID,
		&p.Amount,
		&p.ServiceFee,
		&p.TotalAmount,
		&p.PaymentType,
		&p.Status,
		&p.Method,
		&p.Details,
		&p.Reference,
		&p.TransactionID,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
}

func (r *PaymentRepository) Create(ctx context.Context, p *models.Payment) error {
	query := `
		INSERT INTO payments (reservation_id, payer_id, payee_id, amount, service_fee,
		                      total_amount, payment_type, status, method, details, reference)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at, updated_at`

	return r.db.QueryRowContext(ctx, query,
		p.ReservationID,
		p.PayerID,
		p.PayeeID,
		p.Amount,
		p.ServiceFee,
		p.TotalAmount,
		p.PaymentType,
		p.Status,
		p.Method,
		p.Details,
		p.Reference,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
}

func (r *PaymentRepository) GetByID(ctx context.Context, id int64) (*models.Payment, error) {
	p := &models.Payment{}
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE id = $1`

	err := scanPayment(r.db.QueryRowContext(ctx, query, id), p)
	if err == sql.ErrNoRows {
		return nil, nil
	}

	return p, err
}

func (r *PaymentRepository) list(ctx context.Context, query string, arg interface{}) ([]models.Payment, error) {
	rows, err := r.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []models.Payment
	for rows.Next() {
		var p models.Payment
		if err := scanPayment(rows, &p); err != nil {
			return nil, err
		}
		payments = append(payments, p)
	}

	return payments, rows.Err()
}

func (r *PaymentRepository) ListByPayer(ctx context.Context, payerID int64) ([]models.Payment, error) {
	query := `SELECT ` + paymentColumns + `
		FROM payments WHERE payer_id = $1 ORDER BY created_at DESC`
	return r.list(ctx, query, payerID)
}

func (r *PaymentRepository) ListByPayee(ctx context.Context, payeeID int64) ([]models.Payment, error) {
	query := `SELECT ` + paymentColumns + `
		FROM payments WHERE payee_id = $1 ORDER BY created_at DESC`
	return r.list(ctx, query, payeeID)
}

// MarkStatus moves a payment to status, keeping any existing transaction id
// when none is supplied. The status guard makes repeated webhook deliveries
// for an already-transitioned payment a no-op; returns whether the write
// landed.
func (r *PaymentRepository) MarkStatus(ctx context.Context, id int64, status models.PaymentStatus, transactionID *string) (bool, error) {
	query := `
		UPDATE payments
		SET status = $1, transaction_id = COALESCE($2, transaction_id), updated_at = NOW()
		WHERE id = $3 AND status <> $1`

	result, err := r.db.ExecContext(ctx, query, status, transactionID, id)
	if err != nil {
		return false, err
	}

	affected, err := result.RowsAffected()
	return affected > 0, err
}

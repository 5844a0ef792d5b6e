package repository

import (
	"context"
	"database/sql"
	"fmt"

	"gigbook/internal/apperrors"
	"gigbook/internal/database"
	"gigbook/internal/models"
)

type ReservationRepository struct {
	db *database.DB
}

func NewReservationRepository(db *database.DB) *ReservationRepository {
	return &ReservationRepository{db: db}
}

const reservationColumns = `id, booker_id, artist_id, service_id, status, payment_status,
	       previous_status, event_date, start_time, end_time, location,
	       amount, service_fee, total_amount, created_at, updated_at`

func scanReservation(row interface{ Scan(...interface{}) error }, r *models.Reservation) error {
	return row.Scan(
		&r.ID,
		&r.BookerID,
		&r.ArtistID,
		&r.ServiceID,
		&r.Status,
		&r.PaymentStatus,
		&r.PreviousStatus,
		&r.EventDate,
		&r.StartTime,
		&r.EndTime,
		&r.Location,
		&r.Amount,
		&r.ServiceFee,
		&r.TotalAmount,
		&r.CreatedAt,
		&r.UpdatedAt,
	)
}

func (r *ReservationRepository) Create(ctx context.Context, res *models.Reservation) error {
	query := `
		INSERT INTO reservations (booker_id, artist_id, service_id, status, payment_status,
		                          event_date, start_time, end_time, location,
		                          amount, service_fee, total_amount)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id, created_at, updated_at`

	return r.db.QueryRowContext(ctx, query,
		res.BookerID,
		res.ArtistID,
		res.ServiceID,
		res.Status,
		res.PaymentStatus,
		res.EventDate,
		res.StartTime,
		res.EndTime,
		res.Location,
		res.Amount,
		res.ServiceFee,
		res.TotalAmount,
	).Scan(&res.ID, &res.CreatedAt, &res.UpdatedAt)
}

func (r *ReservationRepository) GetByID(ctx context.Context, id int64) (*models.Reservation, error) {
	res := &models.Reservation{}
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE id = $1`

	err := scanReservation(r.db.QueryRowContext(ctx, query, id), res)
	if err == sql.ErrNoRows {
		return nil, nil
	}

	return res, err
}

func (r *ReservationRepository) list(ctx context.Context, query string, arg interface{}) ([]models.Reservation, error) {
	rows, err := r.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reservations []models.Reservation
	for rows.Next() {
		var res models.Reservation
		if err := scanReservation(rows, &res); err != nil {
			return nil, err
		}
		reservations = append(reservations, res)
	}

	return reservations, rows.Err()
}

func (r *ReservationRepository) ListByBooker(ctx context.Context, bookerID int64) ([]models.Reservation, error) {
	query := `SELECT ` + reservationColumns + `
		FROM reservations WHERE booker_id = $1 ORDER BY created_at DESC`
	return r.list(ctx, query, bookerID)
}

func (r *ReservationRepository) ListByArtist(ctx context.Context, artistID int64) ([]models.Reservation, error) {
	query := `SELECT ` + reservationColumns + `
		FROM reservations WHERE artist_id = $1 ORDER BY created_at DESC`
	return r.list(ctx, query, artistID)
}

// Transition applies a compare-and-set status update: the write only lands if
// the reservation is still in from, so concurrent transitions cannot apply
// against a stale previous status. Returns false when the CAS lost.
func (r *ReservationRepository) Transition(ctx context.Context, id int64, from, to models.ReservationStatus) (bool, error) {
	query := `
		UPDATE reservations
		SET status = $1, previous_status = $2, updated_at = NOW()
		WHERE id = $3 AND status = $2`

	result, err := r.db.ExecContext(ctx, query, to, from, id)
	if err != nil {
		return false, err
	}

	affected, err := result.RowsAffected()
	return affected > 0, err
}

// SettlePayment atomically couples the payment axis to the lifecycle axis:
// payment_status is set, and a pending reservation is auto-confirmed in the
// same transaction. Returns whether the auto-confirm happened.
func (r *ReservationRepository) SettlePayment(ctx context.Context, id int64, ps models.ReservationPaymentStatus) (bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	var status models.ReservationStatus
	err = tx.QueryRowContext(ctx,
		`SELECT status FROM reservations WHERE id = $1 FOR UPDATE`, id).Scan(&status)
	if err == sql.ErrNoRows {
		return false, fmt.Errorf("reservation %d: %w", id, apperrors.ErrNotFound)
	}
	if err != nil {
		return false, err
	}

	confirmed := status == models.ReservationPending
	if confirmed {
		_, err = tx.ExecContext(ctx, `
			UPDATE reservations
			SET status = $1, previous_status = $2, payment_status = $3, updated_at = NOW()
			WHERE id = $4`,
			models.ReservationConfirmed, models.ReservationPending, ps, id)
	} else {
		_, err = tx.ExecContext(ctx, `
			UPDATE reservations SET payment_status = $1, updated_at = NOW() WHERE id = $2`,
			ps, id)
	}
	if err != nil {
		return false, err
	}

	return confirmed, tx.Commit()
}

// UpdatePaymentStatus sets the payment axis alone, for the booker-facing
// direct PATCH.
func (r *ReservationRepository) UpdatePaymentStatus(ctx context.Context, id int64, ps models.ReservationPaymentStatus) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE reservations SET payment_status = $1, updated_at = NOW() WHERE id = $2`,
		ps, id)
	return err
}

// Delete hard-deletes a reservation.
func (r *ReservationRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM reservations WHERE id = $1`, id)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("reservation %d: %w", id, apperrors.ErrNotFound)
	}

	return nil
}

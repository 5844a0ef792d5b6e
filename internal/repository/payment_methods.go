package repository

import (
	"context"
	"database/sql"
	"fmt"

	"gigbook/internal/apperrors"
	"gigbook/internal/database"
	"gigbook/internal/models"
)

type PaymentMethodRepository struct {
	db *database.DB
}

func NewPaymentMethodRepository(db *database.DB) *PaymentMethodRepository {
	return &PaymentMethodRepository{db: db}
}

const methodColumns = `id, owner_id, owner_type, type, details, is_default, created_at, updated_at`

func scanMethod(row interface{ Scan(...interface{}) error }, m *models.PaymentMethod) error {
	return row.Scan(
		&m.ID,
		&m.OwnerID,
		&m.OwnerType,
		&m.Type,
		&m.Details,
		&m.IsDefault,
		&m.CreatedAt,
		&m.UpdatedAt,
	)
}

func (r *PaymentMethodRepository) GetByID(ctx context.Context, id int64) (*models.PaymentMethod, error) {
	m := &models.PaymentMethod{}
	query := `SELECT ` + methodColumns + ` FROM payment_methods WHERE id = $1`

	err := scanMethod(r.db.QueryRowContext(ctx, query, id), m)
	if err == sql.ErrNoRows {
		return nil, nil
	}

	return m, err
}

func (r *PaymentMethodRepository) ListByOwner(ctx context.Context, ownerID int64, ownerType models.OwnerType) ([]models.PaymentMethod, error) {
	query := `SELECT ` + methodColumns + `
		FROM payment_methods
		WHERE owner_id = $1 AND owner_type = $2
		ORDER BY created_at ASC`

	rows, err := r.db.QueryContext(ctx, query, ownerID, ownerType)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var methods []models.PaymentMethod
	for rows.Next() {
		var m models.PaymentMethod
		if err := scanMethod(rows, &m); err != nil {
			return nil, err
		}
		methods = append(methods, m)
	}

	return methods, rows.Err()
}

// Create inserts a method, maintaining the single-default invariant in one
// transaction: an owner's first method is forced default, and inserting a new
// default clears the flag on all siblings first.
func (r *PaymentMethodRepository) Create(ctx context.Context, m *models.PaymentMethod) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var count int
	err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM payment_methods WHERE owner_id = $1 AND owner_type = $2`,
		m.OwnerID, m.OwnerType).Scan(&count)
	if err != nil {
		return err
	}

	if count == 0 {
		m.IsDefault = true
	}

	if m.IsDefault {
		_, err = tx.ExecContext(ctx,
			`UPDATE payment_methods SET is_default = FALSE, updated_at = NOW()
			 WHERE owner_id = $1 AND owner_type = $2 AND is_default`,
			m.OwnerID, m.OwnerType)
		if err != nil {
			return err
		}
	}

	err = tx.QueryRowContext(ctx, `
		INSERT INTO payment_methods (owner_id, owner_type, type, details, is_default)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`,
		m.OwnerID, m.OwnerType, m.Type, m.Details, m.IsDefault,
	).Scan(&m.ID, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return err
	}

	return tx.Commit()
}

// Update persists type/details changes and re-establishes the default
// invariant when the default flag changes.
func (r *PaymentMethodRepository) Update(ctx context.Context, m *models.PaymentMethod) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if m.IsDefault {
		_, err = tx.ExecContext(ctx,
			`UPDATE payment_methods SET is_default = FALSE, updated_at = NOW()
			 WHERE owner_id = $1 AND owner_type = $2 AND is_default AND id <> $3`,
			m.OwnerID, m.OwnerType, m.ID)
		if err != nil {
			return err
		}
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE payment_methods SET type = $1, details = $2, is_default = $3, updated_at = NOW()
		 WHERE id = $4`,
		m.Type, m.Details, m.IsDefault, m.ID)
	if err != nil {
		return err
	}

	if err := promoteDefault(ctx, tx, m.OwnerID, m.OwnerType); err != nil {
		return err
	}

	return tx.Commit()
}

// SetDefault marks one method as the owner's default, clearing all others in
// the same transaction.
func (r *PaymentMethodRepository) SetDefault(ctx context.Context, id, ownerID int64, ownerType models.OwnerType) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`UPDATE payment_methods SET is_default = FALSE, updated_at = NOW()
		 WHERE owner_id = $1 AND owner_type = $2 AND is_default`,
		ownerID, ownerType)
	if err != nil {
		return err
	}

	result, err := tx.ExecContext(ctx,
		`UPDATE payment_methods SET is_default = TRUE, updated_at = NOW() WHERE id = $1`,
		id)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("payment method %d: %w", id, apperrors.ErrNotFound)
	}

	return tx.Commit()
}

// Delete removes a method. Deleting the owner's only method is a conflict;
// deleting the default promotes the earliest-created survivor.
func (r *PaymentMethodRepository) Delete(ctx context.Context, m *models.PaymentMethod) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var count int
	err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM payment_methods WHERE owner_id = $1 AND owner_type = $2`,
		m.OwnerID, m.OwnerType).Scan(&count)
	if err != nil {
		return err
	}
	if count <= 1 {
		return fmt.Errorf("cannot delete the only payment method: %w", apperrors.ErrConflict)
	}

	_, err = tx.ExecContext(ctx, `DELETE FROM payment_methods WHERE id = $1`, m.ID)
	if err != nil {
		return err
	}

	if err := promoteDefault(ctx, tx, m.OwnerID, m.OwnerType); err != nil {
		return err
	}

	return tx.Commit()
}

// promoteDefault makes the earliest-created method the default when the
// owner has methods but no default left.
func promoteDefault(ctx context.Context, tx *sql.Tx, ownerID int64, ownerType models.OwnerType) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE payment_methods SET is_default = TRUE, updated_at = NOW()
		WHERE id = (
			SELECT id FROM payment_methods
			WHERE owner_id = $1 AND owner_type = $2
			ORDER BY created_at ASC, id ASC
			LIMIT 1
		)
		AND NOT EXISTS (
			SELECT 1 FROM payment_methods
			WHERE owner_id = $1 AND owner_type = $2 AND is_default
		)`,
		ownerID, ownerType)
	return err
}

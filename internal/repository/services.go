package repository

import (
	"context"
	"database/sql"

	"gigbook/internal/database"
	"gigbook/internal/models"
)

// ServiceRepository is the service directory read side: the core only needs
// the active flag and the owning artist.
type ServiceRepository struct {
	db *database.DB
}

func NewServiceRepository(db *database.DB) *ServiceRepository {
	return &ServiceRepository{db: db}
}

func (r *ServiceRepository) GetActiveByID(ctx context.Context, id int64) (*models.Service, error) {
	svc := &models.Service{}
	query := `
		SELECT id, artist_id, title, category, price, duration_min, active, created_at
		FROM services
		WHERE id = $1 AND active`

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&svc.ID,
		&svc.ArtistID,
		&svc.Title,
		&svc.Category,
		&svc.Price,
		&svc.DurationMin,
		&svc.Active,
		&svc.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	return svc, err
}

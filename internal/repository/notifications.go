package repository

import (
	"context"

	"gigbook/internal/database"
	"gigbook/internal/models"
)

type NotificationRepository struct {
	db *database.DB
}

func NewNotificationRepository(db *database.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) Create(ctx context.Context, n *models.Notification) error {
	query := `
		INSERT INTO notifications (recipient_id, recipient_type, sender_id, sender_type,
		                           reservation_id, type, title, message, data)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at`

	var data interface{}
	if len(n.Data) > 0 {
		data = []byte(n.Data)
	}

	return r.db.QueryRowContext(ctx, query,
		n.RecipientID,
		n.RecipientType,
		n.SenderID,
		n.SenderType,
		n.ReservationID,
		n.Type,
		n.Title,
		n.Message,
		data,
	).Scan(&n.ID, &n.CreatedAt)
}

func (r *NotificationRepository) ListByRecipient(ctx context.Context, recipientID int64, recipientType models.OwnerType) ([]models.Notification, error) {
	query := `
		SELECT id, recipient_id, recipient_type, sender_id, sender_type,
		       reservation_id, type, title, message, data, is_read, created_at
		FROM notifications
		WHERE recipient_id = $1 AND recipient_type = $2
		ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, recipientID, recipientType)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notifications []models.Notification
	for rows.Next() {
		var n models.Notification
		var data []byte
		err := rows.Scan(
			&n.ID,
			&n.RecipientID,
			&n.RecipientType,
			&n.SenderID,
			&n.SenderType,
			&n.ReservationID,
			&n.Type,
			&n.Title,
			&n.Message,
			&data,
			&n.IsRead,
			&n.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		n.Data = data
		notifications = append(notifications, n)
	}

	return notifications, rows.Err()
}

// MarkRead flags one notification as read, scoped to its recipient so a
// caller cannot touch someone else's notification. Returns whether a row
// matched.
func (r *NotificationRepository) MarkRead(ctx context.Context, id, recipientID int64, recipientType models.OwnerType) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		`UPDATE notifications SET is_read = TRUE
		 WHERE id = $1 AND recipient_id = $2 AND recipient_type = $3`,
		id, recipientID, recipientType)
	if err != nil {
		return false, err
	}

	affected, err := result.RowsAffected()
	return affected > 0, err
}

func (r *NotificationRepository) MarkAllRead(ctx context.Context, recipientID int64, recipientType models.OwnerType) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		`UPDATE notifications SET is_read = TRUE
		 WHERE recipient_id = $1 AND recipient_type = $2 AND NOT is_read`,
		recipientID, recipientType)
	if err != nil {
		return 0, err
	}

	return result.RowsAffected()
}

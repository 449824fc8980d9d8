package repository

import (
	"context"

	"github.com/unclebandit/ostrich-customer-api/internal/db"
)

type NotificationRepositoryInterface interface {
	Latest(ctx context.Context, customerID int64, limit int) ([]db.Row, error)
	UnreadCount(ctx context.Context, customerID int64) (int64, error)
	MarkRead(ctx context.Context, customerID, id int64) (bool, error)
}

type NotificationRepository struct {
	DB *db.Gateway
}

func (r *NotificationRepository) Latest(ctx context.Context, customerID int64, limit int) ([]db.Row, error) {
	return r.DB.FetchAll(ctx, `
		SELECT * FROM notifications
		WHERE customer_id = ?
		ORDER BY created_at DESC
		LIMIT ?`, customerID, limit)
}

func (r *NotificationRepository) UnreadCount(ctx context.Context, customerID int64) (int64, error) {
	row, err := r.DB.FetchOne(ctx,
		`SELECT COUNT(*) AS count FROM notifications WHERE customer_id = ? AND is_read = FALSE`, customerID)
	if err != nil {
		return 0, err
	}
	return row.Int64("count"), nil
}

// MarkRead reports whether the notification belongs to the customer. A
// notification that was already read still counts as found.
func (r *NotificationRepository) MarkRead(ctx context.Context, customerID, id int64) (bool, error) {
	n, err := r.DB.Exec(ctx,
		`UPDATE notifications SET is_read = TRUE WHERE id = ? AND customer_id = ?`, id, customerID)
	if err != nil {
		return false, err
	}
	if n > 0 {
		return true, nil
	}
	row, err := r.DB.FetchOne(ctx,
		`SELECT id FROM notifications WHERE id = ? AND customer_id = ?`, id, customerID)
	if err != nil {
		return false, err
	}
	return row != nil, nil
}

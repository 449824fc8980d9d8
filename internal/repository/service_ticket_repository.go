package repository

import (
	"context"

	"github.com/unclebandit/ostrich-customer-api/internal/db"
	"github.com/unclebandit/ostrich-customer-api/internal/model"
)

type ServiceTicketRepositoryInterface interface {
	ListForCustomer(ctx context.Context, customerID int64, status string, limit int) ([]db.Row, error)
	GetForCustomer(ctx context.Context, customerID, id int64) (db.Row, error)
	Create(ctx context.Context, req model.ServiceRequest) (int64, error)
	Counts(ctx context.Context, customerID int64) (active, completed int64, err error)
}

type ServiceTicketRepository struct {
	DB *db.Gateway
}

const customerTickets = `
	SELECT st.*, p.name AS product_name
	FROM service_tickets st
	LEFT JOIN products p ON st.product_id = p.id
	WHERE st.customer_id = ?`

// ListForCustomer returns the customer's tickets newest first. status matches
// case-insensitively when set; limit 0 means no limit.
func (r *ServiceTicketRepository) ListForCustomer(ctx context.Context, customerID int64, status string, limit int) ([]db.Row, error) {
	q := customerTickets
	args := []any{customerID}
	if status != "" {
		q += ` AND LOWER(st.status) = LOWER(?)`
		args = append(args, status)
	}
	q += ` ORDER BY st.created_at DESC`
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}
	return r.DB.FetchAll(ctx, q, args...)
}

func (r *ServiceTicketRepository) GetForCustomer(ctx context.Context, customerID, id int64) (db.Row, error) {
	return r.DB.FetchOne(ctx, customerTickets+` AND st.id = ?`, customerID, id)
}

func (r *ServiceTicketRepository) Create(ctx context.Context, req model.ServiceRequest) (int64, error) {
	return r.DB.Insert(ctx, `
		INSERT INTO service_tickets (customer_id, product_id, ticket_number, issue_description, priority)
		VALUES (?, ?, ?, ?, ?)`,
		req.CustomerID, req.ProductID, req.TicketNumber, req.IssueDescription, req.Priority)
}

// Counts returns tickets that are scheduled or in progress, and completed ones.
func (r *ServiceTicketRepository) Counts(ctx context.Context, customerID int64) (int64, int64, error) {
	row, err := r.DB.FetchOne(ctx, `
		SELECT
			SUM(CASE WHEN status IN ('SCHEDULED', 'IN_PROGRESS') THEN 1 ELSE 0 END) AS active,
			SUM(CASE WHEN status = 'COMPLETED' THEN 1 ELSE 0 END) AS completed
		FROM service_tickets
		WHERE customer_id = ?`, customerID)
	if err != nil {
		return 0, 0, err
	}
	return row.Int64("active"), row.Int64("completed"), nil
}

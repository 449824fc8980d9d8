package repository

import (
	"context"

	"github.com/unclebandit/ostrich-customer-api/internal/db"
	"github.com/unclebandit/ostrich-customer-api/internal/model"
)

type EnquiryRepositoryInterface interface {
	Create(ctx context.Context, e model.Enquiry) (int64, error)
	ListForCustomer(ctx context.Context, customerID int64) ([]db.Row, error)
}

type EnquiryRepository struct {
	DB *db.Gateway
}

func (r *EnquiryRepository) Create(ctx context.Context, e model.Enquiry) (int64, error) {
	var productID any
	if e.ProductID != nil {
		productID = *e.ProductID
	}
	return r.DB.Insert(ctx, `
		INSERT INTO enquiries (customer_id, enquiry_number, message, product_id)
		VALUES (?, ?, ?, ?)`,
		e.CustomerID, e.EnquiryNumber, e.Message, productID)
}

func (r *EnquiryRepository) ListForCustomer(ctx context.Context, customerID int64) ([]db.Row, error) {
	return r.DB.FetchAll(ctx, `
		SELECT e.*, p.name AS product_name
		FROM enquiries e
		LEFT JOIN products p ON e.product_id = p.id
		WHERE e.customer_id = ?
		ORDER BY e.created_at DESC`, customerID)
}

package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/unclebandit/ostrich-customer-api/internal/db"
)

type OrderRepositoryInterface interface {
	ListForCustomer(ctx context.Context, customerID int64) ([]db.Row, error)
	GetForCustomer(ctx context.Context, customerID, orderID int64) (db.Row, error)
	SalesHistory(ctx context.Context, customerID int64) ([]db.Row, error)
	Warranties(ctx context.Context, customerID int64) ([]db.Row, error)
}

// OrderRepository reads sales and their line items.
type OrderRepository struct {
	DB *db.Gateway
}

// ListForCustomer returns sales newest first. Each row carries `items` and
// `products`, the comma-joined item names (null when the sale has no items).
func (r *OrderRepository) ListForCustomer(ctx context.Context, customerID int64) ([]db.Row, error) {
	sales, err := r.DB.FetchAll(ctx,
		`SELECT s.* FROM sales s WHERE s.customer_id = ? ORDER BY s.sale_date DESC`, customerID)
	if err != nil {
		return nil, err
	}
	if err := r.attachItems(ctx, sales, itemName); err != nil {
		return nil, err
	}
	return sales, nil
}

func (r *OrderRepository) GetForCustomer(ctx context.Context, customerID, orderID int64) (db.Row, error) {
	sale, err := r.DB.FetchOne(ctx,
		`SELECT s.* FROM sales s WHERE s.id = ? AND s.customer_id = ?`, orderID, customerID)
	if err != nil || sale == nil {
		return nil, err
	}
	if err := r.attachItems(ctx, []db.Row{sale}, itemName); err != nil {
		return nil, err
	}
	return sale, nil
}

// SalesHistory is ListForCustomer with products rendered as "name (qty)".
func (r *OrderRepository) SalesHistory(ctx context.Context, customerID int64) ([]db.Row, error) {
	sales, err := r.DB.FetchAll(ctx,
		`SELECT s.* FROM sales s WHERE s.customer_id = ? ORDER BY s.sale_date DESC`, customerID)
	if err != nil {
		return nil, err
	}
	if err := r.attachItems(ctx, sales, itemNameWithQty); err != nil {
		return nil, err
	}
	for i, s := range sales {
		sales[i] = s.Without("items")
	}
	return sales, nil
}

// Warranties lists purchased items that carry a warranty, with status
// active or expired relative to today.
func (r *OrderRepository) Warranties(ctx context.Context, customerID int64) ([]db.Row, error) {
	return r.DB.FetchAll(ctx, `
		SELECT p.name AS product_name, si.serial_number, si.warranty_start_date, si.warranty_end_date,
			CASE WHEN si.warranty_end_date > CURRENT_DATE THEN 'active' ELSE 'expired' END AS status
		FROM sale_items si
		LEFT JOIN products p ON si.product_id = p.id
		JOIN sales s ON si.sale_id = s.id
		WHERE s.customer_id = ? AND si.warranty_start_date IS NOT NULL
		ORDER BY si.warranty_end_date DESC`, customerID)
}

func (r *OrderRepository) attachItems(ctx context.Context, sales []db.Row, label func(db.Row) string) error {
	if len(sales) == 0 {
		return nil
	}
	ids := make([]any, 0, len(sales))
	marks := make([]string, 0, len(sales))
	for _, s := range sales {
		ids = append(ids, s.Int64("id"))
		marks = append(marks, "?")
	}

	items, err := r.DB.FetchAll(ctx, fmt.Sprintf(`
		SELECT si.id, si.sale_id, si.product_id, si.quantity, si.serial_number,
			si.warranty_start_date, si.warranty_end_date, p.name AS product_name
		FROM sale_items si
		LEFT JOIN products p ON si.product_id = p.id
		WHERE si.sale_id IN (%s)
		ORDER BY si.id`, strings.Join(marks, ", ")), ids...)
	if err != nil {
		return err
	}

	bySale := map[int64][]db.Row{}
	for _, it := range items {
		saleID := it.Int64("sale_id")
		bySale[saleID] = append(bySale[saleID], it)
	}
	for _, s := range sales {
		own := bySale[s.Int64("id")]
		if own == nil {
			own = []db.Row{}
		}
		s["items"] = own
		s["products"] = joinLabels(own, label)
	}
	return nil
}

func joinLabels(items []db.Row, label func(db.Row) string) any {
	parts := []string{}
	for _, it := range items {
		if l := label(it); l != "" {
			parts = append(parts, l)
		}
	}
	if len(parts) == 0 {
		return nil
	}
	return strings.Join(parts, ",")
}

func itemName(it db.Row) string {
	return it.String("product_name")
}

func itemNameWithQty(it db.Row) string {
	if !it.Has("product_name") {
		return ""
	}
	return fmt.Sprintf("%s (%d)", it.String("product_name"), it.Int64("quantity"))
}

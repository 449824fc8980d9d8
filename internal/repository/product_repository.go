package repository

import (
	"context"

	"github.com/unclebandit/ostrich-customer-api/internal/db"
)

type ProductRepositoryInterface interface {
	ListOwned(ctx context.Context, customerID int64) ([]db.Row, error)
	GetOwned(ctx context.Context, customerID, productID int64) (db.Row, error)
	CountOwned(ctx context.Context, customerID int64) (int64, error)
	CountUnderWarranty(ctx context.Context, customerID int64) (int64, error)
	Catalog(ctx context.Context, category, search string) ([]db.Row, error)
	Trending(ctx context.Context, limit int) ([]db.Row, error)
	Related(ctx context.Context, customerID int64, limit int) ([]db.Row, error)
	Images(ctx context.Context, productID int64) ([]db.Row, error)
	Gallery(ctx context.Context) ([]db.Row, error)
	Categories(ctx context.Context) ([]db.Row, error)
	CountActive(ctx context.Context) (int64, error)
}

type ProductRepository struct {
	DB *db.Gateway
}

const ownedProducts = `
	SELECT p.*, si.serial_number, si.warranty_start_date, si.warranty_end_date
	FROM sale_items si
	JOIN sales s ON si.sale_id = s.id
	JOIN products p ON si.product_id = p.id
	WHERE s.customer_id = ?`

// ListOwned returns every product the customer bought, one row per sale item.
func (r *ProductRepository) ListOwned(ctx context.Context, customerID int64) ([]db.Row, error) {
	return r.DB.FetchAll(ctx, ownedProducts+` ORDER BY s.sale_date DESC, si.id`, customerID)
}

func (r *ProductRepository) GetOwned(ctx context.Context, customerID, productID int64) (db.Row, error) {
	return r.DB.FetchOne(ctx, ownedProducts+` AND p.id = ? ORDER BY s.sale_date DESC LIMIT 1`, customerID, productID)
}

func (r *ProductRepository) CountOwned(ctx context.Context, customerID int64) (int64, error) {
	row, err := r.DB.FetchOne(ctx, `
		SELECT COUNT(*) AS total
		FROM sale_items si
		JOIN sales s ON si.sale_id = s.id
		WHERE s.customer_id = ?`, customerID)
	if err != nil {
		return 0, err
	}
	return row.Int64("total"), nil
}

// CountUnderWarranty counts purchased items whose warranty has not ended.
func (r *ProductRepository) CountUnderWarranty(ctx context.Context, customerID int64) (int64, error) {
	row, err := r.DB.FetchOne(ctx, `
		SELECT COUNT(*) AS total
		FROM sale_items si
		JOIN sales s ON si.sale_id = s.id
		WHERE s.customer_id = ? AND si.warranty_end_date >= CURRENT_DATE`, customerID)
	if err != nil {
		return 0, err
	}
	return row.Int64("total"), nil
}

// Catalog lists active products, optionally narrowed by category name and a
// substring of name or description.
func (r *ProductRepository) Catalog(ctx context.Context, category, search string) ([]db.Row, error) {
	q := `SELECT p.*, pc.name AS category_name
		FROM products p
		LEFT JOIN product_categories pc ON p.category_id = pc.id
		WHERE p.is_active = TRUE`
	args := []any{}
	if category != "" {
		q += ` AND pc.name = ?`
		args = append(args, category)
	}
	if search != "" {
		q += ` AND (p.name LIKE ? OR p.description LIKE ?)`
		like := "%" + search + "%"
		args = append(args, like, like)
	}
	q += ` ORDER BY p.name`
	return r.DB.FetchAll(ctx, q, args...)
}

func (r *ProductRepository) Trending(ctx context.Context, limit int) ([]db.Row, error) {
	return r.DB.FetchAll(ctx, `
		SELECT p.*, pc.name AS category_name, COUNT(si.id) AS sales_count
		FROM products p
		LEFT JOIN product_categories pc ON p.category_id = pc.id
		LEFT JOIN sale_items si ON p.id = si.product_id
		WHERE p.is_active = TRUE
		GROUP BY p.id, pc.name
		ORDER BY sales_count DESC, p.created_at DESC
		LIMIT ?`, limit)
}

// Related suggests active products from categories the customer bought from
// that the customer does not own yet.
func (r *ProductRepository) Related(ctx context.Context, customerID int64, limit int) ([]db.Row, error) {
	return r.DB.FetchAll(ctx, `
		SELECT p.*, pc.name AS category_name
		FROM products p
		LEFT JOIN product_categories pc ON p.category_id = pc.id
		WHERE p.is_active = TRUE
		AND p.category_id IN (
			SELECT p2.category_id FROM products p2
			JOIN sale_items si ON p2.id = si.product_id
			JOIN sales s ON si.sale_id = s.id
			WHERE s.customer_id = ?
		)
		AND p.id NOT IN (
			SELECT si2.product_id FROM sale_items si2
			JOIN sales s2 ON si2.sale_id = s2.id
			WHERE s2.customer_id = ?
		)
		ORDER BY p.name
		LIMIT ?`, customerID, customerID, limit)
}

func (r *ProductRepository) Images(ctx context.Context, productID int64) ([]db.Row, error) {
	return r.DB.FetchAll(ctx, `
		SELECT * FROM product_images
		WHERE product_id = ? AND is_active = TRUE
		ORDER BY display_order`, productID)
}

func (r *ProductRepository) Gallery(ctx context.Context) ([]db.Row, error) {
	return r.DB.FetchAll(ctx, `
		SELECT pi.*, p.name AS product_name, pc.name AS category_name
		FROM product_images pi
		LEFT JOIN products p ON pi.product_id = p.id
		LEFT JOIN product_categories pc ON p.category_id = pc.id
		WHERE pi.is_active = TRUE AND pi.image_type = 'gallery'
		ORDER BY pi.display_order`)
}

func (r *ProductRepository) Categories(ctx context.Context) ([]db.Row, error) {
	return r.DB.FetchAll(ctx, `SELECT * FROM product_categories WHERE is_active = TRUE ORDER BY display_order`)
}

func (r *ProductRepository) CountActive(ctx context.Context) (int64, error) {
	row, err := r.DB.FetchOne(ctx, `SELECT COUNT(*) AS count FROM products WHERE is_active = TRUE`)
	if err != nil {
		return 0, err
	}
	return row.Int64("count"), nil
}

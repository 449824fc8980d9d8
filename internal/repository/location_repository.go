package repository

import (
	"context"

	"github.com/unclebandit/ostrich-customer-api/internal/db"
)

type LocationRepositoryInterface interface {
	ServiceCenters(ctx context.Context) ([]db.Row, error)
}

type LocationRepository struct {
	DB *db.Gateway
}

func (r *LocationRepository) ServiceCenters(ctx context.Context) ([]db.Row, error) {
	return r.DB.FetchAll(ctx, `SELECT * FROM service_centers WHERE is_active = TRUE ORDER BY name`)
}

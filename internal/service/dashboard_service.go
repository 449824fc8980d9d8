package service

import (
	"context"

	"github.com/unclebandit/ostrich-customer-api/internal/db"
	appErrors "github.com/unclebandit/ostrich-customer-api/internal/errors"
	"github.com/unclebandit/ostrich-customer-api/internal/repository"
)

const (
	recentServices      = 3
	latestNotifications = 3
)

type DashboardService struct {
	Customers     repository.CustomerRepositoryInterface
	Products      repository.ProductRepositoryInterface
	Services      repository.ServiceTicketRepositoryInterface
	Notifications repository.NotificationRepositoryInterface
}

type CustomerInfo struct {
	Name         any    `json:"name"`
	Phone        string `json:"phone"`
	CustomerID   int64  `json:"customer_id"`
	CustomerType string `json:"customer_type"`
	CompanyName  any    `json:"company_name"`
}

type DashboardStats struct {
	TotalProducts     int64 `json:"total_products"`
	ActiveServices    int64 `json:"active_services"`
	CompletedServices int64 `json:"completed_services"`
	WarrantyProducts  int64 `json:"warranty_products"`
}

type NotificationSummary struct {
	UnreadCount int64    `json:"unread_count"`
	Latest      []db.Row `json:"latest"`
}

type Dashboard struct {
	CustomerInfo   CustomerInfo        `json:"customer_info"`
	Stats          DashboardStats      `json:"stats"`
	RecentServices []db.Row            `json:"recent_services"`
	Notifications  NotificationSummary `json:"notifications"`
}

// Get assembles the dashboard from aggregate queries.
func (s *DashboardService) Get(ctx context.Context, customerID int64) (*Dashboard, error) {
	c, err := s.Customers.GetByID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, appErrors.NotFoundf("Customer not found")
	}

	d := &Dashboard{
		CustomerInfo: CustomerInfo{
			Name:         c.NameOrNil(),
			Phone:        c.Phone,
			CustomerID:   c.ID,
			CustomerType: c.CustomerType,
		},
	}
	if c.CompanyName != "" {
		d.CustomerInfo.CompanyName = c.CompanyName
	}

	if d.Stats.TotalProducts, err = s.Products.CountOwned(ctx, customerID); err != nil {
		return nil, err
	}
	if d.Stats.WarrantyProducts, err = s.Products.CountUnderWarranty(ctx, customerID); err != nil {
		return nil, err
	}
	if d.Stats.ActiveServices, d.Stats.CompletedServices, err = s.Services.Counts(ctx, customerID); err != nil {
		return nil, err
	}
	if d.RecentServices, err = s.Services.ListForCustomer(ctx, customerID, "", recentServices); err != nil {
		return nil, err
	}
	if d.Notifications.UnreadCount, err = s.Notifications.UnreadCount(ctx, customerID); err != nil {
		return nil, err
	}
	if d.Notifications.Latest, err = s.Notifications.Latest(ctx, customerID, latestNotifications); err != nil {
		return nil, err
	}
	return d, nil
}

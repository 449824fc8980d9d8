package service_test

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/unclebandit/ostrich-customer-api/internal/db"
	"github.com/unclebandit/ostrich-customer-api/internal/model"
	"github.com/unclebandit/ostrich-customer-api/internal/repository"
)

// MockCustomerRepo keeps customers in memory.
type MockCustomerRepo struct {
	mu          sync.Mutex
	byID        map[int64]*model.Customer
	resetTokens map[int64]time.Time
	nextID      int64
	Err         error
}

func NewMockCustomerRepo(seed ...*model.Customer) *MockCustomerRepo {
	m := &MockCustomerRepo{byID: map[int64]*model.Customer{}, resetTokens: map[int64]time.Time{}}
	for _, c := range seed {
		m.byID[c.ID] = c
		if c.ID > m.nextID {
			m.nextID = c.ID
		}
	}
	return m
}

func (m *MockCustomerRepo) find(match func(*model.Customer) bool) (*model.Customer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	for _, c := range m.byID {
		if match(c) {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *MockCustomerRepo) GetByID(_ context.Context, id int64) (*model.Customer, error) {
	return m.find(func(c *model.Customer) bool { return c.ID == id })
}

func (m *MockCustomerRepo) GetByPhone(_ context.Context, phone string) (*model.Customer, error) {
	return m.find(func(c *model.Customer) bool { return c.Phone == phone })
}

func (m *MockCustomerRepo) GetMobileByPhone(_ context.Context, phone string) (*model.Customer, error) {
	return m.find(func(c *model.Customer) bool { return c.Phone == phone && c.HasMobileAccess })
}

func (m *MockCustomerRepo) GetMobileByEmail(_ context.Context, email string) (*model.Customer, error) {
	return m.find(func(c *model.Customer) bool {
		return c.Email != "" && strings.EqualFold(c.Email, email) && c.HasMobileAccess
	})
}

func (m *MockCustomerRepo) Exists(ctx context.Context, id int64) (bool, error) {
	c, err := m.GetByID(ctx, id)
	return c != nil, err
}

func (m *MockCustomerRepo) NextCustomerCode(context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return fmt.Sprintf("CUST%03d", m.nextID+1), nil
}

func (m *MockCustomerRepo) Create(_ context.Context, nc model.NewCustomer) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return 0, m.Err
	}
	m.nextID++
	m.byID[m.nextID] = &model.Customer{
		ID:                 m.nextID,
		CustomerCode:       nc.CustomerCode,
		CustomerType:       nc.CustomerType,
		IndividualName:     nc.IndividualName,
		CompanyName:        nc.CompanyName,
		ContactPerson:      nc.ContactPerson,
		Email:              nc.Email,
		Phone:              nc.Phone,
		HasMobileAccess:    true,
		RegistrationSource: "mobile_app",
		PasswordHash:       nc.PasswordHash,
	}
	return m.nextID, nil
}

func (m *MockCustomerRepo) update(id int64, fn func(*model.Customer)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	if c, ok := m.byID[id]; ok {
		fn(c)
	}
	return nil
}

func (m *MockCustomerRepo) MarkVerified(_ context.Context, id int64, loginAt *time.Time) error {
	return m.update(id, func(c *model.Customer) {
		c.IsVerified = true
		if loginAt != nil {
			c.LastLogin = model.FormatTime(*loginAt)
		}
	})
}

func (m *MockCustomerRepo) TouchLastLogin(_ context.Context, id int64, at time.Time) error {
	return m.update(id, func(c *model.Customer) { c.LastLogin = model.FormatTime(at) })
}

func (m *MockCustomerRepo) UpdatePassword(_ context.Context, id int64, hash string) error {
	return m.update(id, func(c *model.Customer) { c.PasswordHash = hash })
}

func (m *MockCustomerRepo) UpdateProfile(_ context.Context, id int64, fields map[string]string) error {
	return m.update(id, func(c *model.Customer) {
		if v, ok := fields["individual_name"]; ok {
			c.IndividualName = v
		}
		if v, ok := fields["email"]; ok {
			c.Email = v
		}
	})
}

func (m *MockCustomerRepo) CreateResetToken(_ context.Context, id int64, _ string, expiresAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resetTokens[id] = expiresAt
	return nil
}

func (m *MockCustomerRepo) HasValidResetToken(_ context.Context, id int64, now time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	exp, ok := m.resetTokens[id]
	return ok && exp.After(now), nil
}

func (m *MockCustomerRepo) DeleteResetTokens(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.resetTokens, id)
	return nil
}

func (m *MockCustomerRepo) CountMobile(context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.byID)), nil
}

func (m *MockCustomerRepo) Get(id int64) *model.Customer {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.byID[id]
}

// Stub repositories for dashboard and request tests. Embedding the interface
// leaves methods a test does not care about unimplemented.
type MockProductRepo struct {
	repository.ProductRepositoryInterface
	Owned, Warranty int64
}

func (m *MockProductRepo) CountOwned(context.Context, int64) (int64, error) { return m.Owned, nil }
func (m *MockProductRepo) CountUnderWarranty(context.Context, int64) (int64, error) {
	return m.Warranty, nil
}

type MockTicketRepo struct {
	repository.ServiceTicketRepositoryInterface
	Active, Completed int64
	Recent            []db.Row
	Created           []model.ServiceRequest
	LastLimit         int
	Err               error
}

func (m *MockTicketRepo) Counts(context.Context, int64) (int64, int64, error) {
	return m.Active, m.Completed, m.Err
}

func (m *MockTicketRepo) ListForCustomer(_ context.Context, _ int64, _ string, limit int) ([]db.Row, error) {
	m.LastLimit = limit
	if m.Recent == nil {
		return []db.Row{}, m.Err
	}
	return m.Recent, m.Err
}

func (m *MockTicketRepo) Create(_ context.Context, req model.ServiceRequest) (int64, error) {
	if m.Err != nil {
		return 0, m.Err
	}
	m.Created = append(m.Created, req)
	return int64(len(m.Created)), nil
}

type MockNotificationRepo struct {
	repository.NotificationRepositoryInterface
	Unread int64
	Rows   []db.Row
}

func (m *MockNotificationRepo) UnreadCount(context.Context, int64) (int64, error) { return m.Unread, nil }
func (m *MockNotificationRepo) Latest(_ context.Context, _ int64, limit int) ([]db.Row, error) {
	if len(m.Rows) > limit {
		return m.Rows[:limit], nil
	}
	return m.Rows, nil
}

type MockEnquiryRepo struct {
	repository.EnquiryRepositoryInterface
	Created []model.Enquiry
}

func (m *MockEnquiryRepo) Create(_ context.Context, e model.Enquiry) (int64, error) {
	m.Created = append(m.Created, e)
	return int64(100 + len(m.Created)), nil
}

type publishedEvent struct {
	Type       string
	CustomerID int64
	Payload    any
}

type MockEvents struct {
	mu     sync.Mutex
	Events []publishedEvent
}

func (m *MockEvents) Publish(_ context.Context, eventType string, customerID int64, payload any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Events = append(m.Events, publishedEvent{eventType, customerID, payload})
}

package handler_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/unclebandit/ostrich-customer-api/internal/db"
	"github.com/unclebandit/ostrich-customer-api/internal/model"
	"github.com/unclebandit/ostrich-customer-api/internal/repository"
)

type fakeCustomers struct {
	mu     sync.Mutex
	byID   map[int64]*model.Customer
	nextID int64
}

func newFakeCustomers() *fakeCustomers {
	return &fakeCustomers{byID: map[int64]*model.Customer{}}
}

func (f *fakeCustomers) find(match func(*model.Customer) bool) (*model.Customer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.byID {
		if match(c) {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeCustomers) GetByID(_ context.Context, id int64) (*model.Customer, error) {
	return f.find(func(c *model.Customer) bool { return c.ID == id })
}

func (f *fakeCustomers) GetByPhone(_ context.Context, phone string) (*model.Customer, error) {
	return f.find(func(c *model.Customer) bool { return c.Phone == phone })
}

func (f *fakeCustomers) GetMobileByPhone(_ context.Context, phone string) (*model.Customer, error) {
	return f.find(func(c *model.Customer) bool { return c.Phone == phone && c.HasMobileAccess })
}

func (f *fakeCustomers) GetMobileByEmail(_ context.Context, email string) (*model.Customer, error) {
	return f.find(func(c *model.Customer) bool { return strings.EqualFold(c.Email, email) && c.HasMobileAccess })
}

func (f *fakeCustomers) Exists(ctx context.Context, id int64) (bool, error) {
	c, err := f.GetByID(ctx, id)
	return c != nil, err
}

func (f *fakeCustomers) NextCustomerCode(context.Context) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return fmt.Sprintf("CUST%03d", f.nextID+1), nil
}

func (f *fakeCustomers) Create(_ context.Context, nc model.NewCustomer) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	f.byID[f.nextID] = &model.Customer{
		ID:                 f.nextID,
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
	return f.nextID, nil
}

func (f *fakeCustomers) MarkVerified(context.Context, int64, *time.Time) error { return nil }
func (f *fakeCustomers) TouchLastLogin(context.Context, int64, time.Time) error { return nil }

func (f *fakeCustomers) UpdatePassword(_ context.Context, id int64, hash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if c, ok := f.byID[id]; ok {
		c.PasswordHash = hash
	}
	return nil
}

func (f *fakeCustomers) UpdateProfile(_ context.Context, id int64, fields map[string]string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if c, ok := f.byID[id]; ok {
		if v, ok := fields["city"]; ok {
			c.City = v
		}
	}
	return nil
}

func (f *fakeCustomers) CreateResetToken(context.Context, int64, string, time.Time) error { return nil }
func (f *fakeCustomers) HasValidResetToken(context.Context, int64, time.Time) (bool, error) {
	return false, nil
}
func (f *fakeCustomers) DeleteResetTokens(context.Context, int64) error { return nil }
func (f *fakeCustomers) CountMobile(context.Context) (int64, error)    { return int64(len(f.byID)), nil }

func (f *fakeCustomers) remove(id int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.byID, id)
}

type fakeProducts struct {
	repository.ProductRepositoryInterface
	mu         sync.Mutex
	trendLimit int
	err        error
}

func (f *fakeProducts) ListOwned(context.Context, int64) ([]db.Row, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []db.Row{}, nil
}

func (f *fakeProducts) GetOwned(context.Context, int64, int64) (db.Row, error) { return nil, f.err }

func (f *fakeProducts) Trending(_ context.Context, limit int) ([]db.Row, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.trendLimit = limit
	return []db.Row{}, nil
}

func (f *fakeProducts) lastTrendLimit() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.trendLimit
}

type notification struct {
	customerID int64
	read       bool
}

type fakeNotifications struct {
	repository.NotificationRepositoryInterface
	mu   sync.Mutex
	rows map[int64]*notification
}

func (f *fakeNotifications) MarkRead(_ context.Context, customerID, id int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n, ok := f.rows[id]
	if !ok || n.customerID != customerID {
		return false, nil
	}
	n.read = true
	return true, nil
}

func (f *fakeNotifications) UnreadCount(_ context.Context, customerID int64) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, row := range f.rows {
		if row.customerID == customerID && !row.read {
			n++
		}
	}
	return n, nil
}

type fakePreferences struct{}

func (fakePreferences) Get(context.Context, int64) (repository.Preferences, error) {
	return repository.Preferences{PushNotifications: true, SMSNotifications: false, EmailNotifications: true}, nil
}

type fakeRevoker struct {
	mu      sync.Mutex
	revoked map[string]bool
}

func (f *fakeRevoker) Revoke(_ context.Context, jti string, _ time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.revoked == nil {
		f.revoked = map[string]bool{}
	}
	f.revoked[jti] = true
	return nil
}

func (f *fakeRevoker) IsRevoked(_ context.Context, jti string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.revoked[jti], nil
}

type fakeMessages struct {
	mu   sync.Mutex
	sent []model.OutboundMessage
}

func (f *fakeMessages) Deliver(_ context.Context, msg model.OutboundMessage) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, msg)
	return nil
}

type downDB struct{}

func (downDB) Ping(context.Context) error { return errors.New("connection refused") }

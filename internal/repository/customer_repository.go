package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/unclebandit/ostrich-customer-api/internal/db"
	"github.com/unclebandit/ostrich-customer-api/internal/model"
)

// CustomerRepositoryInterface defines methods used by service
type CustomerRepositoryInterface interface {
	GetByID(ctx context.Context, id int64) (*model.Customer, error)
	GetByPhone(ctx context.Context, phone string) (*model.Customer, error)
	GetMobileByPhone(ctx context.Context, phone string) (*model.Customer, error)
	GetMobileByEmail(ctx context.Context, email string) (*model.Customer, error)
	Exists(ctx context.Context, id int64) (bool, error)
	NextCustomerCode(ctx context.Context) (string, error)
	Create(ctx context.Context, c model.NewCustomer) (int64, error)
	MarkVerified(ctx context.Context, id int64, loginAt *time.Time) error
	TouchLastLogin(ctx context.Context, id int64, at time.Time) error
	UpdatePassword(ctx context.Context, id int64, hash string) error
	UpdateProfile(ctx context.Context, id int64, fields map[string]string) error
	CreateResetToken(ctx context.Context, id int64, token string, expiresAt time.Time) error
	HasValidResetToken(ctx context.Context, id int64, now time.Time) (bool, error)
	DeleteResetTokens(ctx context.Context, id int64) error
	CountMobile(ctx context.Context) (int64, error)
}

// CustomerRepository is the concrete implementation
type CustomerRepository struct {
	DB *db.Gateway
}

func (r *CustomerRepository) GetByID(ctx context.Context, id int64) (*model.Customer, error) {
	row, err := r.DB.FetchOne(ctx, `SELECT * FROM customers WHERE id = ?`, id)
	if err != nil {
		return nil, err
	}
	return model.CustomerFromRow(row), nil
}

func (r *CustomerRepository) GetByPhone(ctx context.Context, phone string) (*model.Customer, error) {
	row, err := r.DB.FetchOne(ctx, `SELECT * FROM customers WHERE phone = ?`, phone)
	if err != nil {
		return nil, err
	}
	return model.CustomerFromRow(row), nil
}

// GetMobileByPhone only matches customers allowed to use the mobile app.
func (r *CustomerRepository) GetMobileByPhone(ctx context.Context, phone string) (*model.Customer, error) {
	row, err := r.DB.FetchOne(ctx,
		`SELECT * FROM customers WHERE phone = ? AND has_mobile_access = TRUE`, phone)
	if err != nil {
		return nil, err
	}
	return model.CustomerFromRow(row), nil
}

// GetMobileByEmail matches the email case-insensitively.
func (r *CustomerRepository) GetMobileByEmail(ctx context.Context, email string) (*model.Customer, error) {
	row, err := r.DB.FetchOne(ctx,
		`SELECT * FROM customers WHERE LOWER(email) = LOWER(?) AND has_mobile_access = TRUE`, email)
	if err != nil {
		return nil, err
	}
	return model.CustomerFromRow(row), nil
}

func (r *CustomerRepository) Exists(ctx context.Context, id int64) (bool, error) {
	row, err := r.DB.FetchOne(ctx, `SELECT id FROM customers WHERE id = ?`, id)
	if err != nil {
		return false, err
	}
	return row != nil, nil
}

// NextCustomerCode returns CUST followed by the highest numeric suffix plus
// one, zero-padded to three digits. Codes with a non-numeric suffix are
// ignored.
func (r *CustomerRepository) NextCustomerCode(ctx context.Context) (string, error) {
	row, err := r.DB.FetchOne(ctx, maxCustomerCode(r.DB.Dialect()))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("CUST%03d", row.Int64("max_code")+1), nil
}

func maxCustomerCode(d db.Dialect) string {
	if d == db.Postgres {
		return `SELECT COALESCE(MAX(CAST(SUBSTRING(customer_code, 5) AS BIGINT)), 0) AS max_code
			FROM customers WHERE customer_code ~ '^CUST[0-9]+$'`
	}
	return `SELECT COALESCE(MAX(CAST(SUBSTRING(customer_code, 5) AS UNSIGNED)), 0) AS max_code
		FROM customers WHERE customer_code REGEXP '^CUST[0-9]+$'`
}

func (r *CustomerRepository) Create(ctx context.Context, c model.NewCustomer) (int64, error) {
	now := time.Now()
	return r.DB.Insert(ctx, `
		INSERT INTO customers (
			customer_code, customer_type, individual_name, company_name, contact_person,
			email, phone, address, city, state, pin_code, has_mobile_access,
			is_verified, registration_source, password_hash, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, TRUE, FALSE, 'mobile_app', ?, ?, ?)`,
		c.CustomerCode, c.CustomerType, nullable(c.IndividualName), nullable(c.CompanyName), nullable(c.ContactPerson),
		nullable(c.Email), c.Phone, c.Address, c.City, c.State, c.PinCode,
		c.PasswordHash, now, now,
	)
}

// MarkVerified sets is_verified and, when loginAt is given, last_login.
func (r *CustomerRepository) MarkVerified(ctx context.Context, id int64, loginAt *time.Time) error {
	if loginAt != nil {
		_, err := r.DB.Exec(ctx, `UPDATE customers SET is_verified = TRUE, last_login = ? WHERE id = ?`, *loginAt, id)
		return err
	}
	_, err := r.DB.Exec(ctx, `UPDATE customers SET is_verified = TRUE WHERE id = ?`, id)
	return err
}

func (r *CustomerRepository) TouchLastLogin(ctx context.Context, id int64, at time.Time) error {
	_, err := r.DB.Exec(ctx, `UPDATE customers SET last_login = ? WHERE id = ?`, at, id)
	return err
}

func (r *CustomerRepository) UpdatePassword(ctx context.Context, id int64, hash string) error {
	_, err := r.DB.Exec(ctx, `UPDATE customers SET password_hash = ?, updated_at = ? WHERE id = ?`, hash, time.Now(), id)
	return err
}

// UpdateProfile writes only whitelisted profile columns; unknown keys are ignored.
func (r *CustomerRepository) UpdateProfile(ctx context.Context, id int64, fields map[string]string) error {
	sets := []string{}
	args := []any{}
	for _, col := range model.ProfileFields {
		if v, ok := fields[col]; ok {
			sets = append(sets, col+" = ?")
			args = append(args, v)
		}
	}
	if len(sets) == 0 {
		return nil
	}
	sets = append(sets, "updated_at = ?")
	args = append(args, time.Now(), id)
	_, err := r.DB.Exec(ctx, `UPDATE customers SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
	return err
}

func (r *CustomerRepository) CreateResetToken(ctx context.Context, id int64, token string, expiresAt time.Time) error {
	_, err := r.DB.Exec(ctx,
		`INSERT INTO password_reset_tokens (user_id, token, expires_at) VALUES (?, ?, ?)`, id, token, expiresAt)
	return err
}

func (r *CustomerRepository) HasValidResetToken(ctx context.Context, id int64, now time.Time) (bool, error) {
	row, err := r.DB.FetchOne(ctx,
		`SELECT token FROM password_reset_tokens WHERE user_id = ? AND expires_at > ? LIMIT 1`, id, now)
	if err != nil {
		return false, err
	}
	return row != nil, nil
}

func (r *CustomerRepository) DeleteResetTokens(ctx context.Context, id int64) error {
	_, err := r.DB.Exec(ctx, `DELETE FROM password_reset_tokens WHERE user_id = ?`, id)
	return err
}

func (r *CustomerRepository) CountMobile(ctx context.Context) (int64, error) {
	row, err := r.DB.FetchOne(ctx, `SELECT COUNT(*) AS count FROM customers WHERE has_mobile_access = TRUE`)
	if err != nil {
		return 0, err
	}
	return row.Int64("count"), nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// internal/model/customer.go
package model

import "github.com/unclebandit/ostrich-customer-api/internal/db"

type Customer struct {
	ID                 int64  `db:"id" json:"id"`
	CustomerCode       string `db:"customer_code" json:"customer_code"`
	CustomerType       string `db:"customer_type" json:"customer_type"`
	IndividualName     string `db:"individual_name" json:"individual_name"`
	CompanyName        string `db:"company_name" json:"company_name"`
	ContactPerson      string `db:"contact_person" json:"contact_person"`
	Email              string `db:"email" json:"email"`
	Phone              string `db:"phone" json:"phone"`
	Address            string `db:"address" json:"address"`
	City               string `db:"city" json:"city"`
	State              string `db:"state" json:"state"`
	PinCode            string `db:"pin_code" json:"pin_code"`
	HasMobileAccess    bool   `db:"has_mobile_access" json:"has_mobile_access"`
	IsVerified         bool   `db:"is_verified" json:"is_verified"`
	RegistrationSource string `db:"registration_source" json:"registration_source"`
	PasswordHash       string `db:"password_hash" json:"-"`
	LastLogin          string `db:"last_login" json:"last_login,omitempty"`
	CreatedAt          string `db:"created_at" json:"created_at,omitempty"`
	UpdatedAt          string `db:"updated_at" json:"updated_at,omitempty"`
}

// CustomerFromRow maps a customers row. A nil row yields nil.
func CustomerFromRow(r db.Row) *Customer {
	if r == nil {
		return nil
	}
	return &Customer{
		ID:                 r.Int64("id"),
		CustomerCode:       r.String("customer_code"),
		CustomerType:       r.String("customer_type"),
		IndividualName:     r.String("individual_name"),
		CompanyName:        r.String("company_name"),
		ContactPerson:      r.String("contact_person"),
		Email:              r.String("email"),
		Phone:              r.String("phone"),
		Address:            r.String("address"),
		City:               r.String("city"),
		State:              r.String("state"),
		PinCode:            r.String("pin_code"),
		HasMobileAccess:    r.Bool("has_mobile_access"),
		IsVerified:         r.Bool("is_verified"),
		RegistrationSource: r.String("registration_source"),
		PasswordHash:       r.String("password_hash"),
		LastLogin:          r.String("last_login"),
		CreatedAt:          r.String("created_at"),
		UpdatedAt:          r.String("updated_at"),
	}
}

// DisplayName prefers the individual name and falls back to the contact person.
func (c *Customer) DisplayName() string {
	if c.IndividualName != "" {
		return c.IndividualName
	}
	return c.ContactPerson
}

// NameOrNil is DisplayName as a JSON value, null when the customer has no name.
func (c *Customer) NameOrNil() any {
	if n := c.DisplayName(); n != "" {
		return n
	}
	return nil
}

// NewCustomer is the data captured by self-registration.
type NewCustomer struct {
	CustomerCode   string
	CustomerType   string
	IndividualName string
	CompanyName    string
	ContactPerson  string
	Email          string
	Phone          string
	Address        string
	City           string
	State          string
	PinCode        string
	PasswordHash   string
}

// ProfileFields lists the columns a customer may change on their own profile.
var ProfileFields = []string{
	"individual_name", "email", "address", "city", "state", "pin_code", "contact_person", "company_name",
}

package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/unclebandit/ostrich-customer-api/internal/auth"
	appErrors "github.com/unclebandit/ostrich-customer-api/internal/errors"
	"github.com/unclebandit/ostrich-customer-api/internal/kafka"
	"github.com/unclebandit/ostrich-customer-api/internal/model"
	"github.com/unclebandit/ostrich-customer-api/internal/repository"
)

// dummyHash keeps the unknown-user path doing the same bcrypt work as a
// wrong password.
const dummyHash = "$2a$10$7EqJtq98hPqEX7fNZaFWoOhi5BWX4Z3Zl1xJ7Q0YDu6nUuCkPvbTa"

// AuthService drives registration, verification and sign-in.
type AuthService struct {
	Customers  repository.CustomerRepositoryInterface
	Tokens     *auth.Tokens
	Codes      auth.CodeService
	Revoker    auth.Revoker
	Events     kafka.EventPublisher
	ResetTTL   time.Duration
	ExposeCode bool
	Log        *zap.Logger
	Now        func() time.Time
}

func (s *AuthService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *AuthService) logger() *zap.Logger {
	if s.Log == nil {
		return zap.NewNop()
	}
	return s.Log
}

func (s *AuthService) events() kafka.EventPublisher {
	if s.Events == nil {
		return kafka.NopPublisher{}
	}
	return s.Events
}

type RegisterInput struct {
	CustomerType   string `json:"customer_type"`
	IndividualName string `json:"individual_name"`
	Name           string `json:"name"`
	CompanyName    string `json:"company_name"`
	ContactPerson  string `json:"contact_person"`
	Phone          string `json:"phone"`
	Email          string `json:"email"`
	Password       string `json:"password"`
	Address        string `json:"address"`
	City           string `json:"city"`
	State          string `json:"state"`
	PinCode        string `json:"pin_code"`
}

type RegisterResult struct {
	CustomerID int64  `json:"customer_id"`
	Phone      string `json:"phone"`
	OTPSent    bool   `json:"otp_sent"`
	OTP        string `json:"otp,omitempty"`
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*RegisterResult, error) {
	name := strings.TrimSpace(in.IndividualName)
	if name == "" {
		name = strings.TrimSpace(in.Name)
	}
	company := strings.TrimSpace(in.CompanyName)
	phone := strings.TrimSpace(in.Phone)

	if name == "" && company == "" {
		return nil, appErrors.NewValidation("Name is required")
	}
	if phone == "" {
		return nil, appErrors.NewValidation("Phone is required")
	}
	if in.Password == "" {
		return nil, appErrors.NewValidation("Password is required")
	}

	existing, err := s.Customers.GetByPhone(ctx, phone)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, appErrors.NewValidation("Phone number already registered")
	}

	code, err := s.Customers.NextCustomerCode(ctx)
	if err != nil {
		return nil, err
	}
	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	customerType := strings.TrimSpace(in.CustomerType)
	if customerType == "" {
		customerType = "b2c"
	}
	contact := strings.TrimSpace(in.ContactPerson)
	if contact == "" {
		contact = name
	}

	id, err := s.Customers.Create(ctx, model.NewCustomer{
		CustomerCode:   code,
		CustomerType:   customerType,
		IndividualName: name,
		CompanyName:    company,
		ContactPerson:  contact,
		Email:          strings.TrimSpace(in.Email),
		Phone:          phone,
		Address:        in.Address,
		City:           in.City,
		State:          in.State,
		PinCode:        in.PinCode,
		PasswordHash:   hash,
	})
	if err != nil {
		return nil, err
	}

	res := &RegisterResult{CustomerID: id, Phone: phone}
	issued, err := s.Codes.Send(ctx, auth.PurposeRegistration, phone)
	if err != nil {
		s.logger().Warn("registration otp not sent", zap.Int64("customer_id", id), zap.Error(err))
	} else {
		res.OTPSent = true
		if s.ExposeCode {
			res.OTP = issued.Code
		}
	}

	s.events().Publish(ctx, kafka.EventCustomerRegistered, id, kafka.CustomerRegisteredPayload{
		CustomerID:   id,
		CustomerCode: code,
		CustomerType: customerType,
		Phone:        phone,
		Source:       "mobile_app",
	})
	return res, nil
}

type PhoneCheck struct {
	Exists       bool `json:"exists"`
	CustomerName any  `json:"customer_name"`
}

func (s *AuthService) CheckPhone(ctx context.Context, phone string) (*PhoneCheck, error) {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return nil, appErrors.NewValidation("Phone number is required")
	}
	c, err := s.Customers.GetByPhone(ctx, phone)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return &PhoneCheck{Exists: false}, nil
	}
	return &PhoneCheck{Exists: true, CustomerName: c.NameOrNil()}, nil
}

type OTPSent struct {
	PhoneNumber      string `json:"phone_number"`
	ExpiresInMinutes int    `json:"expires_in_minutes"`
	Reference        string `json:"reference"`
	OTP              string `json:"otp,omitempty"`
}

func (s *AuthService) SendLoginOTP(ctx context.Context, phone string) (*OTPSent, error) {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return nil, appErrors.NewValidation("Phone number is required")
	}
	c, err := s.Customers.GetByPhone(ctx, phone)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, appErrors.NotFoundf("Phone number not registered")
	}

	issued, err := s.Codes.Send(ctx, auth.PurposeLogin, phone)
	if err != nil {
		return nil, err
	}
	res := &OTPSent{
		PhoneNumber:      phone,
		ExpiresInMinutes: int(s.Codes.TTL().Minutes()),
		Reference:        issued.Reference,
	}
	if s.ExposeCode {
		res.OTP = issued.Code
	}
	return res, nil
}

type OTPLogin struct {
	AccessToken     string `json:"access_token"`
	TokenType       string `json:"token_type"`
	ExpiresAt       string `json:"expires_at"`
	CustomerID      int64  `json:"customer_id"`
	IsNewCustomer   bool   `json:"is_new_customer"`
	PhoneNumber     string `json:"phone_number"`
	ProfileComplete bool   `json:"profile_complete"`
}

// VerifyLoginOTP consumes a login code and signs the customer in.
func (s *AuthService) VerifyLoginOTP(ctx context.Context, phone, code string) (*OTPLogin, error) {
	phone = strings.TrimSpace(phone)
	if phone == "" || code == "" {
		return nil, appErrors.NewValidation("Phone and OTP are required")
	}
	ok, err := s.Codes.Verify(ctx, auth.PurposeLogin, phone, code)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, appErrors.ErrInvalidOTP
	}

	c, err := s.Customers.GetMobileByPhone(ctx, phone)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, appErrors.NotFoundf("Customer not found")
	}

	now := s.now()
	if err := s.Customers.MarkVerified(ctx, c.ID, &now); err != nil {
		return nil, err
	}
	return s.otpLogin(c, phone, c.RegistrationSource == "mobile_app")
}

// VerifyRegistration consumes a registration code and activates the account.
func (s *AuthService) VerifyRegistration(ctx context.Context, phone, code string) (*OTPLogin, error) {
	phone = strings.TrimSpace(phone)
	if phone == "" || code == "" {
		return nil, appErrors.NewValidation("Phone and OTP are required")
	}
	c, err := s.Customers.GetByPhone(ctx, phone)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, appErrors.ErrInvalidOTP
	}
	ok, err := s.Codes.Verify(ctx, auth.PurposeRegistration, phone, code)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, appErrors.ErrInvalidOTP
	}

	if err := s.Customers.MarkVerified(ctx, c.ID, nil); err != nil {
		return nil, err
	}
	return s.otpLogin(c, phone, true)
}

func (s *AuthService) otpLogin(c *model.Customer, phone string, isNew bool) (*OTPLogin, error) {
	token, exp, err := s.Tokens.Issue(c.ID, phone, "")
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &OTPLogin{
		AccessToken:     token,
		TokenType:       "Bearer",
		ExpiresAt:       model.FormatTime(exp),
		CustomerID:      c.ID,
		IsNewCustomer:   isNew,
		PhoneNumber:     phone,
		ProfileComplete: c.DisplayName() != "" || c.CompanyName != "",
	}, nil
}

type LoginResult struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresAt   string `json:"expires_at"`
	CustomerID  int64  `json:"customer_id"`
	Name        any    `json:"name"`
	Phone       string `json:"phone"`
	Email       any    `json:"email"`
}

// Login accepts a phone number or, when username contains '@', an email.
// Unknown users and wrong passwords fail identically.
func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, appErrors.NewValidation("Username and password are required")
	}

	var (
		c   *model.Customer
		err error
	)
	if strings.Contains(username, "@") {
		c, err = s.Customers.GetMobileByEmail(ctx, username)
	} else {
		c, err = s.Customers.GetMobileByPhone(ctx, username)
	}
	if err != nil {
		return nil, err
	}

	hash := dummyHash
	if c != nil {
		hash = c.PasswordHash
	}
	if !auth.CheckPassword(hash, password) || c == nil {
		return nil, appErrors.ErrInvalidCredentials
	}

	if auth.NeedsRehash(c.PasswordHash) {
		if upgraded, err := auth.HashPassword(password); err == nil {
			if err := s.Customers.UpdatePassword(ctx, c.ID, upgraded); err != nil {
				s.logger().Warn("password rehash failed", zap.Int64("customer_id", c.ID), zap.Error(err))
			}
		}
	}
	if err := s.Customers.TouchLastLogin(ctx, c.ID, s.now()); err != nil {
		return nil, err
	}

	token, exp, err := s.Tokens.Issue(c.ID, "", username)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	var email any
	if c.Email != "" {
		email = c.Email
	}
	return &LoginResult{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresAt:   model.FormatTime(exp),
		CustomerID:  c.ID,
		Name:        c.NameOrNil(),
		Phone:       c.Phone,
		Email:       email,
	}, nil
}

// Logout revokes the token when a revoker is configured.
func (s *AuthService) Logout(ctx context.Context, claims *auth.Claims) (string, error) {
	if s.Revoker != nil && claims != nil && claims.ExpiresAt != nil {
		if err := s.Revoker.Revoke(ctx, claims.ID, claims.ExpiresAt.Time); err != nil {
			return "", err
		}
	}
	return model.FormatTime(s.now()), nil
}

type ResetRequested struct {
	Phone     string `json:"phone"`
	ExpiresIn string `json:"expires_in"`
	OTP       string `json:"otp,omitempty"`
}

func (s *AuthService) ForgotPassword(ctx context.Context, phone string) (*ResetRequested, error) {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return nil, appErrors.NewValidation("Phone number is required")
	}
	c, err := s.Customers.GetByPhone(ctx, phone)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, appErrors.NotFoundf("Phone number not found")
	}

	ttl := s.resetTTL()
	if err := s.Customers.CreateResetToken(ctx, c.ID, "RST"+strings.ReplaceAll(uuid.NewString(), "-", ""), s.now().Add(ttl)); err != nil {
		return nil, err
	}
	issued, err := s.Codes.Send(ctx, auth.PurposePasswordReset, phone)
	if err != nil {
		if derr := s.Customers.DeleteResetTokens(ctx, c.ID); derr != nil {
			s.logger().Warn("reset tokens not cleared", zap.Int64("customer_id", c.ID), zap.Error(derr))
		}
		return nil, err
	}

	res := &ResetRequested{Phone: phone, ExpiresIn: humanDuration(ttl)}
	if s.ExposeCode {
		res.OTP = issued.Code
	}
	return res, nil
}

// ResetPassword needs a valid reset code and an unexpired reset token.
func (s *AuthService) ResetPassword(ctx context.Context, phone, code, newPassword string) (string, error) {
	phone = strings.TrimSpace(phone)
	if phone == "" || code == "" || newPassword == "" {
		return "", appErrors.NewValidation("Phone, OTP and new password are required")
	}
	c, err := s.Customers.GetByPhone(ctx, phone)
	if err != nil {
		return "", err
	}
	if c == nil {
		return "", appErrors.ErrInvalidOTP
	}
	ok, err := s.Codes.Verify(ctx, auth.PurposePasswordReset, phone, code)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", appErrors.ErrInvalidOTP
	}
	valid, err := s.Customers.HasValidResetToken(ctx, c.ID, s.now())
	if err != nil {
		return "", err
	}
	if !valid {
		return "", appErrors.ErrInvalidOTP
	}

	if err := s.setPassword(ctx, c.ID, newPassword); err != nil {
		return "", err
	}
	if err := s.Customers.DeleteResetTokens(ctx, c.ID); err != nil {
		s.logger().Warn("reset tokens not cleared", zap.Int64("customer_id", c.ID), zap.Error(err))
	}
	return model.FormatTime(s.now()), nil
}

func (s *AuthService) SetPassword(ctx context.Context, customerID int64, password string) (string, error) {
	if password == "" {
		return "", appErrors.NewValidation("Password is required")
	}
	if err := s.setPassword(ctx, customerID, password); err != nil {
		return "", err
	}
	return model.FormatTime(s.now()), nil
}

func (s *AuthService) ChangePassword(ctx context.Context, customerID int64, current, next string) (string, error) {
	if current == "" || next == "" {
		return "", appErrors.NewValidation("Current and new passwords are required")
	}
	c, err := s.Customers.GetByID(ctx, customerID)
	if err != nil {
		return "", err
	}
	if c == nil || !auth.CheckPassword(c.PasswordHash, current) {
		return "", appErrors.NewValidation("Current password is incorrect")
	}
	if err := s.setPassword(ctx, customerID, next); err != nil {
		return "", err
	}
	return model.FormatTime(s.now()), nil
}

func (s *AuthService) setPassword(ctx context.Context, customerID int64, password string) error {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return s.Customers.UpdatePassword(ctx, customerID, hash)
}

func (s *AuthService) resetTTL() time.Duration {
	if s.ResetTTL <= 0 {
		return time.Hour
	}
	return s.ResetTTL
}

func humanDuration(d time.Duration) string {
	switch {
	case d >= time.Hour && d%time.Hour == 0:
		return plural(int(d/time.Hour), "hour")
	case d >= time.Minute && d%time.Minute == 0:
		return plural(int(d/time.Minute), "minute")
	}
	return d.String()
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}

// internal/errors/errors.go
package appErrors

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidOTP         = errors.New("invalid otp")
	ErrUnavailable        = errors.New("dependency unavailable")
)

// ValidationError is a missing or malformed request field.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func NewValidation(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// NotFoundError is a referenced entity that does not exist for the caller.
// Message, when set, replaces the generated text.
type NotFoundError struct {
	Resource string
	ID       any
	Message  string
}

func (e *NotFoundError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.ID == nil {
		return fmt.Sprintf("%s not found", e.Resource)
	}
	return fmt.Sprintf("%s with ID %v not found", e.Resource, e.ID)
}

func NotFoundf(format string, args ...any) error {
	return &NotFoundError{Message: fmt.Sprintf(format, args...)}
}

// StoreError wraps a failed call to the relational store. Unavailable is set
// when the store could not be reached at all.
type StoreError struct {
	Op          string
	Unavailable bool
	Err         error
}

func (e *StoreError) Error() string {
	if e.Unavailable {
		return fmt.Sprintf("store unavailable during %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("store %s failed: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// IsUnavailable reports whether err is a StoreError for an unreachable store.
// It also matches ErrUnavailable raised by other backing services.
func IsUnavailable(err error) bool {
	if errors.Is(err, ErrUnavailable) {
		return true
	}
	var se *StoreError
	return errors.As(err, &se) && se.Unavailable
}

func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

package model

import (
	"strings"
	"time"
)

var ServicePriorities = []string{"LOW", "MEDIUM", "HIGH", "URGENT"}

// ServiceRequest opens a service ticket against one of the customer's products.
type ServiceRequest struct {
	CustomerID       int64
	ProductID        int64
	TicketNumber     string
	IssueDescription string
	Priority         string
}

// Enquiry is a free-text question from a customer, optionally about a product.
type Enquiry struct {
	CustomerID    int64
	EnquiryNumber string
	Subject       string
	Message       string
	ProductID     *int64
}

// NormalizePriority upper-cases p and defaults an empty value to MEDIUM.
// ok is false for values outside ServicePriorities.
func NormalizePriority(p string) (string, bool) {
	p = strings.ToUpper(strings.TrimSpace(p))
	if p == "" {
		return "MEDIUM", true
	}
	for _, v := range ServicePriorities {
		if v == p {
			return p, true
		}
	}
	return p, false
}

// TicketNumber builds a time-stamped reference such as SRV20240309140507.
func TicketNumber(prefix string, now time.Time) string {
	return prefix + now.Format("20060102150405")
}

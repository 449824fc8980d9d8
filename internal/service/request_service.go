package service

import (
	"context"
	"strings"
	"time"

	appErrors "github.com/unclebandit/ostrich-customer-api/internal/errors"
	"github.com/unclebandit/ostrich-customer-api/internal/kafka"
	"github.com/unclebandit/ostrich-customer-api/internal/model"
	"github.com/unclebandit/ostrich-customer-api/internal/repository"
)

// RequestService records customer-initiated service tickets and enquiries.
type RequestService struct {
	Tickets   repository.ServiceTicketRepositoryInterface
	Enquiries repository.EnquiryRepositoryInterface
	Events    kafka.EventPublisher
	Now       func() time.Time
}

func (s *RequestService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *RequestService) events() kafka.EventPublisher {
	if s.Events == nil {
		return kafka.NopPublisher{}
	}
	return s.Events
}

type ServiceRequestInput struct {
	ProductID        int64  `json:"product_id"`
	IssueDescription string `json:"issue_description"`
	Priority         string `json:"priority"`
}

type ServiceRequested struct {
	ServiceID    int64  `json:"service_id"`
	TicketNumber string `json:"ticket_number"`
	Status       string `json:"status"`
	Priority     string `json:"priority"`
}

func (s *RequestService) OpenTicket(ctx context.Context, customerID int64, in ServiceRequestInput) (*ServiceRequested, error) {
	issue := strings.TrimSpace(in.IssueDescription)
	if in.ProductID <= 0 || issue == "" {
		return nil, appErrors.NewValidation("Product ID and issue description are required")
	}
	priority, ok := model.NormalizePriority(in.Priority)
	if !ok {
		return nil, appErrors.NewValidation("Priority must be one of %s", strings.Join(model.ServicePriorities, ", "))
	}

	req := model.ServiceRequest{
		CustomerID:       customerID,
		ProductID:        in.ProductID,
		TicketNumber:     model.TicketNumber("SRV", s.now()),
		IssueDescription: issue,
		Priority:         priority,
	}
	id, err := s.Tickets.Create(ctx, req)
	if err != nil {
		return nil, err
	}

	s.events().Publish(ctx, kafka.EventServiceRequested, customerID, kafka.ServiceRequestedPayload{
		CustomerID:   customerID,
		ServiceID:    id,
		TicketNumber: req.TicketNumber,
		ProductID:    req.ProductID,
		Priority:     priority,
	})
	return &ServiceRequested{ServiceID: id, TicketNumber: req.TicketNumber, Status: "OPEN", Priority: priority}, nil
}

type EnquiryInput struct {
	Subject   string `json:"subject"`
	Message   string `json:"message"`
	ProductID *int64 `json:"product_id"`
}

type EnquiryCreated struct {
	EnquiryID             int64  `json:"enquiry_id"`
	EnquiryNumber         string `json:"enquiry_number"`
	Status                string `json:"status"`
	EstimatedResponseTime string `json:"estimated_response_time"`
}

func (s *RequestService) CreateEnquiry(ctx context.Context, customerID int64, in EnquiryInput) (*EnquiryCreated, error) {
	msg := strings.TrimSpace(in.Message)
	if msg == "" {
		return nil, appErrors.NewValidation("Message is required")
	}
	productID := in.ProductID
	if productID != nil && *productID <= 0 {
		productID = nil
	}

	e := model.Enquiry{
		CustomerID:    customerID,
		EnquiryNumber: model.TicketNumber("ENQ", s.now()),
		Subject:       strings.TrimSpace(in.Subject),
		Message:       msg,
		ProductID:     productID,
	}
	id, err := s.Enquiries.Create(ctx, e)
	if err != nil {
		return nil, err
	}

	s.events().Publish(ctx, kafka.EventEnquiryCreated, customerID, kafka.EnquiryCreatedPayload{
		CustomerID:    customerID,
		EnquiryID:     id,
		EnquiryNumber: e.EnquiryNumber,
		ProductID:     productID,
	})
	return &EnquiryCreated{
		EnquiryID:             id,
		EnquiryNumber:         e.EnquiryNumber,
		Status:                "open",
		EstimatedResponseTime: "24 hours",
	}, nil
}

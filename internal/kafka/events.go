package kafka

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const (
	EventCustomerRegistered = "customer.registered"
	EventServiceRequested   = "service.requested"
	EventEnquiryCreated     = "enquiry.created"
)

type Envelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	EventVersion  int             `json:"event_version"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Producer      string          `json:"producer"`
	TraceID       string          `json:"trace_id,omitempty"`
	CorrelationID string          `json:"correlation_id,omitempty"`
	Payload       json.RawMessage `json:"payload"`
}

type CustomerRegisteredPayload struct {
	CustomerID   int64  `json:"customer_id"`
	CustomerCode string `json:"customer_code"`
	CustomerType string `json:"customer_type"`
	Phone        string `json:"phone"`
	Source       string `json:"registration_source"`
}

type ServiceRequestedPayload struct {
	CustomerID   int64  `json:"customer_id"`
	ServiceID    int64  `json:"service_id"`
	TicketNumber string `json:"ticket_number"`
	ProductID    int64  `json:"product_id"`
	Priority     string `json:"priority"`
}

type EnquiryCreatedPayload struct {
	CustomerID    int64  `json:"customer_id"`
	EnquiryID     int64  `json:"enquiry_id"`
	EnquiryNumber string `json:"enquiry_number"`
	ProductID     *int64 `json:"product_id,omitempty"`
}

// EventPublisher emits domain events. Failures are logged by the
// implementation and never reach the caller.
type EventPublisher interface {
	Publish(ctx context.Context, eventType string, customerID int64, payload any)
}

type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, string, int64, any) {}

// EventProducer wraps payloads in an Envelope keyed by customer id.
type EventProducer struct {
	p       *Producer
	service string
	log     *zap.Logger
}

func NewEventProducer(p *Producer, service string, log *zap.Logger) *EventProducer {
	if log == nil {
		log = zap.NewNop()
	}
	return &EventProducer{p: p, service: service, log: log}
}

func (e *EventProducer) Publish(ctx context.Context, eventType string, customerID int64, payload any) {
	env, err := NewEnvelope(eventType, e.service, payload)
	if err != nil {
		e.log.Warn("encode event", zap.String("event_type", eventType), zap.Error(err))
		return
	}
	env.CorrelationID = strconv.FormatInt(customerID, 10)
	if id, ok := ctx.Value(traceKey{}).(string); ok {
		env.TraceID = id
	}
	b, err := json.Marshal(env)
	if err != nil {
		e.log.Warn("encode envelope", zap.String("event_type", eventType), zap.Error(err))
		return
	}
	e.p.Publish([]byte(env.CorrelationID), b, kafka.Header{Key: "event_type", Value: []byte(eventType)})
}

func NewEnvelope(eventType, producer string, payload any) (Envelope, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Envelope{}, err
	}
	return Envelope{
		EventID:      uuid.NewString(),
		EventType:    eventType,
		EventVersion: 1,
		OccurredAt:   time.Now().UTC(),
		Producer:     producer,
		Payload:      raw,
	}, nil
}

type traceKey struct{}

// WithTraceID attaches a trace id that published envelopes will carry.
func WithTraceID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, traceKey{}, id)
}

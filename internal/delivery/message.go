package delivery

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/unclebandit/ostrich-customer-api/internal/model"
	"github.com/unclebandit/ostrich-customer-api/internal/queue"
)

type Message = model.OutboundMessage

// Dispatcher publishes outbound messages for the delivery worker.
type Dispatcher struct {
	Queue queue.Queue
	Topic string
}

func NewDispatcher(q queue.Queue, topic string) *Dispatcher {
	return &Dispatcher{Queue: q, Topic: topic}
}

// Deliver fills in the id and timestamp when missing and enqueues the message.
func (d *Dispatcher) Deliver(ctx context.Context, msg Message) error {
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now()
	}
	return d.Queue.Publish(ctx, d.Topic, msg)
}

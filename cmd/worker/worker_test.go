package main

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/unclebandit/ostrich-customer-api/internal/delivery"
	"github.com/unclebandit/ostrich-customer-api/internal/model"
	"github.com/unclebandit/ostrich-customer-api/internal/queue"
)

// MockSender records messages and fails the first failFirst attempts.
type MockSender struct {
	mu        sync.Mutex
	sent      []delivery.Message
	attempts  int
	failFirst int
}

func (m *MockSender) Send(_ context.Context, msg delivery.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.attempts++
	if m.attempts <= m.failFirst {
		return errors.New("provider timeout")
	}
	m.sent = append(m.sent, msg)
	return nil
}

func TestConsumeDeliversQueuedMessages(t *testing.T) {
	q := queue.NewInMemoryQueue(nil)
	sender := &MockSender{failFirst: 1}

	worker, err := consume(q, "outbound_messages", sender, nil)
	if err != nil {
		t.Fatalf("consume: %v", err)
	}

	d := delivery.NewDispatcher(q, "outbound_messages")
	msg := delivery.Message{Channel: model.ChannelSMS, Phone: "9000000001", Body: "hi", Purpose: "otp_login"}
	if err := d.Deliver(context.Background(), msg); err != nil {
		t.Fatalf("deliver: %v", err)
	}
	if err := q.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	if len(sender.sent) != 1 {
		t.Fatalf("expected 1 message sent, got %d", len(sender.sent))
	}
	if sender.sent[0].ID == "" {
		t.Errorf("expected dispatcher to assign an id")
	}
	delivered, failed := worker.Stats()
	if delivered != 1 || failed != 1 {
		t.Errorf("expected 1 delivered and 1 failed attempt, got %d/%d", delivered, failed)
	}
}

package delivery

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/unclebandit/ostrich-customer-api/internal/model"
	"github.com/unclebandit/ostrich-customer-api/internal/queue"
)

// MockSender records messages and fails for configured phones
type MockSender struct {
	mu     sync.Mutex
	sent   []Message
	failOn string
}

func (m *MockSender) Send(_ context.Context, msg Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if msg.Phone == m.failOn {
		return errors.New("provider rejected")
	}
	m.sent = append(m.sent, msg)
	return nil
}

func TestWorker(t *testing.T) {
	sender := &MockSender{failOn: "9999999999"}
	w := NewWorker(sender, zap.NewNop())

	for _, msg := range []Message{
		{ID: "1", Channel: model.ChannelSMS, Phone: "9000000001", Body: "hi"},
		{ID: "2", Channel: model.ChannelSMS, Phone: "9999999999", Body: "hi"},
	} {
		body, err := json.Marshal(msg)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		err = w.Handle(context.Background(), body)
		if msg.ID == "2" && err == nil {
			t.Errorf("expected a send failure to be returned for retry")
		}
	}

	delivered, failed := w.Stats()
	if delivered != 1 || failed != 1 {
		t.Errorf("expected 1 delivered and 1 failed, got %d and %d", delivered, failed)
	}
	if len(sender.sent) != 1 || sender.sent[0].ID != "1" {
		t.Errorf("expected message 1 to be sent, got %+v", sender.sent)
	}
}

func TestWorkerHandleDropsGarbage(t *testing.T) {
	w := NewWorker(&MockSender{}, nil)

	if err := w.Handle(context.Background(), []byte("{not json")); err != nil {
		t.Errorf("garbage should not be retried, got %v", err)
	}
	if _, failed := w.Stats(); failed != 1 {
		t.Errorf("expected failed=1, got %d", failed)
	}
}

func TestDispatcherThroughInMemoryQueue(t *testing.T) {
	q := queue.NewInMemoryQueue(nil)
	sender := &MockSender{}
	w := NewWorker(sender, nil)
	_ = q.Subscribe("outbound_messages", w.Handle)

	d := NewDispatcher(q, "outbound_messages")
	err := d.Deliver(context.Background(), Message{Channel: model.ChannelWhatsApp, Phone: "9000000001", Body: "hello"})
	if err != nil {
		t.Fatalf("deliver: %v", err)
	}
	_ = q.Close()

	if len(sender.sent) != 1 {
		t.Fatalf("expected one message sent, got %d", len(sender.sent))
	}
	got := sender.sent[0]
	if got.ID == "" || got.CreatedAt.IsZero() {
		t.Errorf("dispatcher should stamp id and time, got %+v", got)
	}
	if got.Channel != model.ChannelWhatsApp {
		t.Errorf("expected whatsapp channel, got %s", got.Channel)
	}
}

func TestLogSenderRejectsUnknownChannel(t *testing.T) {
	s := LogSender{Log: zap.NewNop()}
	if err := s.Send(context.Background(), Message{Channel: "pigeon", Phone: "9000000001"}); err == nil {
		t.Error("expected error for unknown channel")
	}
	if err := s.Send(context.Background(), Message{Channel: model.ChannelSMS, Phone: "9000000001", CreatedAt: time.Now()}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

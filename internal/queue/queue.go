package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

const DefaultMaxRetries = 3

// Handler processes one message body. A non-nil error asks for a retry.
type Handler func(ctx context.Context, body []byte) error

// Queue interface
type Queue interface {
	Publish(ctx context.Context, topic string, payload any) error
	Subscribe(topic string, handler Handler) error
	Close() error
}

// InMemoryQueue delivers to in-process subscribers with retry and linear backoff.
type InMemoryQueue struct {
	mu         sync.Mutex
	handlers   map[string][]Handler
	log        *zap.Logger
	maxRetries int
	backoff    time.Duration
	wg         sync.WaitGroup
}

func NewInMemoryQueue(log *zap.Logger) *InMemoryQueue {
	if log == nil {
		log = zap.NewNop()
	}
	return &InMemoryQueue{
		handlers:   make(map[string][]Handler),
		log:        log,
		maxRetries: DefaultMaxRetries,
		backoff:    500 * time.Millisecond,
	}
}

// job wraps a message body with retry info
type job struct {
	topic      string
	body       []byte
	retryCount int
}

// Publish sends a message to all subscribers
func (q *InMemoryQueue) Publish(_ context.Context, topic string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode %s payload: %w", topic, err)
	}

	q.mu.Lock()
	handlers := append([]Handler(nil), q.handlers[topic]...)
	q.mu.Unlock()

	if len(handlers) == 0 {
		return fmt.Errorf("no subscribers for topic %s", topic)
	}

	for _, h := range handlers {
		q.wg.Add(1)
		go q.process(h, job{topic: topic, body: body})
	}
	return nil
}

// process handles retries and errors
func (q *InMemoryQueue) process(h Handler, j job) {
	defer q.wg.Done()
	for {
		err := h(context.Background(), j.body)
		if err == nil {
			q.log.Debug("job processed", zap.String("topic", j.topic))
			return
		}

		j.retryCount++
		if j.retryCount > q.maxRetries {
			q.log.Error("job permanently failed",
				zap.String("topic", j.topic), zap.Int("attempts", j.retryCount), zap.Error(err))
			return
		}
		q.log.Warn("job failed, retrying",
			zap.String("topic", j.topic), zap.Int("attempt", j.retryCount), zap.Error(err))
		time.Sleep(time.Duration(j.retryCount) * q.backoff)
	}
}

// Subscribe adds a handler for a topic
func (q *InMemoryQueue) Subscribe(topic string, handler Handler) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.handlers[topic] = append(q.handlers[topic], handler)
	return nil
}

// Close waits for in-flight jobs.
func (q *InMemoryQueue) Close() error {
	q.wg.Wait()
	return nil
}

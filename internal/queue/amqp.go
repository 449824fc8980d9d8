package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/streadway/amqp"
	"go.uber.org/zap"
)

const retryHeader = "x-retry-count"

// AMQPQueue maps each topic to a durable queue on the default exchange.
type AMQPQueue struct {
	conn       *amqp.Connection
	mu         sync.Mutex
	pub        *amqp.Channel
	declared   map[string]bool
	log        *zap.Logger
	maxRetries int
	prefetch   int
	done       chan struct{}
	wg         sync.WaitGroup
}

func DialAMQP(url string, log *zap.Logger) (*AMQPQueue, error) {
	if log == nil {
		log = zap.NewNop()
	}
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	return &AMQPQueue{
		conn:       conn,
		pub:        ch,
		declared:   map[string]bool{},
		log:        log,
		maxRetries: DefaultMaxRetries,
		prefetch:   10,
		done:       make(chan struct{}),
	}, nil
}

func declare(ch *amqp.Channel, name string) error {
	_, err := ch.QueueDeclare(
		name,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,
	)
	return err
}

func (q *AMQPQueue) Publish(_ context.Context, topic string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode %s payload: %w", topic, err)
	}
	return q.publish(topic, body, 0)
}

func (q *AMQPQueue) publish(topic string, body []byte, retries int) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if !q.declared[topic] {
		if err := declare(q.pub, topic); err != nil {
			return fmt.Errorf("declare queue %s: %w", topic, err)
		}
		q.declared[topic] = true
	}
	return q.pub.Publish("", topic, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
		Headers:      amqp.Table{retryHeader: int32(retries)},
		Body:         body,
	})
}

// Subscribe consumes topic on its own channel with manual acks. A failed
// message is republished with an incremented x-retry-count until the limit.
func (q *AMQPQueue) Subscribe(topic string, handler Handler) error {
	ch, err := q.conn.Channel()
	if err != nil {
		return fmt.Errorf("open channel: %w", err)
	}
	if err := declare(ch, topic); err != nil {
		_ = ch.Close()
		return fmt.Errorf("declare queue %s: %w", topic, err)
	}
	if err := ch.Qos(q.prefetch, 0, false); err != nil {
		_ = ch.Close()
		return fmt.Errorf("set qos: %w", err)
	}
	msgs, err := ch.Consume(topic, "", false, false, false, false, nil)
	if err != nil {
		_ = ch.Close()
		return fmt.Errorf("register consumer: %w", err)
	}

	q.wg.Add(1)
	go func() {
		defer q.wg.Done()
		defer ch.Close()
		for {
			select {
			case <-q.done:
				return
			case d, ok := <-msgs:
				if !ok {
					return
				}
				q.handle(topic, d, handler)
			}
		}
	}()
	return nil
}

func (q *AMQPQueue) handle(topic string, d amqp.Delivery, handler Handler) {
	err := handler(context.Background(), d.Body)
	if err == nil {
		_ = d.Ack(false)
		return
	}

	retries := RetryCount(d.Headers)
	if retries >= q.maxRetries {
		q.log.Error("message permanently failed",
			zap.String("topic", topic), zap.Int("retries", retries), zap.Error(err))
		_ = d.Ack(false)
		return
	}

	q.log.Warn("message failed, requeueing",
		zap.String("topic", topic), zap.Int("retry", retries+1), zap.Error(err))
	if perr := q.publish(topic, d.Body, retries+1); perr != nil {
		q.log.Error("requeue failed", zap.String("topic", topic), zap.Error(perr))
		_ = d.Nack(false, true)
		return
	}
	_ = d.Ack(false)
}

// RetryCount reads the x-retry-count header.
func RetryCount(h amqp.Table) int {
	switch v := h[retryHeader].(type) {
	case int:
		return v
	case int16:
		return int(v)
	case int32:
		return int(v)
	case int64:
		return int(v)
	}
	return 0
}

func (q *AMQPQueue) Close() error {
	close(q.done)
	q.wg.Wait()
	q.mu.Lock()
	_ = q.pub.Close()
	q.mu.Unlock()
	return q.conn.Close()
}

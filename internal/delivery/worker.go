package delivery

import (
	"context"
	"encoding/json"
	"sync/atomic"

	"go.uber.org/zap"
)

// Worker processes outbound message jobs
type Worker struct {
	Sender Sender
	log    *zap.Logger

	delivered atomic.Int64
	failed    atomic.Int64
}

func NewWorker(sender Sender, log *zap.Logger) *Worker {
	if log == nil {
		log = zap.NewNop()
	}
	return &Worker{Sender: sender, log: log}
}

// Handle is a queue.Handler. Undecodable bodies are dropped without retry.
func (w *Worker) Handle(ctx context.Context, body []byte) error {
	var msg Message
	if err := json.Unmarshal(body, &msg); err != nil {
		w.log.Warn("⚠️ invalid delivery job", zap.Error(err))
		w.failed.Add(1)
		return nil
	}
	return w.deliver(ctx, msg)
}

func (w *Worker) deliver(ctx context.Context, msg Message) error {
	if err := w.Sender.Send(ctx, msg); err != nil {
		w.failed.Add(1)
		w.log.Warn("⚠️ failed to send message", zap.String("id", msg.ID), zap.Error(err))
		return err
	}
	w.delivered.Add(1)
	w.log.Debug("✅ message delivered", zap.String("id", msg.ID))
	return nil
}

// Stats reports delivered and failed attempts so far.
func (w *Worker) Stats() (delivered, failed int64) {
	return w.delivered.Load(), w.failed.Load()
}

package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/unclebandit/ostrich-customer-api/internal/config"
	"github.com/unclebandit/ostrich-customer-api/internal/delivery"
	"github.com/unclebandit/ostrich-customer-api/internal/logger"
	"github.com/unclebandit/ostrich-customer-api/internal/queue"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logg, err := logger.New(cfg.Log.Level, cfg.Log.Format, cfg.ServiceName+"-worker")
	if err != nil {
		log.Fatalf("build logger: %v", err)
	}
	defer func() { _ = logg.Sync() }()

	if cfg.AMQP.URL == "" {
		logg.Fatal("❌ AMQP_URL is required for the delivery worker")
	}
	q, err := queue.DialAMQP(cfg.AMQP.URL, logg)
	if err != nil {
		logg.Fatal("❌ RabbitMQ connection failed", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	worker, err := consume(q, cfg.AMQP.Queue, delivery.LogSender{Log: logg}, logg)
	if err != nil {
		logg.Fatal("register consumer", zap.Error(err))
	}
	logg.Info("Worker running, waiting for messages...", zap.String("queue", cfg.AMQP.Queue))

	<-ctx.Done()
	if err := q.Close(); err != nil {
		logg.Warn("close queue", zap.Error(err))
	}
	delivered, failed := worker.Stats()
	logg.Info("worker stopped", zap.Int64("delivered", delivered), zap.Int64("failed", failed))
}

// consume subscribes a delivery worker for sender to topic on q.
func consume(q queue.Queue, topic string, sender delivery.Sender, logg *zap.Logger) (*delivery.Worker, error) {
	w := delivery.NewWorker(sender, logg)
	if err := q.Subscribe(topic, w.Handle); err != nil {
		return nil, err
	}
	return w, nil
}

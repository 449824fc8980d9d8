package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/unclebandit/ostrich-customer-api/internal/auth"
	"github.com/unclebandit/ostrich-customer-api/internal/config"
	"github.com/unclebandit/ostrich-customer-api/internal/db"
	"github.com/unclebandit/ostrich-customer-api/internal/delivery"
	"github.com/unclebandit/ostrich-customer-api/internal/handler"
	"github.com/unclebandit/ostrich-customer-api/internal/kafka"
	"github.com/unclebandit/ostrich-customer-api/internal/logger"
	"github.com/unclebandit/ostrich-customer-api/internal/queue"
	"github.com/unclebandit/ostrich-customer-api/internal/repository"
	"github.com/unclebandit/ostrich-customer-api/internal/service"
	"github.com/unclebandit/ostrich-customer-api/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logg, err := logger.New(cfg.Log.Level, cfg.Log.Format, cfg.ServiceName)
	if err != nil {
		log.Fatalf("build logger: %v", err)
	}
	defer func() { _ = logg.Sync() }()

	if cfg.UsesInsecureSecret() {
		logg.Warn("⚠️ SECRET_KEY is unset or the built-in default, tokens can be forged")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	conn, dialect, err := db.Open(ctx, cfg.DB, logg)
	if err != nil {
		logg.Fatal("❌ database connection failed", zap.Error(err))
	}
	defer conn.Close()
	gw := db.NewGateway(conn, dialect, cfg.DB.QueryTimeout, logg)

	q := openQueue(cfg, logg)
	defer q.Close()
	dispatcher := delivery.NewDispatcher(q, cfg.AMQP.Queue)

	codes, revoker, closeRedis, err := authStores(ctx, cfg, dispatcher, logg)
	if err != nil {
		logg.Fatal("❌ OTP store unavailable", zap.Error(err))
	}
	defer closeRedis()

	events, closeEvents := eventPublisher(cfg, logg)
	defer closeEvents()

	customers := &repository.CustomerRepository{DB: gw}
	products := &repository.ProductRepository{DB: gw}
	tickets := &repository.ServiceTicketRepository{DB: gw}
	notifications := &repository.NotificationRepository{DB: gw}
	enquiries := &repository.EnquiryRepository{DB: gw}

	tokens := auth.NewTokens(cfg.SecretKey, cfg.Auth.TokenTTL)
	authService := &service.AuthService{
		Customers:  customers,
		Tokens:     tokens,
		Codes:      codes,
		Revoker:    revoker,
		Events:     events,
		ResetTTL:   cfg.Auth.ResetTokenTTL,
		ExposeCode: cfg.Auth.OTPExposeCode,
		Log:        logg,
	}

	router := handler.NewRouter(handler.Deps{
		Config:  cfg,
		Log:     logg,
		DB:      gw,
		Tokens:  tokens,
		Revoker: revoker,
		Auth:    authService,
		Dashboard: &service.DashboardService{
			Customers:     customers,
			Products:      products,
			Services:      tickets,
			Notifications: notifications,
		},
		Requests:      &service.RequestService{Tickets: tickets, Enquiries: enquiries, Events: events},
		Customers:     customers,
		Products:      products,
		Tickets:       tickets,
		Orders:        &repository.OrderRepository{DB: gw},
		Notifications: notifications,
		Enquiries:     enquiries,
		Locations:     &repository.LocationRepository{DB: gw},
		Preferences:   &repository.PreferenceRepository{DB: gw},
		Messages:      dispatcher,
		Files:         storage.URLStub{BaseURL: cfg.Uploads.BaseURL},
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logg.Info("🚀 Server running", zap.String("addr", srv.Addr), zap.String("version", cfg.Version))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logg.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logg.Error("graceful shutdown failed", zap.Error(err))
	}
}

// openQueue prefers RabbitMQ and falls back to an in-process queue whose
// subscriber logs messages instead of sending them.
func openQueue(cfg *config.Config, logg *zap.Logger) queue.Queue {
	if cfg.AMQP.URL != "" {
		q, err := queue.DialAMQP(cfg.AMQP.URL, logg)
		if err == nil {
			logg.Info("✅ Connected to RabbitMQ", zap.String("queue", cfg.AMQP.Queue))
			return q
		}
		logg.Warn("⚠️ RabbitMQ unavailable, delivering in-process", zap.Error(err))
	}

	q := queue.NewInMemoryQueue(logg)
	worker := delivery.NewWorker(delivery.LogSender{Log: logg}, logg)
	if err := q.Subscribe(cfg.AMQP.Queue, worker.Handle); err != nil {
		logg.Fatal("subscribe delivery worker", zap.Error(err))
	}
	return q
}

func eventPublisher(cfg *config.Config, logg *zap.Logger) (kafka.EventPublisher, func()) {
	if len(cfg.Kafka.Brokers) == 0 {
		return kafka.NopPublisher{}, func() {}
	}
	p := kafka.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic, 1024, logg)
	p.Start()
	logg.Info("✅ Kafka producer started", zap.Strings("brokers", cfg.Kafka.Brokers), zap.String("topic", cfg.Kafka.Topic))
	return kafka.NewEventProducer(p, cfg.ServiceName, logg), p.Close
}

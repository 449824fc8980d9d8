// dbcheck verifies the configured database is reachable and holds data the
// API can serve.
package main

import (
	"context"
	"log"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/unclebandit/ostrich-customer-api/internal/config"
	"github.com/unclebandit/ostrich-customer-api/internal/db"
	"github.com/unclebandit/ostrich-customer-api/internal/logger"
	"github.com/unclebandit/ostrich-customer-api/internal/repository"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logg, err := logger.New(cfg.Log.Level, "console", "dbcheck")
	if err != nil {
		log.Fatalf("build logger: %v", err)
	}
	defer func() { _ = logg.Sync() }()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	conn, dialect, err := db.Open(ctx, cfg.DB, logg)
	if err != nil {
		logg.Error("❌ Database connection failed", zap.Error(err))
		os.Exit(1)
	}
	defer conn.Close()
	gw := db.NewGateway(conn, dialect, cfg.DB.QueryTimeout, logg)

	products, err := (&repository.ProductRepository{DB: gw}).CountActive(ctx)
	if err != nil {
		logg.Error("❌ products query failed", zap.Error(err))
		os.Exit(1)
	}
	customers, err := (&repository.CustomerRepository{DB: gw}).CountMobile(ctx)
	if err != nil {
		logg.Error("❌ customers query failed", zap.Error(err))
		os.Exit(1)
	}

	logg.Info("✅ Database check passed",
		zap.String("dialect", dialect.String()),
		zap.Int64("active_products", products),
		zap.Int64("mobile_customers", customers),
	)
}

// internal/db/db.go
package db

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"time"

	"github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/unclebandit/ostrich-customer-api/internal/config"
)

// Open connects to the configured store, applies the pool bounds and pings it.
func Open(ctx context.Context, cfg config.Database, log *zap.Logger) (*sql.DB, Dialect, error) {
	dialect, err := DialectFor(cfg.Driver)
	if err != nil {
		return nil, dialect, err
	}

	log.Info("connecting to database",
		zap.String("driver", dialect.DriverName()),
		zap.String("host", cfg.Host),
		zap.Int("port", cfg.Port),
		zap.String("name", cfg.Name),
		zap.String("user", cfg.User),
	)

	conn, err := sql.Open(dialect.DriverName(), dsn(dialect, cfg))
	if err != nil {
		return nil, dialect, fmt.Errorf("open database: %w", err)
	}
	conn.SetMaxOpenConns(cfg.MaxOpenConns)
	conn.SetMaxIdleConns(cfg.MaxIdleConns)
	conn.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	pingCtx, cancel := context.WithTimeout(ctx, cfg.QueryTimeout)
	defer cancel()
	if err := conn.PingContext(pingCtx); err != nil {
		_ = conn.Close()
		return nil, dialect, fmt.Errorf("ping database: %w", err)
	}

	log.Info("✅ Connected to database")
	return conn, dialect, nil
}

func dsn(d Dialect, cfg config.Database) string {
	if d == Postgres {
		sslmode := "disable"
		switch cfg.TLS {
		case "true", "required", "require":
			sslmode = "require"
		case "preferred", "prefer":
			sslmode = "prefer"
		}
		u := url.URL{
			Scheme:   "postgres",
			User:     url.UserPassword(cfg.User, cfg.Password),
			Host:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
			Path:     "/" + cfg.Name,
			RawQuery: "sslmode=" + sslmode,
		}
		return u.String()
	}

	mc := mysql.NewConfig()
	mc.User = cfg.User
	mc.Passwd = cfg.Password
	mc.Net = "tcp"
	mc.Addr = fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	mc.DBName = cfg.Name
	mc.ParseTime = true
	mc.Loc = time.Local
	mc.Timeout = cfg.QueryTimeout
	mc.Params = map[string]string{"charset": "utf8mb4"}
	switch cfg.TLS {
	case "true", "required", "require":
		mc.TLSConfig = "true"
	case "skip-verify":
		mc.TLSConfig = "skip-verify"
	case "preferred", "prefer":
		mc.TLSConfig = "preferred"
	}
	return mc.FormatDSN()
}

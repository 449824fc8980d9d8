package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/unclebandit/ostrich-customer-api/internal/auth"
	"github.com/unclebandit/ostrich-customer-api/internal/config"
	"github.com/unclebandit/ostrich-customer-api/internal/redisx"
)

// authStores picks the OTP store and token revoker. The fixed code is only
// ever built for OTP_MODE=fixed; redis mode refuses to start without Redis.
func authStores(ctx context.Context, cfg *config.Config, d auth.Deliverer, logg *zap.Logger) (auth.CodeService, auth.Revoker, func(), error) {
	switch cfg.Auth.OTPMode {
	case "fixed":
		logg.Warn("⚠️ OTP_MODE=fixed, every login accepts the configured code", zap.String("code", cfg.Auth.OTPFixedCode))
		fixed := &auth.FixedCode{Code: cfg.Auth.OTPFixedCode, Expiry: cfg.Auth.OTPTTL, Deliverer: d}
		return fixed, nil, func() {}, nil
	case "redis", "":
	default:
		return nil, nil, nil, fmt.Errorf("unsupported OTP_MODE %q", cfg.Auth.OTPMode)
	}

	rdb := redisx.New(cfg.Redis)
	if err := redisx.Ping(ctx, rdb); err != nil {
		_ = rdb.Close()
		return nil, nil, nil, fmt.Errorf("redis %s: %w", cfg.Redis.Addr, err)
	}
	logg.Info("✅ Connected to Redis", zap.String("addr", cfg.Redis.Addr))

	codes := auth.NewRedisCodes(rdb, cfg.Auth.OTPTTL, d, logg)
	if cfg.Auth.OTPMaxTries > 0 {
		codes.MaxAttempts = cfg.Auth.OTPMaxTries
	}
	return codes, auth.NewRedisRevoker(rdb), func() { _ = rdb.Close() }, nil
}

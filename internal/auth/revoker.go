package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	appErrors "github.com/unclebandit/ostrich-customer-api/internal/errors"
	"github.com/unclebandit/ostrich-customer-api/internal/redisx"
)

// Revoker tracks logged-out tokens by their jti until they would have expired.
type Revoker interface {
	Revoke(ctx context.Context, jti string, until time.Time) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

type RedisRevoker struct {
	rdb *redis.Client
}

func NewRedisRevoker(rdb *redis.Client) *RedisRevoker {
	return &RedisRevoker{rdb: rdb}
}

func (r *RedisRevoker) Revoke(ctx context.Context, jti string, until time.Time) error {
	ttl := time.Until(until)
	if jti == "" || ttl <= 0 {
		return nil
	}
	if err := r.rdb.Set(ctx, redisx.RevokedTokenKey(jti), "1", ttl).Err(); err != nil {
		return fmt.Errorf("revoke token: %w: %v", appErrors.ErrUnavailable, err)
	}
	return nil
}

func (r *RedisRevoker) IsRevoked(ctx context.Context, jti string) (bool, error) {
	if jti == "" {
		return false, nil
	}
	ok, err := redisx.Exists(ctx, r.rdb, redisx.RevokedTokenKey(jti))
	if err != nil {
		return false, fmt.Errorf("check revocation: %w: %v", appErrors.ErrUnavailable, err)
	}
	return ok, nil
}

package auth

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	appErrors "github.com/unclebandit/ostrich-customer-api/internal/errors"
	"github.com/unclebandit/ostrich-customer-api/internal/model"
	"github.com/unclebandit/ostrich-customer-api/internal/redisx"
)

type Purpose string

const (
	PurposeLogin         Purpose = "login"
	PurposeRegistration  Purpose = "registration"
	PurposePasswordReset Purpose = "password_reset"
)

// Issued describes a code that was just sent.
type Issued struct {
	Reference string
	Code      string
	ExpiresAt time.Time
}

// CodeService sends one-time codes to a phone and checks them.
type CodeService interface {
	Send(ctx context.Context, purpose Purpose, phone string) (Issued, error)
	Verify(ctx context.Context, purpose Purpose, phone, code string) (bool, error)
	TTL() time.Duration
}

// Deliverer hands a message to the outbound channel.
type Deliverer interface {
	Deliver(ctx context.Context, msg model.OutboundMessage) error
}

// DefaultMaxAttempts is how many wrong guesses a live code survives.
const DefaultMaxAttempts = 5

// consume deletes the code when it matches. A miss bumps the attempt counter,
// which shares the code's expiry, and burns the code once ARGV[2] misses
// have been counted.
var consume = redis.NewScript(`
local stored = redis.call("GET", KEYS[1])
if not stored then
	return 0
end
if stored == ARGV[1] then
	redis.call("DEL", KEYS[1], KEYS[2])
	return 1
end
local misses = redis.call("INCR", KEYS[2])
if misses == 1 then
	local ttl = redis.call("PTTL", KEYS[1])
	if ttl > 0 then
		redis.call("PEXPIRE", KEYS[2], ttl)
	end
end
if misses >= tonumber(ARGV[2]) then
	redis.call("DEL", KEYS[1], KEYS[2])
end
return 0
`)

// RedisCodes keeps one live code per purpose and phone. A code is accepted
// once, only before it expires, and only until MaxAttempts wrong guesses
// have been made against it.
type RedisCodes struct {
	MaxAttempts int

	rdb       *redis.Client
	ttl       time.Duration
	deliverer Deliverer
	log       *zap.Logger
}

func NewRedisCodes(rdb *redis.Client, ttl time.Duration, deliverer Deliverer, log *zap.Logger) *RedisCodes {
	if log == nil {
		log = zap.NewNop()
	}
	return &RedisCodes{MaxAttempts: DefaultMaxAttempts, rdb: rdb, ttl: ttl, deliverer: deliverer, log: log}
}

func (r *RedisCodes) TTL() time.Duration { return r.ttl }

func (r *RedisCodes) Send(ctx context.Context, purpose Purpose, phone string) (Issued, error) {
	code, err := randomCode()
	if err != nil {
		return Issued{}, err
	}
	// A fresh code starts with a clean attempt counter.
	_, err = r.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Set(ctx, redisx.OTPKey(string(purpose), phone), code, r.ttl)
		p.Del(ctx, redisx.OTPAttemptsKey(string(purpose), phone))
		return nil
	})
	if err != nil {
		r.log.Error("store otp", zap.String("purpose", string(purpose)), zap.Error(err))
		return Issued{}, fmt.Errorf("store otp: %w: %v", appErrors.ErrUnavailable, err)
	}

	issued := Issued{Reference: uuid.NewString(), Code: code, ExpiresAt: time.Now().Add(r.ttl)}
	if err := deliverCode(ctx, r.deliverer, purpose, phone, issued, r.ttl); err != nil {
		return Issued{}, err
	}
	return issued, nil
}

func (r *RedisCodes) Verify(ctx context.Context, purpose Purpose, phone, code string) (bool, error) {
	if code == "" {
		return false, nil
	}
	limit := r.MaxAttempts
	if limit <= 0 {
		limit = DefaultMaxAttempts
	}
	keys := []string{redisx.OTPKey(string(purpose), phone), redisx.OTPAttemptsKey(string(purpose), phone)}
	n, err := consume.Run(ctx, r.rdb, keys, code, limit).Int()
	if err != nil {
		r.log.Error("verify otp", zap.String("purpose", string(purpose)), zap.Error(err))
		return false, fmt.Errorf("verify otp: %w: %v", appErrors.ErrUnavailable, err)
	}
	return n == 1, nil
}

// FixedCode accepts a single configured code. Development and tests only.
type FixedCode struct {
	Code      string
	Expiry    time.Duration
	Deliverer Deliverer
}

func (f *FixedCode) TTL() time.Duration { return f.Expiry }

func (f *FixedCode) Send(ctx context.Context, purpose Purpose, phone string) (Issued, error) {
	issued := Issued{Reference: uuid.NewString(), Code: f.Code, ExpiresAt: time.Now().Add(f.Expiry)}
	if err := deliverCode(ctx, f.Deliverer, purpose, phone, issued, f.Expiry); err != nil {
		return Issued{}, err
	}
	return issued, nil
}

func (f *FixedCode) Verify(_ context.Context, _ Purpose, _ string, code string) (bool, error) {
	return code != "" && subtle.ConstantTimeCompare([]byte(code), []byte(f.Code)) == 1, nil
}

func deliverCode(ctx context.Context, d Deliverer, purpose Purpose, phone string, issued Issued, ttl time.Duration) error {
	if d == nil {
		return nil
	}
	msg := model.OutboundMessage{
		ID:        issued.Reference,
		Channel:   model.ChannelSMS,
		Phone:     phone,
		Body:      fmt.Sprintf("Your Ostrich verification code is %s. It expires in %d minutes.", issued.Code, int(ttl.Minutes())),
		Purpose:   "otp_" + string(purpose),
		CreatedAt: time.Now(),
	}
	if err := d.Deliver(ctx, msg); err != nil {
		return fmt.Errorf("deliver otp: %w", err)
	}
	return nil
}

func randomCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

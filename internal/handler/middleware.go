package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/unclebandit/ostrich-customer-api/internal/auth"
	"github.com/unclebandit/ostrich-customer-api/internal/kafka"
)

// Principal is the authenticated customer behind a request.
type Principal struct {
	CustomerID int64
	Claims     *auth.Claims
}

type principalKey struct{}

func principalFrom(r *http.Request) (Principal, bool) {
	p, ok := r.Context().Value(principalKey{}).(Principal)
	return p, ok
}

// ExistsFunc reports whether a customer row exists.
type ExistsFunc func(ctx context.Context, id int64) (bool, error)

// RequireAuth admits requests carrying a valid, unrevoked bearer token whose
// subject is an existing customer. revoker may be nil.
func RequireAuth(tokens *auth.Tokens, exists ExistsFunc, revoker auth.Revoker, log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			raw, found := strings.CutPrefix(header, "Bearer ")
			raw = strings.TrimSpace(raw)
			if header == "" || (found && raw == "") {
				fail(w, http.StatusUnauthorized, "Token required")
				return
			}
			if !found {
				fail(w, http.StatusUnauthorized, "Invalid token")
				return
			}

			claims, err := tokens.Verify(raw)
			if err != nil {
				fail(w, http.StatusUnauthorized, "Invalid token")
				return
			}
			id, err := claims.CustomerID()
			if err != nil {
				fail(w, http.StatusUnauthorized, "Invalid token")
				return
			}

			ctx := r.Context()
			if revoker != nil {
				revoked, err := revoker.IsRevoked(ctx, claims.ID)
				if err != nil {
					failErr(w, log, err)
					return
				}
				if revoked {
					fail(w, http.StatusUnauthorized, "Invalid token")
					return
				}
			}
			ok, err := exists(ctx, id)
			if err != nil {
				failErr(w, log, err)
				return
			}
			if !ok {
				fail(w, http.StatusUnauthorized, "Invalid token")
				return
			}

			ctx = context.WithValue(ctx, principalKey{}, Principal{CustomerID: id, Claims: claims})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// protected adapts a handler that needs the caller's identity. Routes using
// it must sit behind RequireAuth.
func protected(fn func(http.ResponseWriter, *http.Request, Principal)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := principalFrom(r)
		if !ok {
			fail(w, http.StatusUnauthorized, "Token required")
			return
		}
		fn(w, r, p)
	}
}

// RequestLogger logs one line per request and tags the context with the
// request id so emitted domain events carry it as their trace id.
func RequestLogger(log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			reqID := middleware.GetReqID(r.Context())
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r.WithContext(kafka.WithTraceID(r.Context(), reqID)))

			log.Info("request",
				zap.String("request_id", reqID),
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("duration", time.Since(start)),
			)
		})
	}
}

// Recoverer turns a panic into a logged 500 envelope.
func Recoverer(log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					if rec == http.ErrAbortHandler {
						panic(rec)
					}
					log.Error("panic recovered",
						zap.Any("panic", rec),
						zap.String("request_id", middleware.GetReqID(r.Context())),
						zap.Stack("stack"),
					)
					fail(w, http.StatusInternalServerError, "Internal server error")
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

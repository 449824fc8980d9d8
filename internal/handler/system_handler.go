package handler

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/unclebandit/ostrich-customer-api/internal/model"
)

// Pinger checks that a backing store answers.
type Pinger interface {
	Ping(ctx context.Context) error
}

type SystemHandler struct {
	ServiceName string
	Version     string
	DB          Pinger
	Log         *zap.Logger
}

func (h *SystemHandler) root(w http.ResponseWriter, _ *http.Request) {
	respond(w, http.StatusOK, "Ostrich Customer Mobile API v"+h.Version, map[string]any{
		"version": h.Version,
		"docs":    "/docs/",
		"status":  "running",
		"endpoints": map[string]string{
			"auth":          "/api/v1/auth/",
			"dashboard":     "/api/v1/dashboard/",
			"products":      "/api/v1/products/",
			"services":      "/api/v1/services/",
			"orders":        "/api/v1/orders/",
			"profile":       "/api/v1/profile/",
			"notifications": "/api/v1/notifications/",
			"enquiries":     "/api/v1/enquiries/",
		},
	})
}

// health always answers 200; the database check is reported in the body.
func (h *SystemHandler) health(w http.ResponseWriter, r *http.Request) {
	database := "up"
	if h.DB != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := h.DB.Ping(ctx); err != nil {
			h.Log.Warn("health check failed", zap.Error(err))
			database = "down"
		}
	}
	respond(w, http.StatusOK, "Service is healthy", map[string]string{
		"service":   h.ServiceName,
		"timestamp": model.FormatTime(time.Now()),
		"database":  database,
	})
}

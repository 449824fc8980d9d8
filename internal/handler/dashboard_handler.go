package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/unclebandit/ostrich-customer-api/internal/service"
)

type DashboardHandler struct {
	Service *service.DashboardService
	Log     *zap.Logger
}

func (h *DashboardHandler) Register(r chi.Router, gate Middleware) {
	r.With(gate).Get("/", protected(h.get))
}

func (h *DashboardHandler) get(w http.ResponseWriter, r *http.Request, p Principal) {
	d, err := h.Service.Get(r.Context(), p.CustomerID)
	if err != nil {
		failErr(w, h.Log, err)
		return
	}
	respond(w, http.StatusOK, "Dashboard data retrieved successfully", d)
}

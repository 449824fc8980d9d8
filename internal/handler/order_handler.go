package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/unclebandit/ostrich-customer-api/internal/db"
	"github.com/unclebandit/ostrich-customer-api/internal/repository"
)

const relatedLimit = 10

// OrderHandler serves /orders plus the purchase-derived /warranty and
// /sales views.
type OrderHandler struct {
	Orders   repository.OrderRepositoryInterface
	Products repository.ProductRepositoryInterface
	Log      *zap.Logger
}

func (h *OrderHandler) Register(r chi.Router, gate Middleware) {
	r.Use(gate)
	r.Get("/", protected(h.list))
	r.Get("/related-purchases", protected(h.related))
	r.Get("/{id}", protected(h.get))
}

func (h *OrderHandler) RegisterWarranty(r chi.Router, gate Middleware) {
	r.With(gate).Get("/", protected(h.warranties))
}

func (h *OrderHandler) RegisterSales(r chi.Router, gate Middleware) {
	r.With(gate).Get("/history", protected(h.salesHistory))
}

func (h *OrderHandler) list(w http.ResponseWriter, r *http.Request, p Principal) {
	rows, err := h.Orders.ListForCustomer(r.Context(), p.CustomerID)
	if err != nil {
		failErr(w, h.Log, err)
		return
	}
	respond(w, http.StatusOK, "Orders retrieved successfully", listOf("orders", rows))
}

func (h *OrderHandler) get(w http.ResponseWriter, r *http.Request, p Principal) {
	id, ok := idParam(w, r, "id", "Order not found")
	if !ok {
		return
	}
	row, err := h.Orders.GetForCustomer(r.Context(), p.CustomerID, id)
	if err != nil {
		failErr(w, h.Log, err)
		return
	}
	if row == nil {
		fail(w, http.StatusNotFound, "Order not found")
		return
	}
	respond(w, http.StatusOK, "Order details retrieved successfully", row)
}

func (h *OrderHandler) related(w http.ResponseWriter, r *http.Request, p Principal) {
	rows, err := h.Products.Related(r.Context(), p.CustomerID, relatedLimit)
	if err != nil {
		failErr(w, h.Log, err)
		return
	}
	respond(w, http.StatusOK, "Related purchases retrieved successfully", map[string]any{
		"related_products":      rows,
		"accessories":           []db.Row{},
		"recommendation_source": "categories",
	})
}

func (h *OrderHandler) warranties(w http.ResponseWriter, r *http.Request, p Principal) {
	rows, err := h.Orders.Warranties(r.Context(), p.CustomerID)
	if err != nil {
		failErr(w, h.Log, err)
		return
	}
	respond(w, http.StatusOK, "Warranty information retrieved successfully", listOf("warranties", rows))
}

func (h *OrderHandler) salesHistory(w http.ResponseWriter, r *http.Request, p Principal) {
	rows, err := h.Orders.SalesHistory(r.Context(), p.CustomerID)
	if err != nil {
		failErr(w, h.Log, err)
		return
	}
	respond(w, http.StatusOK, "Sales history retrieved successfully", listOf("sales", rows))
}

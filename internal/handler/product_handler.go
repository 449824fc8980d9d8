package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/unclebandit/ostrich-customer-api/internal/repository"
)

const (
	defaultTrending = 10
	maxTrending     = 50
)

// ProductHandler serves the customer's own products plus the public catalog
// views under /products.
type ProductHandler struct {
	Products repository.ProductRepositoryInterface
	Log      *zap.Logger
}

func (h *ProductHandler) Register(r chi.Router, gate Middleware) {
	r.Get("/catalog", h.catalog)
	r.Get("/trending", h.trending)
	r.Get("/{id}/images", h.images)

	r.Group(func(r chi.Router) {
		r.Use(gate)
		r.Get("/", protected(h.list))
		r.Get("/{id}", protected(h.get))
	})
}

func (h *ProductHandler) list(w http.ResponseWriter, r *http.Request, p Principal) {
	rows, err := h.Products.ListOwned(r.Context(), p.CustomerID)
	if err != nil {
		failErr(w, h.Log, err)
		return
	}
	respond(w, http.StatusOK, "Products retrieved successfully", listOf("products", rows))
}

func (h *ProductHandler) get(w http.ResponseWriter, r *http.Request, p Principal) {
	id, ok := idParam(w, r, "id", "Product not found")
	if !ok {
		return
	}
	row, err := h.Products.GetOwned(r.Context(), p.CustomerID, id)
	if err != nil {
		failErr(w, h.Log, err)
		return
	}
	if row == nil {
		fail(w, http.StatusNotFound, "Product not found")
		return
	}
	respond(w, http.StatusOK, "Product details retrieved successfully", row)
}

func (h *ProductHandler) catalog(w http.ResponseWriter, r *http.Request) {
	rows, err := h.Products.Catalog(r.Context(), "", "")
	if err != nil {
		failErr(w, h.Log, err)
		return
	}
	respond(w, http.StatusOK, "Products retrieved successfully", listOf("products", rows))
}

func (h *ProductHandler) trending(w http.ResponseWriter, r *http.Request) {
	limit := intQuery(r, "limit", defaultTrending, 1, maxTrending)
	rows, err := h.Products.Trending(r.Context(), limit)
	if err != nil {
		failErr(w, h.Log, err)
		return
	}
	respond(w, http.StatusOK, "Trending products retrieved successfully", listOf("trending_products", rows))
}

func (h *ProductHandler) images(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id", "Product not found")
	if !ok {
		return
	}
	rows, err := h.Products.Images(r.Context(), id)
	if err != nil {
		failErr(w, h.Log, err)
		return
	}
	respond(w, http.StatusOK, "Product images retrieved successfully", listOf("images", rows))
}

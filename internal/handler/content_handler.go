package handler

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/unclebandit/ostrich-customer-api/internal/config"
	"github.com/unclebandit/ostrich-customer-api/internal/repository"
)

type faq struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

var faqs = []faq{
	{"How to request service?", "Use the service request feature in the app"},
	{"How to check warranty?", "Go to Products section and check warranty details"},
	{"Service center locations?", "Check Locations section for nearby service centers"},
}

// ContentHandler serves public reference data: support, catalog, gallery
// and service locations.
type ContentHandler struct {
	Products  repository.ProductRepositoryInterface
	Locations repository.LocationRepositoryInterface
	Support   config.Support
	Log       *zap.Logger
}

func (h *ContentHandler) RegisterSupport(r chi.Router) {
	r.Get("/faq", h.faq)
	r.Get("/contact", h.contact)
}

func (h *ContentHandler) RegisterCatalog(r chi.Router) {
	r.Get("/products", h.catalogProducts)
	r.Get("/categories", h.categories)
}

func (h *ContentHandler) RegisterGallery(r chi.Router) {
	r.Get("/", h.gallery)
}

func (h *ContentHandler) RegisterLocations(r chi.Router) {
	r.Get("/nearby", h.nearby)
}

func (h *ContentHandler) faq(w http.ResponseWriter, _ *http.Request) {
	respond(w, http.StatusOK, "FAQ retrieved successfully", map[string]any{"faqs": faqs})
}

func (h *ContentHandler) contact(w http.ResponseWriter, _ *http.Request) {
	respond(w, http.StatusOK, "Contact information retrieved successfully", map[string]string{
		"phone":    h.Support.Phone,
		"email":    h.Support.Email,
		"hours":    h.Support.Hours,
		"whatsapp": h.Support.WhatsApp,
	})
}

func (h *ContentHandler) catalogProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	rows, err := h.Products.Catalog(r.Context(), strings.TrimSpace(q.Get("category")), strings.TrimSpace(q.Get("search")))
	if err != nil {
		failErr(w, h.Log, err)
		return
	}
	respond(w, http.StatusOK, "Product catalog retrieved successfully", listOf("products", rows))
}

func (h *ContentHandler) categories(w http.ResponseWriter, r *http.Request) {
	rows, err := h.Products.Categories(r.Context())
	if err != nil {
		failErr(w, h.Log, err)
		return
	}
	respond(w, http.StatusOK, "Categories retrieved successfully", listOf("categories", rows))
}

func (h *ContentHandler) gallery(w http.ResponseWriter, r *http.Request) {
	rows, err := h.Products.Gallery(r.Context())
	if err != nil {
		failErr(w, h.Log, err)
		return
	}
	respond(w, http.StatusOK, "Gallery images retrieved successfully", listOf("gallery", rows))
}

func (h *ContentHandler) nearby(w http.ResponseWriter, r *http.Request) {
	rows, err := h.Locations.ServiceCenters(r.Context())
	if err != nil {
		failErr(w, h.Log, err)
		return
	}
	respond(w, http.StatusOK, "Nearby locations retrieved successfully", listOf("service_centers", rows))
}

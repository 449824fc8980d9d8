package handler

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/unclebandit/ostrich-customer-api/internal/repository"
	"github.com/unclebandit/ostrich-customer-api/internal/service"
)

// ServiceHandler serves service tickets under /services.
type ServiceHandler struct {
	Tickets  repository.ServiceTicketRepositoryInterface
	Requests *service.RequestService
	Log      *zap.Logger
}

func (h *ServiceHandler) Register(r chi.Router, gate Middleware) {
	r.Use(gate)
	r.Get("/", protected(h.list))
	r.Post("/request", protected(h.request))
	r.Get("/{id}", protected(h.get))
}

func (h *ServiceHandler) list(w http.ResponseWriter, r *http.Request, p Principal) {
	status := strings.TrimSpace(r.URL.Query().Get("status"))
	rows, err := h.Tickets.ListForCustomer(r.Context(), p.CustomerID, status, 0)
	if err != nil {
		failErr(w, h.Log, err)
		return
	}
	respond(w, http.StatusOK, "Services retrieved successfully", listOf("services", rows))
}

func (h *ServiceHandler) request(w http.ResponseWriter, r *http.Request, p Principal) {
	var in service.ServiceRequestInput
	if err := decodeJSON(r, &in); err != nil {
		failErr(w, h.Log, err)
		return
	}
	res, err := h.Requests.OpenTicket(r.Context(), p.CustomerID, in)
	if err != nil {
		failErr(w, h.Log, err)
		return
	}
	respond(w, http.StatusOK, "Service request submitted successfully", res)
}

func (h *ServiceHandler) get(w http.ResponseWriter, r *http.Request, p Principal) {
	id, ok := idParam(w, r, "id", "Service not found")
	if !ok {
		return
	}
	row, err := h.Tickets.GetForCustomer(r.Context(), p.CustomerID, id)
	if err != nil {
		failErr(w, h.Log, err)
		return
	}
	if row == nil {
		fail(w, http.StatusNotFound, "Service not found")
		return
	}
	respond(w, http.StatusOK, "Service details retrieved successfully", row)
}

package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/unclebandit/ostrich-customer-api/internal/repository"
	"github.com/unclebandit/ostrich-customer-api/internal/service"
)

type EnquiryHandler struct {
	Enquiries repository.EnquiryRepositoryInterface
	Requests  *service.RequestService
	Log       *zap.Logger
}

func (h *EnquiryHandler) Register(r chi.Router, gate Middleware) {
	r.Use(gate)
	r.Post("/", protected(h.create))
	r.Get("/", protected(h.list))
}

func (h *EnquiryHandler) create(w http.ResponseWriter, r *http.Request, p Principal) {
	var in service.EnquiryInput
	if err := decodeJSON(r, &in); err != nil {
		failErr(w, h.Log, err)
		return
	}
	res, err := h.Requests.CreateEnquiry(r.Context(), p.CustomerID, in)
	if err != nil {
		failErr(w, h.Log, err)
		return
	}
	respond(w, http.StatusOK, "Enquiry submitted successfully", res)
}

func (h *EnquiryHandler) list(w http.ResponseWriter, r *http.Request, p Principal) {
	rows, err := h.Enquiries.ListForCustomer(r.Context(), p.CustomerID)
	if err != nil {
		failErr(w, h.Log, err)
		return
	}
	respond(w, http.StatusOK, "Enquiries retrieved successfully", listOf("enquiries", rows))
}

package handler

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	appErrors "github.com/unclebandit/ostrich-customer-api/internal/errors"
	"github.com/unclebandit/ostrich-customer-api/internal/model"
	"github.com/unclebandit/ostrich-customer-api/internal/repository"
	"github.com/unclebandit/ostrich-customer-api/internal/service"
)

type ProfileHandler struct {
	Customers repository.CustomerRepositoryInterface
	Auth      *service.AuthService
	Log       *zap.Logger
}

func (h *ProfileHandler) Register(r chi.Router, gate Middleware) {
	r.Use(gate)
	r.Get("/", protected(h.get))
	r.Put("/", protected(h.update))
	r.Post("/set-password", protected(h.setPassword))
	r.Put("/change-password", protected(h.changePassword))
}

type profile struct {
	ID           int64  `json:"id"`
	CustomerCode string `json:"customer_code"`
	Name         any    `json:"name"`
	Phone        string `json:"phone"`
	Email        any    `json:"email"`
	CustomerType string `json:"customer_type"`
	CompanyName  any    `json:"company_name"`
	Contact      any    `json:"contact_person"`
	Address      any    `json:"address"`
	City         any    `json:"city"`
	State        any    `json:"state"`
	PinCode      any    `json:"pin_code"`
	IsVerified   bool   `json:"is_verified"`
}

func orNil(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func (h *ProfileHandler) get(w http.ResponseWriter, r *http.Request, p Principal) {
	c, err := h.Customers.GetByID(r.Context(), p.CustomerID)
	if err != nil {
		failErr(w, h.Log, err)
		return
	}
	if c == nil {
		fail(w, http.StatusNotFound, "Customer not found")
		return
	}
	respond(w, http.StatusOK, "Profile retrieved successfully", profile{
		ID:           c.ID,
		CustomerCode: c.CustomerCode,
		Name:         c.NameOrNil(),
		Phone:        c.Phone,
		Email:        orNil(c.Email),
		CustomerType: c.CustomerType,
		CompanyName:  orNil(c.CompanyName),
		Contact:      orNil(c.ContactPerson),
		Address:      orNil(c.Address),
		City:         orNil(c.City),
		State:        orNil(c.State),
		PinCode:      orNil(c.PinCode),
		IsVerified:   c.IsVerified,
	})
}

func (h *ProfileHandler) update(w http.ResponseWriter, r *http.Request, p Principal) {
	var body map[string]any
	if err := decodeJSON(r, &body); err != nil {
		failErr(w, h.Log, err)
		return
	}

	fields := map[string]string{}
	updated := []string{}
	for _, col := range model.ProfileFields {
		v, ok := body[col]
		if !ok {
			continue
		}
		s, isString := v.(string)
		if !isString {
			failErr(w, h.Log, appErrors.NewValidation("%s must be a string", col))
			return
		}
		fields[col] = strings.TrimSpace(s)
		updated = append(updated, col)
	}
	if len(updated) == 0 {
		fail(w, http.StatusBadRequest, "No valid fields to update")
		return
	}

	if err := h.Customers.UpdateProfile(r.Context(), p.CustomerID, fields); err != nil {
		failErr(w, h.Log, err)
		return
	}
	respond(w, http.StatusOK, "Profile updated successfully", map[string]any{"updated_fields": updated})
}

func (h *ProfileHandler) setPassword(w http.ResponseWriter, r *http.Request, p Principal) {
	var body struct {
		Password string `json:"password"`
	}
	if err := decodeJSON(r, &body); err != nil {
		failErr(w, h.Log, err)
		return
	}
	at, err := h.Auth.SetPassword(r.Context(), p.CustomerID, body.Password)
	if err != nil {
		failErr(w, h.Log, err)
		return
	}
	respond(w, http.StatusOK, "Password set successfully", map[string]string{"updated_at": at})
}

func (h *ProfileHandler) changePassword(w http.ResponseWriter, r *http.Request, p Principal) {
	var body struct {
		CurrentPassword string `json:"current_password"`
		NewPassword     string `json:"new_password"`
	}
	if err := decodeJSON(r, &body); err != nil {
		failErr(w, h.Log, err)
		return
	}
	at, err := h.Auth.ChangePassword(r.Context(), p.CustomerID, body.CurrentPassword, body.NewPassword)
	if err != nil {
		failErr(w, h.Log, err)
		return
	}
	respond(w, http.StatusOK, "Password changed successfully", map[string]string{"updated_at": at})
}

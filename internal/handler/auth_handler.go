package handler

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/unclebandit/ostrich-customer-api/internal/service"
)

type AuthHandler struct {
	Service *service.AuthService
	Log     *zap.Logger
}

func (h *AuthHandler) Register(r chi.Router, gate Middleware) {
	r.Post("/register", h.register)
	r.Post("/check-phone", h.checkPhone)
	r.Post("/send-otp", h.sendOTP)
	r.Post("/verify-otp", h.verifyOTP)
	r.Post("/verify-registration", h.verifyRegistration)
	r.Post("/login", h.login)
	r.Post("/forgot-password", h.forgotPassword)
	r.Post("/reset-password", h.resetPassword)
	r.With(gate).Post("/logout", protected(h.logout))
}

func (h *AuthHandler) register(w http.ResponseWriter, r *http.Request) {
	var in service.RegisterInput
	if err := decodeJSON(r, &in); err != nil {
		failErr(w, h.Log, err)
		return
	}
	res, err := h.Service.Register(r.Context(), in)
	if err != nil {
		failErr(w, h.Log, err)
		return
	}
	respond(w, http.StatusOK, "Registration successful. Please verify your phone number.", res)
}

func (h *AuthHandler) checkPhone(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Phone string `json:"phone"`
	}
	if err := decodeJSON(r, &body); err != nil {
		failErr(w, h.Log, err)
		return
	}
	res, err := h.Service.CheckPhone(r.Context(), body.Phone)
	if err != nil {
		failErr(w, h.Log, err)
		return
	}
	respond(w, http.StatusOK, "Phone check completed", res)
}

type otpBody struct {
	PhoneNumber string `json:"phone_number"`
	OTP         string `json:"otp"`
}

func (h *AuthHandler) sendOTP(w http.ResponseWriter, r *http.Request) {
	var body otpBody
	if err := decodeJSON(r, &body); err != nil {
		failErr(w, h.Log, err)
		return
	}
	res, err := h.Service.SendLoginOTP(r.Context(), body.PhoneNumber)
	if err != nil {
		failErr(w, h.Log, err)
		return
	}
	respond(w, http.StatusOK, "OTP sent successfully", res)
}

func (h *AuthHandler) verifyOTP(w http.ResponseWriter, r *http.Request) {
	var body otpBody
	if err := decodeJSON(r, &body); err != nil {
		failErr(w, h.Log, err)
		return
	}
	res, err := h.Service.VerifyLoginOTP(r.Context(), body.PhoneNumber, body.OTP)
	if err != nil {
		failErr(w, h.Log, err)
		return
	}
	respond(w, http.StatusOK, "OTP verified successfully", res)
}

func (h *AuthHandler) verifyRegistration(w http.ResponseWriter, r *http.Request) {
	var body otpBody
	if err := decodeJSON(r, &body); err != nil {
		failErr(w, h.Log, err)
		return
	}
	res, err := h.Service.VerifyRegistration(r.Context(), body.PhoneNumber, body.OTP)
	if err != nil {
		failErr(w, h.Log, err)
		return
	}
	respond(w, http.StatusOK, "Account verified successfully", res)
}

func (h *AuthHandler) login(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Username string `json:"username"`
		Phone    string `json:"phone"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeJSON(r, &body); err != nil {
		failErr(w, h.Log, err)
		return
	}
	username := body.Username
	if strings.TrimSpace(username) == "" {
		username = body.Phone
	}
	if strings.TrimSpace(username) == "" {
		username = body.Email
	}
	res, err := h.Service.Login(r.Context(), username, body.Password)
	if err != nil {
		failErr(w, h.Log, err)
		return
	}
	respond(w, http.StatusOK, "Login successful", res)
}

func (h *AuthHandler) logout(w http.ResponseWriter, r *http.Request, p Principal) {
	at, err := h.Service.Logout(r.Context(), p.Claims)
	if err != nil {
		failErr(w, h.Log, err)
		return
	}
	respond(w, http.StatusOK, "Logout successful", map[string]string{"logged_out_at": at})
}

func (h *AuthHandler) forgotPassword(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Phone string `json:"phone"`
	}
	if err := decodeJSON(r, &body); err != nil {
		failErr(w, h.Log, err)
		return
	}
	res, err := h.Service.ForgotPassword(r.Context(), body.Phone)
	if err != nil {
		failErr(w, h.Log, err)
		return
	}
	respond(w, http.StatusOK, "Password reset OTP sent successfully", res)
}

func (h *AuthHandler) resetPassword(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Phone       string `json:"phone"`
		OTP         string `json:"otp"`
		NewPassword string `json:"new_password"`
	}
	if err := decodeJSON(r, &body); err != nil {
		failErr(w, h.Log, err)
		return
	}
	at, err := h.Service.ResetPassword(r.Context(), body.Phone, body.OTP, body.NewPassword)
	if err != nil {
		failErr(w, h.Log, err)
		return
	}
	respond(w, http.StatusOK, "Password reset successfully", map[string]string{"updated_at": at})
}

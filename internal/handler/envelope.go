package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"go.uber.org/zap"

	appErrors "github.com/unclebandit/ostrich-customer-api/internal/errors"
)

// envelope is the body of every response the API writes.
type envelope struct {
	Message string `json:"message"`
	Status  bool   `json:"status"`
	Data    any    `json:"data"`
}

func respond(w http.ResponseWriter, code int, message string, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(envelope{Message: message, Status: code < http.StatusBadRequest, Data: data})
}

func fail(w http.ResponseWriter, code int, message string) {
	respond(w, code, message, nil)
}

// failErr maps an error kind to its status code. Anything unrecognised is
// logged and answered with a generic 500.
func failErr(w http.ResponseWriter, log *zap.Logger, err error) {
	var (
		ve *appErrors.ValidationError
		nf *appErrors.NotFoundError
	)
	switch {
	case errors.As(err, &ve):
		fail(w, http.StatusBadRequest, ve.Message)
	case errors.Is(err, appErrors.ErrInvalidOTP):
		fail(w, http.StatusBadRequest, "Invalid OTP")
	case errors.Is(err, appErrors.ErrInvalidCredentials):
		fail(w, http.StatusUnauthorized, "Invalid credentials")
	case errors.As(err, &nf):
		fail(w, http.StatusNotFound, nf.Error())
	case appErrors.IsUnavailable(err):
		log.Error("backing service unavailable", zap.Error(err))
		fail(w, http.StatusServiceUnavailable, "Service temporarily unavailable")
	default:
		log.Error("request failed", zap.Error(err))
		fail(w, http.StatusInternalServerError, "Internal server error")
	}
}

// decodeJSON reads the request body into v. An empty body leaves v at its
// zero value so field validation can report what is missing.
func decodeJSON(r *http.Request, v any) error {
	if r.Body == nil {
		return nil
	}
	err := json.NewDecoder(r.Body).Decode(v)
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}
	return appErrors.NewValidation("Invalid JSON body")
}

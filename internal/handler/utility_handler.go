package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/unclebandit/ostrich-customer-api/internal/auth"
	appErrors "github.com/unclebandit/ostrich-customer-api/internal/errors"
	"github.com/unclebandit/ostrich-customer-api/internal/model"
	"github.com/unclebandit/ostrich-customer-api/internal/repository"
	"github.com/unclebandit/ostrich-customer-api/internal/storage"
)

const defaultUploadBytes = 10 << 20

type UtilityHandler struct {
	Messages       auth.Deliverer
	Files          storage.FileStore
	Preferences    repository.PreferenceRepositoryInterface
	MaxUploadBytes int64
	Log            *zap.Logger
}

func (h *UtilityHandler) Register(r chi.Router, gate Middleware) {
	r.Use(gate)
	r.Post("/whatsapp/send", protected(h.sendWhatsApp))
	r.Post("/uploads", protected(h.upload))
	r.Get("/settings", protected(h.settings))
}

func (h *UtilityHandler) sendWhatsApp(w http.ResponseWriter, r *http.Request, p Principal) {
	var body struct {
		Phone   string `json:"phone"`
		Message string `json:"message"`
	}
	if err := decodeJSON(r, &body); err != nil {
		failErr(w, h.Log, err)
		return
	}
	phone, text := strings.TrimSpace(body.Phone), strings.TrimSpace(body.Message)
	if phone == "" || text == "" {
		failErr(w, h.Log, appErrors.NewValidation("Phone and message are required"))
		return
	}

	msg := model.OutboundMessage{
		ID:         uuid.NewString(),
		Channel:    model.ChannelWhatsApp,
		Phone:      phone,
		Body:       text,
		Purpose:    "customer_whatsapp",
		CustomerID: p.CustomerID,
	}
	if err := h.Messages.Deliver(r.Context(), msg); err != nil {
		failErr(w, h.Log, err)
		return
	}
	respond(w, http.StatusOK, "WhatsApp message sent", map[string]string{"reference": msg.ID})
}

func (h *UtilityHandler) upload(w http.ResponseWriter, r *http.Request, p Principal) {
	limit := h.MaxUploadBytes
	if limit <= 0 {
		limit = defaultUploadBytes
	}
	r.Body = http.MaxBytesReader(w, r.Body, limit)
	file, header, err := r.FormFile("file")
	if err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			fail(w, http.StatusRequestEntityTooLarge, "File too large")
			return
		}
		fail(w, http.StatusBadRequest, "File is required")
		return
	}
	defer file.Close()

	url, err := h.Files.Save(r.Context(), header.Filename, file)
	if err != nil {
		failErr(w, h.Log, err)
		return
	}
	h.Log.Info("file uploaded",
		zap.Int64("customer_id", p.CustomerID),
		zap.String("name", header.Filename),
		zap.Int64("size", header.Size),
	)
	respond(w, http.StatusOK, "File uploaded successfully", map[string]string{"url": url})
}

func (h *UtilityHandler) settings(w http.ResponseWriter, r *http.Request, p Principal) {
	prefs, err := h.Preferences.Get(r.Context(), p.CustomerID)
	if err != nil {
		failErr(w, h.Log, err)
		return
	}
	respond(w, http.StatusOK, "Settings retrieved successfully", map[string]bool{
		"notifications": prefs.PushNotifications,
		"sms_alerts":    prefs.SMSNotifications,
		"email_updates": prefs.EmailNotifications,
	})
}

package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/unclebandit/ostrich-customer-api/internal/db"
	"github.com/unclebandit/ostrich-customer-api/internal/repository"
)

const notificationPage = 10

type NotificationHandler struct {
	Notifications repository.NotificationRepositoryInterface
	Log           *zap.Logger
}

func (h *NotificationHandler) Register(r chi.Router, gate Middleware) {
	r.Use(gate)
	r.Get("/", protected(h.list))
	r.Get("/unread-count", protected(h.unreadCount))
	r.Put("/{id}/read", protected(h.markRead))
}

func (h *NotificationHandler) list(w http.ResponseWriter, r *http.Request, p Principal) {
	rows, err := h.Notifications.Latest(r.Context(), p.CustomerID, notificationPage)
	if err != nil {
		failErr(w, h.Log, err)
		return
	}
	if rows == nil {
		rows = []db.Row{}
	}
	respond(w, http.StatusOK, "Notifications retrieved successfully", rows)
}

func (h *NotificationHandler) markRead(w http.ResponseWriter, r *http.Request, p Principal) {
	id, ok := idParam(w, r, "id", "Notification not found")
	if !ok {
		return
	}
	found, err := h.Notifications.MarkRead(r.Context(), p.CustomerID, id)
	if err != nil {
		failErr(w, h.Log, err)
		return
	}
	if !found {
		fail(w, http.StatusNotFound, "Notification not found")
		return
	}
	respond(w, http.StatusOK, "Notification marked as read", map[string]int64{"notification_id": id})
}

func (h *NotificationHandler) unreadCount(w http.ResponseWriter, r *http.Request, p Principal) {
	n, err := h.Notifications.UnreadCount(r.Context(), p.CustomerID)
	if err != nil {
		failErr(w, h.Log, err)
		return
	}
	respond(w, http.StatusOK, "Unread count retrieved successfully", map[string]int64{"unread_count": n})
}

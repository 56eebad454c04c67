package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

func (h *Handler) listNotifications(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserID(r.Context())

	notifications, err := h.notifications.ListFor(r.Context(), userID)
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	render.JSON(w, r, notifications)
}

func (h *Handler) markNotificationRead(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserID(r.Context())

	notification, err := h.notifications.MarkRead(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	render.JSON(w, r, notification)
}

package httpapi

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/harry-torres/gbarber-backend/internal/service"
)

func (h *Handler) providerSchedule(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserID(r.Context())

	day, err := h.parseDay(r.URL.Query().Get("date"))
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	schedule, err := h.availability.ProviderSchedule(r.Context(), userID, day)
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	render.JSON(w, r, newScheduleEntries(schedule))
}

func (h *Handler) listProviders(w http.ResponseWriter, r *http.Request) {
	providers, err := h.providers.ListProviders(r.Context())
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	render.JSON(w, r, providers)
}

func (h *Handler) providerAvailability(w http.ResponseWriter, r *http.Request) {
	providerID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || providerID <= 0 {
		h.renderError(w, r, fmt.Errorf("%w: invalid provider id", service.ErrValidation))
		return
	}

	day, err := h.parseDay(r.URL.Query().Get("date"))
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	hours, err := h.availability.AvailableHours(r.Context(), providerID, day)
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	render.JSON(w, r, hours)
}

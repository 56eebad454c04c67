package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/harry-torres/gbarber-backend/internal/service"
)

type createAppointmentRequest struct {
	ProviderID int64  `json:"provider_id"`
	Date       string `json:"date"`
}

func (h *Handler) createAppointment(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserID(r.Context())

	var req createAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.renderError(w, r, fmt.Errorf("%w: decode body: %v", service.ErrValidation, err))
		return
	}
	if req.ProviderID <= 0 || req.Date == "" {
		h.renderError(w, r, fmt.Errorf("%w: provider_id and date are required", service.ErrValidation))
		return
	}

	date, err := h.parseDateTime(req.Date)
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	appointment, err := h.booking.CreateAppointment(r.Context(), userID, req.ProviderID, date)
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, appointment)
}

func (h *Handler) cancelAppointment(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserID(r.Context())

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		h.renderError(w, r, fmt.Errorf("%w: invalid appointment id", service.ErrValidation))
		return
	}

	appointment, err := h.cancellation.CancelAppointment(r.Context(), id, userID)
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	render.JSON(w, r, appointment)
}

func (h *Handler) listAppointments(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserID(r.Context())

	page := 1
	if raw := r.URL.Query().Get("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			h.renderError(w, r, fmt.Errorf("%w: invalid page", service.ErrValidation))
			return
		}
		page = n
	}

	appointments, err := h.availability.ListForCustomer(r.Context(), userID, page)
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	render.JSON(w, r, newAppointmentSummaries(appointments))
}

// parseDateTime принимает RFC3339 или локальное время без зоны
func (h *Handler) parseDateTime(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	for _, layout := range []string{"2006-01-02T15:04:05", "2006-01-02T15:04"} {
		if t, err := time.ParseInLocation(layout, value, h.location); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: invalid date %q", service.ErrValidation, value)
}

// parseDay принимает YYYY-MM-DD или полную дату
func (h *Handler) parseDay(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, fmt.Errorf("%w: date is required", service.ErrValidation)
	}
	if t, err := time.ParseInLocation(time.DateOnly, value, h.location); err == nil {
		return t, nil
	}
	return h.parseDateTime(value)
}

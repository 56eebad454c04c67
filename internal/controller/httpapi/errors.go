package httpapi

import (
	"errors"
	"net/http"

	"github.com/go-chi/render"
	"github.com/harry-torres/gbarber-backend/internal/service"
	"go.uber.org/zap"
)

type errorResponse struct {
	Error string `json:"error"`
}

// ErrorStatus возвращает HTTP статус и сообщение для пользователя
func ErrorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, service.ErrValidation):
		return http.StatusBadRequest, "Validation fails"
	case errors.Is(err, service.ErrSelfBooking):
		return http.StatusBadRequest, "You can't create appointments with yourself"
	case errors.Is(err, service.ErrInvalidProvider):
		return http.StatusBadRequest, "You can only create appointments with providers"
	case errors.Is(err, service.ErrPastDate):
		return http.StatusBadRequest, "Past dates are not permitted"
	case errors.Is(err, service.ErrSlotUnavailable):
		return http.StatusConflict, "Appointment date is not available"
	case errors.Is(err, service.ErrNotProvider):
		return http.StatusForbidden, "User is not a provider"
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden, "You don't have permission to cancel this appointment"
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound, "Not found"
	case errors.Is(err, service.ErrCancellationWindowExpired):
		return http.StatusUnprocessableEntity, "You can only cancel appointments 2 hours in advance"
	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}

func (h *Handler) renderError(w http.ResponseWriter, r *http.Request, err error) {
	status, message := ErrorStatus(err)

	if status >= http.StatusInternalServerError {
		h.logger.Error("Request failed",
			zap.String("request_id", requestID(r)),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
	}

	render.Status(r, status)
	render.JSON(w, r, errorResponse{Error: message})
}

func renderMessage(w http.ResponseWriter, r *http.Request, status int, message string) {
	render.Status(r, status)
	render.JSON(w, r, errorResponse{Error: message})
}

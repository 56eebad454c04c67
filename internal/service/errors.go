package service

import (
	"errors"
	"fmt"
)

// Ошибки бизнес-логики. HTTP слой отображает их в статус и сообщение.
var (
	ErrValidation                = errors.New("validation fails")
	ErrSelfBooking               = errors.New("you can't create appointments with yourself")
	ErrInvalidProvider           = errors.New("you can only create appointments with providers")
	ErrPastDate                  = errors.New("past dates are not permitted")
	ErrSlotUnavailable           = errors.New("appointment date is not available")
	ErrNotFound                  = errors.New("not found")
	ErrForbidden                 = errors.New("forbidden")
	ErrNotProvider               = fmt.Errorf("%w: user is not a provider", ErrForbidden)
	ErrCancellationWindowExpired = errors.New("you can only cancel appointments 2 hours in advance")
	ErrQueueUnavailable          = errors.New("job queue unavailable")
	ErrInternal                  = errors.New("internal error")
)

// internalError оборачивает ошибку хранилища в ErrInternal, сохраняя причину
func internalError(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrInternal, op, err)
}

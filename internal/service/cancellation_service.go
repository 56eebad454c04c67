package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/harry-torres/gbarber-backend/internal/model"
	"github.com/harry-torres/gbarber-backend/internal/queue"
	"go.uber.org/zap"
)

type CancellationService struct {
	tx              Transactor
	appointmentRepo AppointmentRepository
	enqueuer        Enqueuer
	clock           Clock
	logger          *zap.Logger
}

func NewCancellationService(
	tx Transactor,
	appointmentRepo AppointmentRepository,
	enqueuer Enqueuer,
	clock Clock,
	logger *zap.Logger,
) *CancellationService {
	return &CancellationService{
		tx:              tx,
		appointmentRepo: appointmentRepo,
		enqueuer:        enqueuer,
		clock:           clock,
		logger:          logger,
	}
}

// CancelAppointment отменяет запись клиента не позднее чем за 2 часа до начала
// и ставит письмо провайдеру в очередь.
func (s *CancellationService) CancelAppointment(ctx context.Context, appointmentID, requesterID int64) (*model.Appointment, error) {
	var appointment *model.Appointment

	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		a, err := s.appointmentRepo.GetForUpdate(ctx, appointmentID)
		if err != nil {
			return err
		}
		if a == nil {
			return ErrNotFound
		}
		if a.CustomerID != requesterID {
			return ErrForbidden
		}
		// Повторная отмена выглядит как отсутствующая запись и не ставит второе письмо
		if a.IsCancelled() {
			return ErrNotFound
		}

		now := s.clock()
		if !a.IsCancellable(now) {
			return ErrCancellationWindowExpired
		}

		if err := s.appointmentRepo.Cancel(ctx, a.ID, now); err != nil {
			return err
		}

		a.CancelledAt = &now
		appointment = a
		return nil
	})

	if err != nil {
		if errors.Is(err, ErrNotFound) || errors.Is(err, ErrForbidden) || errors.Is(err, ErrCancellationWindowExpired) {
			return nil, err
		}
		s.logger.Error("Failed to cancel appointment",
			zap.Int64("appointment_id", appointmentID),
			zap.Error(err),
		)
		return nil, internalError("cancel appointment", err)
	}

	s.logger.Info("Appointment cancelled",
		zap.Int64("appointment_id", appointment.ID),
		zap.Int64("customer_id", requesterID),
		zap.Int64("provider_id", appointment.ProviderID),
	)

	s.enqueueCancellationMail(ctx, appointment)

	return appointment, nil
}

// enqueueCancellationMail ставит письмо после коммита; отмена при ошибке не откатывается
func (s *CancellationService) enqueueCancellationMail(ctx context.Context, appointment *model.Appointment) {
	jobID, err := s.enqueuer.Enqueue(ctx, queue.TypeCancellationMail, queue.NewCancellationMailPayload(appointment))
	if err != nil {
		s.logger.Error("Failed to enqueue cancellation mail",
			zap.Int64("appointment_id", appointment.ID),
			zap.Error(fmt.Errorf("%w: %w", ErrQueueUnavailable, err)),
		)
		return
	}

	s.logger.Debug("Cancellation mail enqueued",
		zap.Int64("appointment_id", appointment.ID),
		zap.String("job_id", jobID.String()),
	)
}

package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/harry-torres/gbarber-backend/internal/formatting"
	"github.com/harry-torres/gbarber-backend/internal/model"
	"github.com/harry-torres/gbarber-backend/internal/repository"
	"go.uber.org/zap"
)

// ProviderNotifier добавляет уведомление в ленту провайдера
type ProviderNotifier interface {
	Append(ctx context.Context, recipientID int64, content string) (*model.Notification, error)
}

type BookingService struct {
	tx              Transactor
	appointmentRepo AppointmentRepository
	userRepo        UserRepository
	notifier        ProviderNotifier
	clock           Clock
	location        *time.Location
	logger          *zap.Logger
}

func NewBookingService(
	tx Transactor,
	appointmentRepo AppointmentRepository,
	userRepo UserRepository,
	notifier ProviderNotifier,
	clock Clock,
	location *time.Location,
	logger *zap.Logger,
) *BookingService {
	return &BookingService{
		tx:              tx,
		appointmentRepo: appointmentRepo,
		userRepo:        userRepo,
		notifier:        notifier,
		clock:           clock,
		location:        location,
		logger:          logger,
	}
}

// CreateAppointment бронирует часовой слот провайдера для клиента.
// requestedAt переводится в часовой пояс сервиса и округляется вниз до начала часа,
// поэтому слоты всех клиентов выровнены одинаково независимо от смещения в запросе.
func (s *BookingService) CreateAppointment(ctx context.Context, customerID, providerID int64, requestedAt time.Time) (*model.Appointment, error) {
	if providerID == customerID {
		return nil, ErrSelfBooking
	}

	provider, err := s.userRepo.GetByID(ctx, providerID)
	if err != nil {
		s.logger.Error("Failed to get provider", zap.Int64("provider_id", providerID), zap.Error(err))
		return nil, internalError("get provider", err)
	}
	if !provider.HasProviderCapability() {
		return nil, ErrInvalidProvider
	}

	slot := model.StartOfHour(requestedAt.In(s.location))
	if !slot.After(s.clock()) {
		return nil, ErrPastDate
	}

	appointment := &model.Appointment{
		CustomerID:  customerID,
		ProviderID:  providerID,
		ScheduledAt: slot,
	}

	// Проверка и вставка сериализуются блокировкой слота внутри одной транзакции
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.appointmentRepo.LockSlot(ctx, providerID, slot); err != nil {
			return err
		}

		booked, err := s.appointmentRepo.IsBooked(ctx, providerID, slot)
		if err != nil {
			return err
		}
		if booked {
			return ErrSlotUnavailable
		}

		if err := s.appointmentRepo.Create(ctx, appointment); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return ErrSlotUnavailable
			}
			return err
		}
		return nil
	})

	if err != nil {
		if errors.Is(err, ErrSlotUnavailable) {
			return nil, err
		}
		s.logger.Error("Failed to create appointment",
			zap.Int64("customer_id", customerID),
			zap.Int64("provider_id", providerID),
			zap.Time("slot", slot),
			zap.Error(err),
		)
		return nil, internalError("create appointment", err)
	}

	s.logger.Info("Appointment booked",
		zap.Int64("appointment_id", appointment.ID),
		zap.Int64("customer_id", customerID),
		zap.Int64("provider_id", providerID),
		zap.Time("slot", slot),
	)

	appointment.Provider = provider
	s.notifyProvider(ctx, appointment)

	return appointment, nil
}

// notifyProvider пишет уведомление о новой записи. Ошибка только логируется.
func (s *BookingService) notifyProvider(ctx context.Context, appointment *model.Appointment) {
	customer, err := s.userRepo.GetByID(ctx, appointment.CustomerID)
	if err != nil || customer == nil {
		s.logger.Warn("Skipping provider notification: customer not loaded",
			zap.Int64("appointment_id", appointment.ID),
			zap.Error(err),
		)
		return
	}

	content := fmt.Sprintf("New appointment of %s at %s",
		customer.Name,
		formatting.FormatSlot(appointment.ScheduledAt),
	)

	if _, err := s.notifier.Append(ctx, appointment.ProviderID, content); err != nil {
		s.logger.Warn("Failed to notify provider",
			zap.Int64("appointment_id", appointment.ID),
			zap.Int64("provider_id", appointment.ProviderID),
			zap.Error(err),
		)
	}
}

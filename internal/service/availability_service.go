package service

import (
	"context"
	"time"

	"github.com/harry-torres/gbarber-backend/internal/formatting"
	"github.com/harry-torres/gbarber-backend/internal/model"
	"go.uber.org/zap"
)

const (
	// AppointmentsPageSize размер страницы списка записей клиента
	AppointmentsPageSize = 20

	firstWorkingHour = 8
	lastWorkingHour  = 19
)

// CustomerAppointment запись клиента с вычисляемыми флагами
type CustomerAppointment struct {
	*model.Appointment
	Past        bool `json:"past"`
	Cancellable bool `json:"cancellable"`
}

// HourAvailability доступность часового слота провайдера
type HourAvailability struct {
	Time      string    `json:"time"`
	Value     time.Time `json:"value"`
	Available bool      `json:"available"`
}

type AvailabilityService struct {
	appointmentRepo AppointmentRepository
	userRepo        UserRepository
	clock           Clock
	location        *time.Location
	logger          *zap.Logger
}

func NewAvailabilityService(
	appointmentRepo AppointmentRepository,
	userRepo UserRepository,
	clock Clock,
	location *time.Location,
	logger *zap.Logger,
) *AvailabilityService {
	return &AvailabilityService{
		appointmentRepo: appointmentRepo,
		userRepo:        userRepo,
		clock:           clock,
		location:        location,
		logger:          logger,
	}
}

// IsBooked проверяет занят ли слот провайдера активной записью
func (s *AvailabilityService) IsBooked(ctx context.Context, providerID int64, slot time.Time) (bool, error) {
	booked, err := s.appointmentRepo.IsBooked(ctx, providerID, model.StartOfHour(slot.In(s.location)))
	if err != nil {
		return false, internalError("check slot", err)
	}
	return booked, nil
}

// ListForDay возвращает активные записи провайдера за день по возрастанию времени
func (s *AvailabilityService) ListForDay(ctx context.Context, providerID int64, day time.Time) ([]*model.Appointment, error) {
	day = day.In(s.location)
	appointments, err := s.appointmentRepo.ListByProviderBetween(ctx, providerID,
		formatting.StartOfDay(day),
		formatting.EndOfDay(day),
	)
	if err != nil {
		s.logger.Error("Failed to list provider day",
			zap.Int64("provider_id", providerID),
			zap.Time("day", day),
			zap.Error(err),
		)
		return nil, internalError("list provider day", err)
	}
	if appointments == nil {
		appointments = []*model.Appointment{}
	}
	return appointments, nil
}

// ProviderSchedule расписание запрашивающего провайдера на день
func (s *AvailabilityService) ProviderSchedule(ctx context.Context, requesterID int64, day time.Time) ([]*model.Appointment, error) {
	if _, err := requireProvider(ctx, s.userRepo, requesterID); err != nil {
		return nil, err
	}
	return s.ListForDay(ctx, requesterID, day)
}

// ListForCustomer возвращает страницу активных записей клиента по возрастанию даты.
// Страницы нумеруются с 1, меньшие значения считаются первой страницей.
func (s *AvailabilityService) ListForCustomer(ctx context.Context, customerID int64, page int) ([]CustomerAppointment, error) {
	if page < 1 {
		page = 1
	}

	appointments, err := s.appointmentRepo.ListByCustomer(ctx, customerID,
		AppointmentsPageSize,
		(page-1)*AppointmentsPageSize,
	)
	if err != nil {
		s.logger.Error("Failed to list customer appointments",
			zap.Int64("customer_id", customerID),
			zap.Int("page", page),
			zap.Error(err),
		)
		return nil, internalError("list customer appointments", err)
	}

	now := s.clock()
	result := make([]CustomerAppointment, 0, len(appointments))
	for _, a := range appointments {
		result = append(result, CustomerAppointment{
			Appointment: a,
			Past:        a.IsPast(now),
			Cancellable: a.IsCancellable(now),
		})
	}

	return result, nil
}

// AvailableHours возвращает рабочие часы провайдера на день с отметкой доступности
func (s *AvailabilityService) AvailableHours(ctx context.Context, providerID int64, day time.Time) ([]HourAvailability, error) {
	provider, err := s.userRepo.GetByID(ctx, providerID)
	if err != nil {
		return nil, internalError("get provider", err)
	}
	if !provider.HasProviderCapability() {
		return nil, ErrInvalidProvider
	}

	start := formatting.StartOfDay(day.In(s.location))
	booked, err := s.appointmentRepo.BookedSlots(ctx, providerID, start, start.AddDate(0, 0, 1))
	if err != nil {
		return nil, internalError("get booked slots", err)
	}

	taken := make(map[int64]struct{}, len(booked))
	for _, b := range booked {
		taken[b.Unix()] = struct{}{}
	}

	now := s.clock()
	hours := make([]HourAvailability, 0, lastWorkingHour-firstWorkingHour+1)
	for h := firstWorkingHour; h <= lastWorkingHour; h++ {
		slot := time.Date(start.Year(), start.Month(), start.Day(), h, 0, 0, 0, start.Location())
		_, isTaken := taken[slot.Unix()]

		hours = append(hours, HourAvailability{
			Time:      formatting.FormatHour(slot),
			Value:     slot,
			Available: slot.After(now) && !isTaken,
		})
	}

	return hours, nil
}

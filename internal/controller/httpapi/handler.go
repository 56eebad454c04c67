package httpapi

import (
	"context"
	"time"

	"github.com/harry-torres/gbarber-backend/internal/model"
	"github.com/harry-torres/gbarber-backend/internal/service"
	"go.uber.org/zap"
)

type Booking interface {
	CreateAppointment(ctx context.Context, customerID, providerID int64, requestedAt time.Time) (*model.Appointment, error)
}

type Cancellation interface {
	CancelAppointment(ctx context.Context, appointmentID, requesterID int64) (*model.Appointment, error)
}

type Availability interface {
	ListForCustomer(ctx context.Context, customerID int64, page int) ([]service.CustomerAppointment, error)
	ProviderSchedule(ctx context.Context, requesterID int64, day time.Time) ([]*model.Appointment, error)
	AvailableHours(ctx context.Context, providerID int64, day time.Time) ([]service.HourAvailability, error)
}

type Notifications interface {
	ListFor(ctx context.Context, requesterID int64) ([]*model.Notification, error)
	MarkRead(ctx context.Context, requesterID int64, id string) (*model.Notification, error)
}

type Providers interface {
	ListProviders(ctx context.Context) ([]*model.User, error)
}

// Handler HTTP обработчики операций записи
type Handler struct {
	booking       Booking
	cancellation  Cancellation
	availability  Availability
	notifications Notifications
	providers     Providers
	location      *time.Location
	logger        *zap.Logger
}

// Services зависимости обработчиков
type Services struct {
	Booking       Booking
	Cancellation  Cancellation
	Availability  Availability
	Notifications Notifications
	Providers     Providers
}

// NewHandler создаёт обработчики. location используется для дат без часового пояса.
func NewHandler(services Services, location *time.Location, logger *zap.Logger) *Handler {
	if location == nil {
		location = time.Local
	}
	return &Handler{
		booking:       services.Booking,
		cancellation:  services.Cancellation,
		availability:  services.Availability,
		notifications: services.Notifications,
		providers:     services.Providers,
		location:      location,
		logger:        logger,
	}
}

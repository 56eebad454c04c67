package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/harry-torres/gbarber-backend/internal/model"
)

// Clock источник текущего времени
type Clock func() time.Time

// Transactor выполняет fn в одной транзакции
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type AppointmentRepository interface {
	LockSlot(ctx context.Context, providerID int64, slot time.Time) error
	IsBooked(ctx context.Context, providerID int64, slot time.Time) (bool, error)
	BookedSlots(ctx context.Context, providerID int64, from, to time.Time) ([]time.Time, error)
	Create(ctx context.Context, appointment *model.Appointment) error
	GetForUpdate(ctx context.Context, id int64) (*model.Appointment, error)
	Cancel(ctx context.Context, id int64, at time.Time) error
	ListByCustomer(ctx context.Context, customerID int64, limit, offset int) ([]*model.Appointment, error)
	ListByProviderBetween(ctx context.Context, providerID int64, from, to time.Time) ([]*model.Appointment, error)
}

type UserRepository interface {
	GetByID(ctx context.Context, id int64) (*model.User, error)
	ListProviders(ctx context.Context) ([]*model.User, error)
}

type NotificationRepository interface {
	Create(ctx context.Context, notification *model.Notification) error
	ListByRecipient(ctx context.Context, recipientID int64, limit int) ([]*model.Notification, error)
	MarkRead(ctx context.Context, id string, recipientID int64, now time.Time) (*model.Notification, error)
}

// Enqueuer ставит фоновые задачи
type Enqueuer interface {
	Enqueue(ctx context.Context, jobType string, payload any) (uuid.UUID, error)
}

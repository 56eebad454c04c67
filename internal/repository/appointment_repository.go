package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/harry-torres/gbarber-backend/internal/model"
	"github.com/harry-torres/gbarber-backend/internal/repository/base"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type AppointmentRepository struct {
	*base.Repository
	appURL string
}

func NewAppointmentRepository(pool *pgxpool.Pool, appURL string) *AppointmentRepository {
	return &AppointmentRepository{
		Repository: base.NewRepository(pool),
		appURL:     appURL,
	}
}

// LockSlot берёт advisory lock на пару (провайдер, слот) до конца транзакции.
// Вызывать только внутри TxManager.WithinTx.
func (r *AppointmentRepository) LockSlot(ctx context.Context, providerID int64, slot time.Time) error {
	key := fmt.Sprintf("appointment:%d:%d", providerID, slot.Unix())

	if _, err := r.Conn(ctx).Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, key); err != nil {
		return fmt.Errorf("lock slot: %w", err)
	}
	return nil
}

// IsBooked проверяет есть ли активная запись на слот
func (r *AppointmentRepository) IsBooked(ctx context.Context, providerID int64, slot time.Time) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM appointments
			WHERE provider_id = $1 AND scheduled_at = $2 AND cancelled_at IS NULL
		)
	`

	var booked bool
	if err := r.QueryRow(ctx, query, providerID, slot).Scan(&booked); err != nil {
		return false, fmt.Errorf("check slot: %w", err)
	}
	return booked, nil
}

// BookedSlots возвращает занятые слоты провайдера в интервале [from, to)
func (r *AppointmentRepository) BookedSlots(ctx context.Context, providerID int64, from, to time.Time) ([]time.Time, error) {
	query := `
		SELECT scheduled_at
		FROM appointments
		WHERE provider_id = $1 AND cancelled_at IS NULL
		  AND scheduled_at >= $2 AND scheduled_at < $3
		ORDER BY scheduled_at
	`

	rows, err := r.Query(ctx, query, providerID, from, to)
	if err != nil {
		return nil, fmt.Errorf("get booked slots: %w", err)
	}

	slots, err := pgx.CollectRows(rows, pgx.RowTo[time.Time])
	if err != nil {
		return nil, fmt.Errorf("scan booked slots: %w", err)
	}
	return slots, nil
}

// Create создаёт запись. Возвращает ErrDuplicate если слот уже занят.
func (r *AppointmentRepository) Create(ctx context.Context, appointment *model.Appointment) error {
	query := `
		INSERT INTO appointments (user_id, provider_id, scheduled_at)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`

	err := r.QueryRow(
		ctx, query,
		appointment.CustomerID,
		appointment.ProviderID,
		appointment.ScheduledAt,
	).Scan(&appointment.ID, &appointment.CreatedAt)

	if err != nil {
		if base.IsUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("create appointment: %w", err)
	}

	return nil
}

// GetForUpdate получает запись вместе с провайдером и клиентом и блокирует строку
func (r *AppointmentRepository) GetForUpdate(ctx context.Context, id int64) (*model.Appointment, error) {
	query := `
		SELECT a.id, a.user_id, a.provider_id, a.scheduled_at, a.cancelled_at, a.created_at,
		       p.name, p.email, p.telegram_chat_id,
		       c.name, c.email
		FROM appointments a
		JOIN users p ON p.id = a.provider_id
		JOIN users c ON c.id = a.user_id
		WHERE a.id = $1
		FOR UPDATE OF a
	`

	var (
		a        model.Appointment
		provider model.User
		customer model.User
	)
	err := r.QueryRow(ctx, query, id).Scan(
		&a.ID,
		&a.CustomerID,
		&a.ProviderID,
		&a.ScheduledAt,
		&a.CancelledAt,
		&a.CreatedAt,
		&provider.Name,
		&provider.Email,
		&provider.TelegramChatID,
		&customer.Name,
		&customer.Email,
	)

	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get appointment for update: %w", err)
	}

	provider.ID = a.ProviderID
	provider.IsProvider = true
	customer.ID = a.CustomerID
	a.Provider = &provider
	a.Customer = &customer

	return &a, nil
}

// Cancel помечает запись отменённой
func (r *AppointmentRepository) Cancel(ctx context.Context, id int64, at time.Time) error {
	affected, err := r.ExecAffected(ctx,
		`UPDATE appointments SET cancelled_at = $1 WHERE id = $2 AND cancelled_at IS NULL`,
		at, id,
	)
	if err != nil {
		return fmt.Errorf("cancel appointment: %w", err)
	}

	if affected == 0 {
		return fmt.Errorf("appointment %d not found or already cancelled", id)
	}

	return nil
}

// ListByCustomer получает активные записи клиента по возрастанию даты с провайдером и аватаром
func (r *AppointmentRepository) ListByCustomer(ctx context.Context, customerID int64, limit, offset int) ([]*model.Appointment, error) {
	query := `
		SELECT a.id, a.user_id, a.provider_id, a.scheduled_at, a.created_at,
		       p.name, f.id, f.path
		FROM appointments a
		JOIN users p ON p.id = a.provider_id
		LEFT JOIN files f ON f.id = p.avatar_id
		WHERE a.user_id = $1 AND a.cancelled_at IS NULL
		ORDER BY a.scheduled_at, a.id
		LIMIT $2 OFFSET $3
	`

	rows, err := r.Query(ctx, query, customerID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("get customer appointments: %w", err)
	}
	defer rows.Close()

	var appointments []*model.Appointment
	for rows.Next() {
		var (
			a          model.Appointment
			provider   model.User
			avatarID   *int64
			avatarPath *string
		)
		err := rows.Scan(
			&a.ID,
			&a.CustomerID,
			&a.ProviderID,
			&a.ScheduledAt,
			&a.CreatedAt,
			&provider.Name,
			&avatarID,
			&avatarPath,
		)
		if err != nil {
			return nil, fmt.Errorf("scan customer appointment: %w", err)
		}

		provider.ID = a.ProviderID
		provider.IsProvider = true
		if avatarID != nil && avatarPath != nil {
			provider.Avatar = newFile(r.appURL, *avatarID, *avatarPath)
		}
		a.Provider = &provider

		appointments = append(appointments, &a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate customer appointments: %w", err)
	}

	return appointments, nil
}

// ListByProviderBetween получает активные записи провайдера в интервале [from, to] с именем клиента
func (r *AppointmentRepository) ListByProviderBetween(ctx context.Context, providerID int64, from, to time.Time) ([]*model.Appointment, error) {
	query := `
		SELECT a.id, a.user_id, a.provider_id, a.scheduled_at, a.created_at, c.name
		FROM appointments a
		JOIN users c ON c.id = a.user_id
		WHERE a.provider_id = $1 AND a.cancelled_at IS NULL
		  AND a.scheduled_at BETWEEN $2 AND $3
		ORDER BY a.scheduled_at
	`

	rows, err := r.Query(ctx, query, providerID, from, to)
	if err != nil {
		return nil, fmt.Errorf("get provider schedule: %w", err)
	}
	defer rows.Close()

	var appointments []*model.Appointment
	for rows.Next() {
		var (
			a        model.Appointment
			customer model.User
		)
		err := rows.Scan(
			&a.ID,
			&a.CustomerID,
			&a.ProviderID,
			&a.ScheduledAt,
			&a.CreatedAt,
			&customer.Name,
		)
		if err != nil {
			return nil, fmt.Errorf("scan schedule entry: %w", err)
		}

		customer.ID = a.CustomerID
		a.Customer = &customer
		appointments = append(appointments, &a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate provider schedule: %w", err)
	}

	return appointments, nil
}

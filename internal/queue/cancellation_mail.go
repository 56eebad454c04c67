package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/harry-torres/gbarber-backend/internal/formatting"
	"github.com/harry-torres/gbarber-backend/internal/mail"
	"github.com/harry-torres/gbarber-backend/internal/model"
	"go.uber.org/zap"
)

// TypeCancellationMail тип задачи письма об отмене записи
const TypeCancellationMail = "cancellation-mail"

// CancellationMailPayload снимок отменённой записи на момент отмены
type CancellationMailPayload struct {
	AppointmentID int64     `json:"appointment_id"`
	ScheduledAt   time.Time `json:"date"`
	CancelledAt   time.Time `json:"canceled_at"`
	Provider      Person    `json:"provider"`
	Customer      Person    `json:"user"`
}

type Person struct {
	ID             int64  `json:"id"`
	Name           string `json:"name"`
	Email          string `json:"email,omitempty"`
	TelegramChatID *int64 `json:"telegram_chat_id,omitempty"`
}

// NewCancellationMailPayload собирает payload из записи с заполненными Provider и Customer
func NewCancellationMailPayload(a *model.Appointment) CancellationMailPayload {
	p := CancellationMailPayload{
		AppointmentID: a.ID,
		ScheduledAt:   a.ScheduledAt,
	}
	if a.CancelledAt != nil {
		p.CancelledAt = *a.CancelledAt
	}
	if a.Provider != nil {
		p.Provider = Person{
			ID:             a.Provider.ID,
			Name:           a.Provider.Name,
			Email:          a.Provider.Email,
			TelegramChatID: a.Provider.TelegramChatID,
		}
	}
	if a.Customer != nil {
		p.Customer = Person{ID: a.Customer.ID, Name: a.Customer.Name}
	}
	return p
}

// NewCancellationMailHandler отправляет провайдеру письмо об отмене
func NewCancellationMailHandler(dispatcher mail.Dispatcher, logger *zap.Logger) Handler {
	return func(ctx context.Context, job *model.Job) error {
		var payload CancellationMailPayload
		if err := json.Unmarshal(job.Payload, &payload); err != nil {
			return Permanent(fmt.Errorf("decode payload: %w", err))
		}
		if payload.Provider.Email == "" {
			return Permanent(fmt.Errorf("appointment %d: provider email is empty", payload.AppointmentID))
		}

		msg := mail.Message{
			To: mail.Recipient{
				Name:           payload.Provider.Name,
				Email:          payload.Provider.Email,
				TelegramChatID: payload.Provider.TelegramChatID,
			},
			Subject:  "Appointment Cancelled!",
			Template: "cancellation",
			Context: map[string]string{
				"provider": payload.Provider.Name,
				"user":     payload.Customer.Name,
				"date":     formatting.FormatSlot(payload.ScheduledAt),
			},
		}

		if err := dispatcher.Send(ctx, msg); err != nil {
			if errors.Is(err, mail.ErrNoTelegramChat) {
				return Permanent(err)
			}
			return fmt.Errorf("dispatch via %s: %w", dispatcher.Name(), err)
		}

		logger.Info("Cancellation mail sent",
			zap.Int64("appointment_id", payload.AppointmentID),
			zap.String("to", msg.To.Address()),
			zap.String("transport", dispatcher.Name()),
		)
		return nil
	}
}

package model

import "time"

// CancellationLeadTime минимальный запас времени до начала записи для отмены
const CancellationLeadTime = 2 * time.Hour

type Appointment struct {
	ID          int64      `json:"id"`
	CustomerID  int64      `json:"user_id"`
	ProviderID  int64      `json:"provider_id"`
	ScheduledAt time.Time  `json:"date"`
	CancelledAt *time.Time `json:"canceled_at"`
	CreatedAt   time.Time  `json:"created_at"`

	// Дополнительные поля для удобства (не из БД)
	Provider *User `json:"provider,omitempty"`
	Customer *User `json:"user,omitempty"`
}

// IsCancelled возвращает true если запись уже отменена
func (a *Appointment) IsCancelled() bool {
	return a.CancelledAt != nil
}

// IsPast возвращает true если время записи уже прошло
func (a *Appointment) IsPast(now time.Time) bool {
	return a.ScheduledAt.Before(now)
}

// IsCancellable возвращает true если до начала больше CancellationLeadTime
func (a *Appointment) IsCancellable(now time.Time) bool {
	return now.Before(a.ScheduledAt.Add(-CancellationLeadTime))
}

// StartOfHour округляет время вниз до начала часа в его часовом поясе
func StartOfHour(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), 0, 0, 0, t.Location())
}

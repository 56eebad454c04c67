package httpapi

import (
	"time"

	"github.com/harry-torres/gbarber-backend/internal/model"
	"github.com/harry-torres/gbarber-backend/internal/service"
)

type providerSummary struct {
	ID     int64       `json:"id"`
	Name   string      `json:"name"`
	Avatar *model.File `json:"avatar"`
}

// appointmentSummary запись в списке клиента
type appointmentSummary struct {
	ID          int64           `json:"id"`
	Date        time.Time       `json:"date"`
	Past        bool            `json:"past"`
	Cancellable bool            `json:"cancellable"`
	Provider    providerSummary `json:"provider"`
}

// scheduleEntry запись в расписании провайдера
type scheduleEntry struct {
	ID           int64     `json:"id"`
	Date         time.Time `json:"date"`
	CustomerName string    `json:"customerName"`
}

func newAppointmentSummaries(items []service.CustomerAppointment) []appointmentSummary {
	out := make([]appointmentSummary, 0, len(items))
	for _, item := range items {
		summary := appointmentSummary{
			ID:          item.ID,
			Date:        item.ScheduledAt,
			Past:        item.Past,
			Cancellable: item.Cancellable,
			Provider:    providerSummary{ID: item.ProviderID},
		}
		if p := item.Provider; p != nil {
			summary.Provider.Name = p.Name
			summary.Provider.Avatar = p.Avatar
		}
		out = append(out, summary)
	}
	return out
}

func newScheduleEntries(appointments []*model.Appointment) []scheduleEntry {
	out := make([]scheduleEntry, 0, len(appointments))
	for _, a := range appointments {
		entry := scheduleEntry{ID: a.ID, Date: a.ScheduledAt}
		if a.Customer != nil {
			entry.CustomerName = a.Customer.Name
		}
		out = append(out, entry)
	}
	return out
}

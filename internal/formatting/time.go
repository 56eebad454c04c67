package formatting

import (
	"fmt"
	"time"
)

// FormatSlot форматирует время записи для уведомлений: "January 10th, 10:00 AM"
func FormatSlot(t time.Time) string {
	return fmt.Sprintf("%s %s, %d:%02d %s",
		t.Month(),
		Ordinal(t.Day()),
		t.Hour(),
		t.Minute(),
		t.Format("PM"),
	)
}

// FormatHour форматирует час слота в виде "08:00"
func FormatHour(t time.Time) string {
	return t.Format("15:04")
}

// FormatDate форматирует дату для запросов API
func FormatDate(t time.Time) string {
	return t.Format(time.DateOnly)
}

// Ordinal возвращает число с английским суффиксом: 1st, 2nd, 3rd, 11th
func Ordinal(n int) string {
	suffix := "th"
	switch n % 100 {
	case 11, 12, 13:
	default:
		switch n % 10 {
		case 1:
			suffix = "st"
		case 2:
			suffix = "nd"
		case 3:
			suffix = "rd"
		}
	}
	return fmt.Sprintf("%d%s", n, suffix)
}

// StartOfDay возвращает полночь дня t в его часовом поясе
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// EndOfDay возвращает последний момент дня t
func EndOfDay(t time.Time) time.Time {
	return StartOfDay(t).AddDate(0, 0, 1).Add(-time.Nanosecond)
}

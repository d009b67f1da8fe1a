package domain

import "time"

// SlotIntervalMinutes шаг сетки слотов. Не зависит от длительности меню.
const SlotIntervalMinutes = 30

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// Business validation constants
const (
	MaxCustomerNameLength = 100
	MaxAdminNoteLength    = 1000
	MaxListLimit          = 200
	DefaultListLimit      = 50
)

// StartOfDay полночь даты t в часовом поясе t
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

package domain

import "time"

// Ключи таблицы system_settings
const (
	SettingTimezone            = "timezone"
	SettingDefaultLanguage     = "default_language"
	SettingReminderEnabled     = "reminder_enabled"
	SettingCancelDeadlineHours = "cancel_deadline_hours"
	SettingBookingRangeDays    = "booking_range_days"
)

// KnownSettings все ключи, которые можно менять через API
var KnownSettings = []string{
	SettingTimezone,
	SettingDefaultLanguage,
	SettingReminderEnabled,
	SettingCancelDeadlineHours,
	SettingBookingRangeDays,
}

// Settings бизнес-настройки, разрешенные на момент запроса
type Settings struct {
	Location            *time.Location
	DefaultLanguage     string
	ReminderEnabled     bool
	CancelDeadlineHours int
	BookingRangeDays    int // 0 = без ограничения
}

// CancelDeadline последний момент, когда клиент может отменить бронирование.
// Отмена допустима строго раньше этого момента.
func (s Settings) CancelDeadline(start time.Time) time.Time {
	return start.Add(-time.Duration(s.CancelDeadlineHours) * time.Hour)
}

// LastBookableDate последняя дата (в часовом поясе салона), доступная для записи
func (s Settings) LastBookableDate(now time.Time) (time.Time, bool) {
	if s.BookingRangeDays <= 0 {
		return time.Time{}, false
	}
	today := StartOfDay(now.In(s.Location))
	return today.AddDate(0, 0, s.BookingRangeDays), true
}

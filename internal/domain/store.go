package domain

import (
	"time"

	"github.com/totalboostmarketing/reservation-system/pkg/types"
)

// Store салон
type Store struct {
	ID       int64
	Name     string
	Address  string
	Phone    string
	Email    string
	BedCount int
	IsActive bool
}

// BusinessHour режим работы салона в конкретный день недели
type BusinessHour struct {
	StoreID   int64
	DayOfWeek time.Weekday // 0 = воскресенье
	OpenTime  types.TimeOfDay
	CloseTime types.TimeOfDay
	IsOpen    bool
}

// Contains проверяет, что интервал [start, end) (в минутах) укладывается в рабочие часы
func (b *BusinessHour) Contains(start types.TimeOfDay, durationMinutes int) bool {
	if !b.IsOpen {
		return false
	}
	return start >= b.OpenTime && start.Minutes()+durationMinutes <= b.CloseTime.Minutes()
}

// Holiday выходной день салона
type Holiday struct {
	ID      int64
	StoreID int64
	Date    time.Time
	Reason  *string
}

// Staff мастер салона
type Staff struct {
	ID           int64
	StoreID      int64
	Name         string
	IsActive     bool
	DisplayOrder int
}

// Menu услуга
type Menu struct {
	ID           int64
	Name         string
	Price        int64   // без налога
	TaxRate      float64 // доля, например 0.1
	Duration     int     // минуты
	BufferBefore int
	BufferAfter  int
	IsActive     bool
}

// EffectiveDuration время, на которое занят мастер: услуга плюс буферы
func (m *Menu) EffectiveDuration() int {
	return m.Duration + m.BufferBefore + m.BufferAfter
}

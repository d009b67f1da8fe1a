package get_availability

import (
	"context"
	"time"

	"github.com/totalboostmarketing/reservation-system/internal/domain"
)

// StoreRepository интерфейс репозитория салонов
type StoreRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Store, error)
	GetBusinessHour(ctx context.Context, storeID int64, day time.Weekday) (*domain.BusinessHour, error)
	IsHoliday(ctx context.Context, storeID int64, date time.Time) (bool, error)
	ListActiveStaff(ctx context.Context, storeID int64) ([]*domain.Staff, error)
	GetStaff(ctx context.Context, id int64) (*domain.Staff, error)
}

// MenuRepository интерфейс репозитория меню
type MenuRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Menu, error)
}

// ReservationRepository интерфейс репозитория бронирований
type ReservationRepository interface {
	ListOccupying(ctx context.Context, storeID int64, from, to time.Time, excludeID *int64) ([]*domain.Reservation, error)
}

// SettingsProvider источник бизнес-настроек
type SettingsProvider interface {
	Resolve(ctx context.Context) (domain.Settings, error)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}

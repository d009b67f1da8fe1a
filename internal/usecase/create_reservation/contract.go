package create_reservation

import (
	"context"
	"time"

	"github.com/totalboostmarketing/reservation-system/internal/domain"
	"github.com/totalboostmarketing/reservation-system/internal/integrations/notifications"
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
	Create(ctx context.Context, reservation *domain.Reservation) (*domain.Reservation, error)
	ListOccupying(ctx context.Context, storeID int64, from, to time.Time, excludeID *int64) ([]*domain.Reservation, error)
	InsertAuditLog(ctx context.Context, entry *domain.AuditLog) error
}

// DiscountRepository интерфейс репозитория купонов и кампаний
type DiscountRepository interface {
	GetCouponByCode(ctx context.Context, code string) (*domain.Coupon, error)
	RedeemCoupon(ctx context.Context, couponID int64) (bool, error)
	ListActiveCampaigns(ctx context.Context, now time.Time) ([]*domain.Campaign, error)
}

// SettingsProvider источник бизнес-настроек
type SettingsProvider interface {
	Resolve(ctx context.Context) (domain.Settings, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Notifier публикует уведомления по бронированию
type Notifier interface {
	Publish(ctx context.Context, eventType notifications.EventType, reservation *domain.Reservation) error
}

// Metrics бизнес-метрики
type Metrics interface {
	IncReservationCreated(channel string)
	IncCouponRedemption(result string)
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

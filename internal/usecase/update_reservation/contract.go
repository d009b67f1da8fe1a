package update_reservation

import (
	"context"
	"time"

	"github.com/totalboostmarketing/reservation-system/internal/domain"
	"github.com/totalboostmarketing/reservation-system/internal/integrations/notifications"
)

// ReservationRepository интерфейс репозитория бронирований
type ReservationRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Reservation, error)
	ListOccupying(ctx context.Context, storeID int64, from, to time.Time, excludeID *int64) ([]*domain.Reservation, error)
	Update(ctx context.Context, reservation *domain.Reservation) error
	InsertAuditLog(ctx context.Context, entry *domain.AuditLog) error
}

// StoreRepository интерфейс для проверки мастера
type StoreRepository interface {
	GetStaff(ctx context.Context, id int64) (*domain.Staff, error)
}

// MenuRepository интерфейс репозитория меню
type MenuRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Menu, error)
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
	IncReservationCancelled(actor string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

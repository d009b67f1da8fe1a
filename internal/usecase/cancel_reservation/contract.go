package cancel_reservation

import (
	"context"
	"time"

	"github.com/totalboostmarketing/reservation-system/internal/domain"
	"github.com/totalboostmarketing/reservation-system/internal/integrations/notifications"
)

// ReservationRepository интерфейс репозитория бронирований
type ReservationRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Reservation, error)
	Update(ctx context.Context, reservation *domain.Reservation) error
	InsertAuditLog(ctx context.Context, entry *domain.AuditLog) error
}

// SettingsProvider источник бизнес-настроек
type SettingsProvider interface {
	Resolve(ctx context.Context) (domain.Settings, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Notifier публикует уведомления по бронированию
type Notifier interface {
	Publish(ctx context.Context, eventType notifications.EventType, reservation *domain.Reservation) error
}

// Metrics бизнес-метрики
type Metrics interface {
	IncReservationCancelled(actor string)
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

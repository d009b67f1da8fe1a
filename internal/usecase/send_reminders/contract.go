package send_reminders

import (
	"context"
	"time"

	"github.com/totalboostmarketing/reservation-system/internal/domain"
	"github.com/totalboostmarketing/reservation-system/internal/integrations/notifications"
)

// ReservationRepository интерфейс репозитория бронирований
type ReservationRepository interface {
	ListForReminder(ctx context.Context, from, to time.Time) ([]*domain.Reservation, error)
	MarkReminderSent(ctx context.Context, id int64, sentAt time.Time) error
	InsertAuditLog(ctx context.Context, entry *domain.AuditLog) error
}

// SettingsProvider источник бизнес-настроек
type SettingsProvider interface {
	Resolve(ctx context.Context) (domain.Settings, error)
}

// Notifier публикует уведомления по бронированию
type Notifier interface {
	Publish(ctx context.Context, eventType notifications.EventType, reservation *domain.Reservation) error
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

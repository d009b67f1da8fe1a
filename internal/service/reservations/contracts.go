package reservations

import (
	"context"
	"time"

	"github.com/totalboostmarketing/reservation-system/internal/domain"
)

// ReservationRepository интерфейс репозитория бронирований (чтение)
type ReservationRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Reservation, error)
	GetByCancelToken(ctx context.Context, token string) (*domain.Reservation, error)
	List(ctx context.Context, filter domain.ReservationsFilter) ([]*domain.Reservation, error)
	ListAuditLogs(ctx context.Context, reservationID int64) ([]*domain.AuditLog, error)
}

// SettingsProvider источник бизнес-настроек
type SettingsProvider interface {
	Resolve(ctx context.Context) (domain.Settings, error)
}

// TimeProvider интерфейс для получения текущего времени
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

type realTimeProvider struct{}

func (realTimeProvider) Now() time.Time {
	return time.Now()
}

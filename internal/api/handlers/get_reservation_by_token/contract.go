package get_reservation_by_token

import (
	"context"

	"github.com/totalboostmarketing/reservation-system/internal/service/reservations/models"
)

type ReservationService interface {
	GetByCancelToken(ctx context.Context, token string) (*models.PublicReservationResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

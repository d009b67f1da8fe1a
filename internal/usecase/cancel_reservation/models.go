package cancel_reservation

import (
	"time"

	"github.com/totalboostmarketing/reservation-system/internal/domain"
)

// Request модель запроса на отмену бронирования клиентом
type Request struct {
	ReservationID int64
	CancelToken   string
}

// Response модель ответа после отмены
type Response struct {
	ReservationID int64
	Status        domain.ReservationStatus
	CancelledAt   time.Time
}

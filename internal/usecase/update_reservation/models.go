package update_reservation

import (
	"time"

	"github.com/totalboostmarketing/reservation-system/internal/domain"
)

// Request частичное обновление бронирования администратором.
// nil означает "не менять".
type Request struct {
	ReservationID int64
	Status        *domain.ReservationStatus
	StaffID       *int64
	MenuID        *int64
	StartTime     *time.Time
	EndTime       *time.Time
	AdminNote     *string
	Notify        bool
}

// Response результат обновления
type Response struct {
	Reservation *domain.Reservation
	Changes     map[string]domain.FieldChange // пусто, если ничего не изменилось
}

package get_availability

import (
	"fmt"
	"time"

	"github.com/totalboostmarketing/reservation-system/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.StoreID <= 0 {
		return fmt.Errorf("%w: storeID must be positive", ErrInvalidInput)
	}

	if req.MenuID <= 0 {
		return fmt.Errorf("%w: menuID must be positive", ErrInvalidInput)
	}

	if req.StaffID != nil && *req.StaffID <= 0 {
		return fmt.Errorf("%w: staffID must be positive", ErrInvalidInput)
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	return nil
}

// localDate переносит календарную дату в часовой пояс салона (полночь)
func localDate(date time.Time, loc *time.Location) time.Time {
	y, m, d := date.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// withinBookingRange проверяет, что дата попадает в [сегодня, сегодня + booking_range_days]
func withinBookingRange(date time.Time, now time.Time, settings domain.Settings) bool {
	today := domain.StartOfDay(now.In(settings.Location))
	if date.Before(today) {
		return false
	}

	last, limited := settings.LastBookableDate(now)
	if limited && date.After(last) {
		return false
	}

	return true
}

package update_reservation

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/totalboostmarketing/reservation-system/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.ReservationID <= 0 {
		return fmt.Errorf("%w: reservationID must be positive", ErrInvalidInput)
	}

	if req.Status != nil && !req.Status.Valid() {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidInput, *req.Status)
	}

	if req.StaffID != nil && *req.StaffID <= 0 {
		return fmt.Errorf("%w: staffID must be positive", ErrInvalidInput)
	}

	if req.MenuID != nil && *req.MenuID <= 0 {
		return fmt.Errorf("%w: menuID must be positive", ErrInvalidInput)
	}

	if req.StartTime != nil && req.EndTime != nil && !req.EndTime.After(*req.StartTime) {
		return fmt.Errorf("%w: endTime must be after startTime", ErrInvalidInput)
	}

	if req.AdminNote != nil {
		note := strings.TrimSpace(*req.AdminNote)
		if utf8.RuneCountInString(note) > domain.MaxAdminNoteLength {
			return fmt.Errorf("%w: adminNote must not exceed %d characters", ErrInvalidInput, domain.MaxAdminNoteLength)
		}
		req.AdminNote = &note
	}

	return nil
}

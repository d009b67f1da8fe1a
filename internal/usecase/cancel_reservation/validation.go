package cancel_reservation

import (
	"crypto/subtle"
	"fmt"
	"strings"
	"time"

	"github.com/totalboostmarketing/reservation-system/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.ReservationID <= 0 {
		return fmt.Errorf("%w: reservationID must be positive", ErrInvalidInput)
	}

	req.CancelToken = strings.TrimSpace(req.CancelToken)
	if req.CancelToken == "" {
		return fmt.Errorf("%w: cancel token is required", ErrInvalidInput)
	}

	return nil
}

// tokenMatches сравнение за постоянное время
func tokenMatches(expected, actual string) bool {
	return subtle.ConstantTimeCompare([]byte(expected), []byte(actual)) == 1
}

// checkCancellable проверяет статус и дедлайн отмены.
// Порядок проверок: уже отменено, завершено, дедлайн.
func checkCancellable(r *domain.Reservation, now time.Time, settings domain.Settings) error {
	switch r.Status {
	case domain.StatusCancelled:
		return ErrAlreadyCancelled
	case domain.StatusVisited, domain.StatusNoShow:
		return fmt.Errorf("%w: status is %s", ErrInvalidState, r.Status)
	}

	deadline := settings.CancelDeadline(r.StartTime)
	if !now.Before(deadline) {
		return fmt.Errorf("%w: deadline was %s", ErrDeadlinePassed, deadline.In(settings.Location).Format(time.RFC3339))
	}

	return nil
}

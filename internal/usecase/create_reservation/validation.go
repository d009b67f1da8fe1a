package create_reservation

import (
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/totalboostmarketing/reservation-system/internal/domain"
	"github.com/totalboostmarketing/reservation-system/pkg/types"
)

// validateRequest валидирует и нормализует входные данные запроса
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

	if req.StartTime.IsZero() {
		return fmt.Errorf("%w: startTime is required", ErrInvalidInput)
	}

	if req.EndTime != nil && !req.EndTime.After(req.StartTime) {
		return fmt.Errorf("%w: endTime must be after startTime", ErrInvalidInput)
	}

	if req.Channel == "" {
		req.Channel = domain.ChannelWeb
	}
	if !req.Channel.Valid() {
		return fmt.Errorf("%w: unknown channel %q", ErrInvalidInput, req.Channel)
	}

	if req.PerformedBy == "" {
		req.PerformedBy = domain.ActorCustomer
	}

	req.Customer.Name = strings.TrimSpace(req.Customer.Name)
	req.Customer.Email = strings.TrimSpace(req.Customer.Email)
	req.Customer.Phone = strings.TrimSpace(req.Customer.Phone)

	if req.Customer.Name == "" {
		return fmt.Errorf("%w: customer name is required", ErrInvalidInput)
	}
	if len([]rune(req.Customer.Name)) > domain.MaxCustomerNameLength {
		return fmt.Errorf("%w: customer name must not exceed %d characters", ErrInvalidInput, domain.MaxCustomerNameLength)
	}

	// Для онлайн-записи email обязателен: на него уходит подтверждение со ссылкой отмены
	if req.Channel == domain.ChannelWeb && req.Customer.Email == "" {
		return fmt.Errorf("%w: customer email is required", ErrInvalidInput)
	}
	if req.Customer.Email != "" {
		if _, err := mail.ParseAddress(req.Customer.Email); err != nil {
			return fmt.Errorf("%w: invalid customer email", ErrInvalidInput)
		}
	}
	if req.Channel == domain.ChannelPhone && req.Customer.Phone == "" && req.Customer.Email == "" {
		return fmt.Errorf("%w: customer phone or email is required", ErrInvalidInput)
	}

	if req.AdminNote != nil && len([]rune(*req.AdminNote)) > domain.MaxAdminNoteLength {
		return fmt.Errorf("%w: admin note must not exceed %d characters", ErrInvalidInput, domain.MaxAdminNoteLength)
	}

	if req.CouponCode != nil {
		code := strings.TrimSpace(*req.CouponCode)
		if code == "" {
			req.CouponCode = nil
		} else {
			req.CouponCode = &code
		}
	}

	return nil
}

// fitsBusinessHours проверяет, что [start, end) целиком внутри рабочих часов дня
func fitsBusinessHours(bh *domain.BusinessHour, start, end time.Time, loc *time.Location) bool {
	minutes := int(end.Sub(start) / time.Minute)
	return bh.Contains(types.NewTimeOfDay(start.In(loc)), minutes)
}

// occupiedWindow границы выборки бронирований для блокировки: весь день начала
// в часовом поясе салона, расширенный до конца бронирования
func occupiedWindow(start, end time.Time, loc *time.Location) (time.Time, time.Time) {
	from := domain.StartOfDay(start.In(loc))
	to := from.AddDate(0, 0, 1)
	if end.After(to) {
		to = end
	}
	return from, to
}

package create_reservation

import "errors"

var (
	// ErrStoreNotFound возвращается, когда салон не найден
	ErrStoreNotFound = errors.New("create_reservation: store not found")

	// ErrMenuNotFound возвращается, когда меню не найдено
	ErrMenuNotFound = errors.New("create_reservation: menu not found")

	// ErrStaffNotFound возвращается, когда указанный мастер не найден, неактивен или работает в другом салоне
	ErrStaffNotFound = errors.New("create_reservation: staff not found")

	// ErrSlotNotAvailable возвращается, когда время занято или не попадает в рабочие часы
	ErrSlotNotAvailable = errors.New("create_reservation: slot is not available")

	// ErrOutsideBookingWindow возвращается, когда дата дальше booking_range_days
	ErrOutsideBookingWindow = errors.New("create_reservation: date is outside of booking window")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_reservation: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_reservation: internal error")
)

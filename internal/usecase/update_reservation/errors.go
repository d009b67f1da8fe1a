package update_reservation

import "errors"

var (
	ErrReservationNotFound = errors.New("update_reservation: reservation not found")
	ErrMenuNotFound        = errors.New("update_reservation: menu not found")
	ErrStaffNotFound       = errors.New("update_reservation: staff not found")

	// ErrInvalidState возвращается при недопустимой смене статуса
	ErrInvalidState = errors.New("update_reservation: status transition not allowed")

	// ErrSlotNotAvailable возвращается, когда новое время пересекается с другим бронированием мастера
	ErrSlotNotAvailable = errors.New("update_reservation: staff is busy at the requested time")

	ErrInvalidInput = errors.New("update_reservation: invalid input data")
	ErrInternal     = errors.New("update_reservation: internal error")
)

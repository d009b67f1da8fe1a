package cancel_reservation

import "errors"

var (
	// ErrReservationNotFound возвращается, когда бронирование не найдено
	ErrReservationNotFound = errors.New("cancel_reservation: reservation not found")

	// ErrForbidden возвращается, когда токен отмены не совпадает
	ErrForbidden = errors.New("cancel_reservation: cancel token mismatch")

	// ErrAlreadyCancelled возвращается, когда бронирование уже отменено
	ErrAlreadyCancelled = errors.New("cancel_reservation: reservation already cancelled")

	// ErrInvalidState возвращается для завершенных бронирований (visited, noshow)
	ErrInvalidState = errors.New("cancel_reservation: reservation cannot be cancelled in its current state")

	// ErrDeadlinePassed возвращается, когда до начала осталось меньше cancel_deadline_hours
	ErrDeadlinePassed = errors.New("cancel_reservation: cancellation deadline has passed")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("cancel_reservation: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("cancel_reservation: internal error")
)

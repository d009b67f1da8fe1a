package cancel_reservation

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/totalboostmarketing/reservation-system/internal/api/handlers"
	cancelReservation "github.com/totalboostmarketing/reservation-system/internal/usecase/cancel_reservation"
)

const (
	msgInvalidReservationID = "invalid reservation ID"
	msgInvalidRequestBody   = "invalid request body"
	msgMissingToken         = "cancel token is required"
	msgNotFound             = "reservation not found"
	msgForbidden            = "cancel token does not match"
	msgAlreadyCancelled     = "reservation is already cancelled"
	msgInvalidState         = "reservation cannot be cancelled"
	msgDeadlinePassed       = "cancellation deadline has passed, please contact the salon"
)

type Handler struct {
	useCase CancelReservationUseCase
	logger  Logger
}

func NewHandler(useCase CancelReservationUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/reservations/{reservationId}/cancel
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	// Извлекаем reservationId из URL
	reservationID, err := strconv.ParseInt(mux.Vars(r)["reservationId"], 10, 64)
	if err != nil || reservationID <= 0 {
		h.logger.Warn("POST /reservations/{id}/cancel - Invalid reservation ID: %q", mux.Vars(r)["reservationId"])
		handlers.RespondBadRequest(w, msgInvalidReservationID)
		return
	}

	// Декодируем body
	var req CancelReservationRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /reservations/{id}/cancel - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest(reservationID))
	if err != nil {
		switch {
		case errors.Is(err, cancelReservation.ErrInvalidInput):
			h.logger.Warn("POST /reservations/{id}/cancel - Invalid input: reservation_id=%d", reservationID)
			handlers.RespondBadRequest(w, msgMissingToken)

		case errors.Is(err, cancelReservation.ErrReservationNotFound):
			h.logger.Warn("POST /reservations/{id}/cancel - Reservation not found: reservation_id=%d", reservationID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, cancelReservation.ErrForbidden):
			h.logger.Warn("POST /reservations/{id}/cancel - Token mismatch: reservation_id=%d", reservationID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, cancelReservation.ErrAlreadyCancelled):
			h.logger.Warn("POST /reservations/{id}/cancel - Already cancelled: reservation_id=%d", reservationID)
			handlers.RespondConflict(w, msgAlreadyCancelled)

		case errors.Is(err, cancelReservation.ErrInvalidState):
			h.logger.Warn("POST /reservations/{id}/cancel - Invalid state: reservation_id=%d", reservationID)
			handlers.RespondConflict(w, msgInvalidState)

		case errors.Is(err, cancelReservation.ErrDeadlinePassed):
			h.logger.Warn("POST /reservations/{id}/cancel - Deadline passed: reservation_id=%d", reservationID)
			handlers.RespondUnprocessable(w, msgDeadlinePassed)

		default:
			h.logger.Error("POST /reservations/{id}/cancel - Failed to cancel reservation: reservation_id=%d, error=%v",
				reservationID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /reservations/{id}/cancel - Reservation cancelled: reservation_id=%d", reservationID)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}

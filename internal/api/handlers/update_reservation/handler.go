package update_reservation

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/totalboostmarketing/reservation-system/internal/api/handlers"
	updateReservation "github.com/totalboostmarketing/reservation-system/internal/usecase/update_reservation"
)

const (
	msgInvalidReservationID = "invalid reservation ID"
	msgInvalidRequestBody   = "invalid request body"
	msgInvalidData          = "invalid reservation data"
	msgNotFound             = "reservation not found"
	msgMenuNotFound         = "menu not found"
	msgStaffNotFound        = "staff not found"
	msgInvalidState         = "status transition is not allowed"
	msgSlotNotAvailable     = "staff is busy at the requested time"
)

type Handler struct {
	useCase UpdateReservationUseCase
	logger  Logger
}

func NewHandler(useCase UpdateReservationUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/admin/reservations/{reservationId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	// Извлекаем reservationId из URL
	vars := mux.Vars(r)
	reservationID, err := strconv.ParseInt(vars["reservationId"], 10, 64)
	if err != nil {
		h.logger.Warn("PATCH /admin/reservations/{id} - Invalid reservation ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidReservationID)
		return
	}

	// Декодируем body
	var req UpdateReservationRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /admin/reservations/{id} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest(reservationID))
	if err != nil {
		switch {
		case errors.Is(err, updateReservation.ErrInvalidInput):
			h.logger.Warn("PATCH /admin/reservations/{id} - Invalid data: reservation_id=%d, error=%v", reservationID, err)
			handlers.RespondBadRequest(w, msgInvalidData)

		case errors.Is(err, updateReservation.ErrReservationNotFound):
			h.logger.Warn("PATCH /admin/reservations/{id} - Reservation not found: reservation_id=%d", reservationID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, updateReservation.ErrMenuNotFound):
			h.logger.Warn("PATCH /admin/reservations/{id} - Menu not found: reservation_id=%d", reservationID)
			handlers.RespondNotFound(w, msgMenuNotFound)

		case errors.Is(err, updateReservation.ErrStaffNotFound):
			h.logger.Warn("PATCH /admin/reservations/{id} - Staff not found: reservation_id=%d", reservationID)
			handlers.RespondNotFound(w, msgStaffNotFound)

		case errors.Is(err, updateReservation.ErrInvalidState):
			h.logger.Warn("PATCH /admin/reservations/{id} - Invalid transition: reservation_id=%d, error=%v", reservationID, err)
			handlers.RespondConflict(w, msgInvalidState)

		case errors.Is(err, updateReservation.ErrSlotNotAvailable):
			h.logger.Warn("PATCH /admin/reservations/{id} - Slot not available: reservation_id=%d", reservationID)
			handlers.RespondConflict(w, msgSlotNotAvailable)

		default:
			h.logger.Error("PATCH /admin/reservations/{id} - Failed to update reservation: reservation_id=%d, error=%v",
				reservationID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /admin/reservations/{id} - Reservation updated: reservation_id=%d, changed_fields=%d",
		reservationID, len(result.Changes))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}

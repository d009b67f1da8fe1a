package create_reservation

import (
	"errors"
	"net/http"

	"github.com/totalboostmarketing/reservation-system/internal/api/handlers"
	createReservation "github.com/totalboostmarketing/reservation-system/internal/usecase/create_reservation"
)

const (
	msgInvalidRequestBody = "invalid request body"
	msgInvalidData        = "invalid reservation data"
	msgStoreNotFound      = "store not found"
	msgMenuNotFound       = "menu not found"
	msgStaffNotFound      = "staff not found"
	msgSlotNotAvailable   = "the selected time is not available"
	msgOutsideWindow      = "the selected date is outside of the booking window"
)

type Handler struct {
	useCase CreateReservationUseCase
	logger  Logger
	admin   bool
	route   string
}

// NewHandler обработчик записи с сайта
func NewHandler(useCase CreateReservationUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
		route:   "POST /reservations",
	}
}

// NewAdminHandler обработчик записи из админки (по умолчанию канал phone)
func NewAdminHandler(useCase CreateReservationUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
		admin:   true,
		route:   "POST /admin/reservations",
	}
}

// Handle POST /api/v1/reservations, POST /api/v1/admin/reservations
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	useCaseReq, err := h.decode(r)
	if err != nil {
		h.logger.Warn("%s - Invalid request body: %v", h.route, err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, createReservation.ErrInvalidInput):
			h.logger.Warn("%s - Invalid data: %v", h.route, err)
			handlers.RespondBadRequest(w, msgInvalidData)

		case errors.Is(err, createReservation.ErrStoreNotFound):
			h.logger.Warn("%s - Store not found: store_id=%d", h.route, useCaseReq.StoreID)
			handlers.RespondNotFound(w, msgStoreNotFound)

		case errors.Is(err, createReservation.ErrMenuNotFound):
			h.logger.Warn("%s - Menu not found: menu_id=%d", h.route, useCaseReq.MenuID)
			handlers.RespondNotFound(w, msgMenuNotFound)

		case errors.Is(err, createReservation.ErrStaffNotFound):
			h.logger.Warn("%s - Staff not found: store_id=%d", h.route, useCaseReq.StoreID)
			handlers.RespondNotFound(w, msgStaffNotFound)

		case errors.Is(err, createReservation.ErrSlotNotAvailable):
			h.logger.Warn("%s - Slot not available: store_id=%d, start=%s", h.route, useCaseReq.StoreID, useCaseReq.StartTime)
			handlers.RespondConflict(w, msgSlotNotAvailable)

		case errors.Is(err, createReservation.ErrOutsideBookingWindow):
			h.logger.Warn("%s - Outside booking window: start=%s", h.route, useCaseReq.StartTime)
			handlers.RespondUnprocessable(w, msgOutsideWindow)

		default:
			h.logger.Error("%s - Failed to create reservation: store_id=%d, error=%v", h.route, useCaseReq.StoreID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("%s - Reservation created: reservation_id=%d, staff_id=%d",
		h.route, result.Reservation.ID, result.Reservation.StaffID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}

func (h *Handler) decode(r *http.Request) (*createReservation.Request, error) {
	if h.admin {
		var req AdminCreateReservationRequest
		if err := handlers.DecodeJSON(r, &req); err != nil {
			return nil, err
		}
		return req.ToUseCaseRequest(), nil
	}

	var req CreateReservationRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		return nil, err
	}
	return req.ToUseCaseRequest(), nil
}

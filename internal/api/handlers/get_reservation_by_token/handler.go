package get_reservation_by_token

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/totalboostmarketing/reservation-system/internal/api/handlers"
	"github.com/totalboostmarketing/reservation-system/internal/service/reservations"
)

const (
	msgMissingToken = "cancel token is required"
	msgNotFound     = "reservation not found"
)

type Handler struct {
	service ReservationService
	logger  Logger
}

func NewHandler(service ReservationService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/reservations/by-token/{token}
// Страница клиента: бронирование и возможность отмены
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	token := mux.Vars(r)["token"]

	reservation, err := h.service.GetByCancelToken(r.Context(), token)
	if err != nil {
		switch {
		case errors.Is(err, reservations.ErrInvalidInput):
			h.logger.Warn("GET /reservations/by-token/{token} - Missing token")
			handlers.RespondBadRequest(w, msgMissingToken)

		case errors.Is(err, reservations.ErrReservationNotFound):
			h.logger.Warn("GET /reservations/by-token/{token} - Reservation not found")
			handlers.RespondNotFound(w, msgNotFound)

		default:
			h.logger.Error("GET /reservations/by-token/{token} - Failed to get reservation: error=%v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /reservations/by-token/{token} - Reservation retrieved: reservation_id=%d", reservation.ID)
	handlers.RespondJSON(w, http.StatusOK, reservation)
}

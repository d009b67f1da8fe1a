package cancel_reservation

import (
	"time"

	cancelReservation "github.com/totalboostmarketing/reservation-system/internal/usecase/cancel_reservation"
)

// CancelReservationRequest HTTP request model
type CancelReservationRequest struct {
	CancelToken string `json:"cancelToken"`
}

// CancelReservationResponse HTTP response model
type CancelReservationResponse struct {
	ReservationID int64     `json:"reservationId"`
	Status        string    `json:"status"`
	CancelledAt   time.Time `json:"cancelledAt"`
}

// ToUseCaseRequest конвертирует HTTP request в модель use case
func (r *CancelReservationRequest) ToUseCaseRequest(reservationID int64) *cancelReservation.Request {
	return &cancelReservation.Request{
		ReservationID: reservationID,
		CancelToken:   r.CancelToken,
	}
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *cancelReservation.Response) *CancelReservationResponse {
	return &CancelReservationResponse{
		ReservationID: resp.ReservationID,
		Status:        string(resp.Status),
		CancelledAt:   resp.CancelledAt,
	}
}

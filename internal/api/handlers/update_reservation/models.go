package update_reservation

import (
	"time"

	"github.com/totalboostmarketing/reservation-system/internal/domain"
	"github.com/totalboostmarketing/reservation-system/internal/service/reservations/models"
	updateReservation "github.com/totalboostmarketing/reservation-system/internal/usecase/update_reservation"
)

// UpdateReservationRequest HTTP request model. Отсутствующие поля не меняются.
type UpdateReservationRequest struct {
	Status    *string    `json:"status,omitempty"`
	StaffID   *int64     `json:"staffId,omitempty"`
	MenuID    *int64     `json:"menuId,omitempty"`
	StartTime *time.Time `json:"startTime,omitempty"`
	EndTime   *time.Time `json:"endTime,omitempty"`
	AdminNote *string    `json:"adminNote,omitempty"` // "" очищает заметку
	Notify    bool       `json:"notify"`
}

// UpdateReservationResponse HTTP response model
type UpdateReservationResponse struct {
	Reservation *models.ReservationResponse   `json:"reservation"`
	Changes     map[string]domain.FieldChange `json:"changes"`
}

// ToUseCaseRequest конвертирует HTTP request в модель use case
func (r *UpdateReservationRequest) ToUseCaseRequest(reservationID int64) *updateReservation.Request {
	req := &updateReservation.Request{
		ReservationID: reservationID,
		StaffID:       r.StaffID,
		MenuID:        r.MenuID,
		StartTime:     r.StartTime,
		EndTime:       r.EndTime,
		AdminNote:     r.AdminNote,
		Notify:        r.Notify,
	}

	if r.Status != nil {
		status := domain.ReservationStatus(*r.Status)
		req.Status = &status
	}

	return req
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *updateReservation.Response) *UpdateReservationResponse {
	changes := resp.Changes
	if changes == nil {
		changes = map[string]domain.FieldChange{}
	}

	return &UpdateReservationResponse{
		Reservation: models.FromDomainReservation(resp.Reservation),
		Changes:     changes,
	}
}

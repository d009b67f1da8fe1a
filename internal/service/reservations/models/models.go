package models

import (
	"errors"
	"time"

	"github.com/totalboostmarketing/reservation-system/internal/domain"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid reservation status")
)

// Request модели

// ListReservationsRequest фильтр списка бронирований в админке
type ListReservationsRequest struct {
	StoreID *int64
	StaffID *int64
	MenuID  *int64
	Status  *string
	From    *time.Time // начало периода (включительно)
	To      *time.Time // конец периода (не включительно)
	Limit   int
	Offset  int
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *ListReservationsRequest) ToDomainFilter() (domain.ReservationsFilter, error) {
	filter := domain.ReservationsFilter{
		StoreID: r.StoreID,
		StaffID: r.StaffID,
		MenuID:  r.MenuID,
		From:    r.From,
		To:      r.To,
		Limit:   r.Limit,
		Offset:  r.Offset,
	}

	if r.Status != nil {
		status, err := ToDomainStatus(*r.Status)
		if err != nil {
			return filter, err
		}
		filter.Status = &status
	}

	if filter.Limit <= 0 {
		filter.Limit = domain.DefaultListLimit
	}
	if filter.Limit > domain.MaxListLimit {
		filter.Limit = domain.MaxListLimit
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	return filter, nil
}

// Response модели

// Customer контактные данные клиента
type Customer struct {
	Name     string `json:"name"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Language string `json:"language"`
}

// Discount источник скидки
type Discount struct {
	Kind string `json:"kind"` // none | coupon | campaign
	ID   *int64 `json:"id,omitempty"`
}

// ReservationResponse бронирование для админки
type ReservationResponse struct {
	ID        int64     `json:"id"`
	StoreID   int64     `json:"storeId"`
	MenuID    int64     `json:"menuId"`
	StaffID   int64     `json:"staffId"`
	StartTime time.Time `json:"startTime"`
	EndTime   time.Time `json:"endTime"`
	Status    string    `json:"status"`
	Channel   string    `json:"channel"`
	Customer  Customer  `json:"customer"`

	OriginalPrice  int64    `json:"originalPrice"`
	DiscountAmount int64    `json:"discountAmount"`
	FinalPrice     int64    `json:"finalPrice"`
	Discount       Discount `json:"discount"`

	AdminNote      *string    `json:"adminNote,omitempty"`
	CreatedBy      string     `json:"createdBy"`
	UpdatedBy      string     `json:"updatedBy"`
	ReminderSentAt *time.Time `json:"reminderSentAt,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// PublicReservationResponse бронирование для страницы клиента (по токену отмены).
// Служебные поля админки не отдаются.
type PublicReservationResponse struct {
	ID             int64     `json:"id"`
	StoreID        int64     `json:"storeId"`
	MenuID         int64     `json:"menuId"`
	StaffID        int64     `json:"staffId"`
	StartTime      time.Time `json:"startTime"`
	EndTime        time.Time `json:"endTime"`
	Status         string    `json:"status"`
	Customer       Customer  `json:"customer"`
	OriginalPrice  int64     `json:"originalPrice"`
	DiscountAmount int64     `json:"discountAmount"`
	FinalPrice     int64     `json:"finalPrice"`
	CancelDeadline time.Time `json:"cancelDeadline"`
	Cancellable    bool      `json:"cancellable"`
}

// AuditLogResponse запись журнала изменений
type AuditLogResponse struct {
	ID          int64                         `json:"id"`
	Action      string                        `json:"action"`
	Changes     map[string]domain.FieldChange `json:"changes"`
	PerformedBy string                        `json:"performedBy"`
	CreatedAt   time.Time                     `json:"createdAt"`
}

// ReservationDetailsResponse бронирование с журналом изменений
type ReservationDetailsResponse struct {
	ReservationResponse
	AuditLogs []AuditLogResponse `json:"auditLogs"`
}

// ReservationListResponse ответ со списком бронирований
type ReservationListResponse struct {
	Reservations []ReservationResponse `json:"reservations"`
	Limit        int                   `json:"limit"`
	Offset       int                   `json:"offset"`
}

// Методы конвертации

// FromDomainReservation конвертирует domain модель в DTO
func FromDomainReservation(r *domain.Reservation) *ReservationResponse {
	if r == nil {
		return nil
	}

	discountID := r.Discount.CouponID()
	if discountID == nil {
		discountID = r.Discount.CampaignID()
	}

	return &ReservationResponse{
		ID:        r.ID,
		StoreID:   r.StoreID,
		MenuID:    r.MenuID,
		StaffID:   r.StaffID,
		StartTime: r.StartTime,
		EndTime:   r.EndTime,
		Status:    string(r.Status),
		Channel:   string(r.Channel),
		Customer: Customer{
			Name:     r.CustomerName,
			Email:    r.CustomerEmail,
			Phone:    r.CustomerPhone,
			Language: r.Language,
		},
		OriginalPrice:  r.OriginalPrice,
		DiscountAmount: r.DiscountAmount,
		FinalPrice:     r.FinalPrice,
		Discount: Discount{
			Kind: string(r.Discount.Kind),
			ID:   discountID,
		},
		AdminNote:      r.AdminNote,
		CreatedBy:      string(r.CreatedBy),
		UpdatedBy:      string(r.UpdatedBy),
		ReminderSentAt: r.ReminderSentAt,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
}

// FromDomainPublic конвертирует domain модель в DTO для клиента
func FromDomainPublic(r *domain.Reservation, settings domain.Settings, now time.Time) *PublicReservationResponse {
	if r == nil {
		return nil
	}

	deadline := settings.CancelDeadline(r.StartTime)

	return &PublicReservationResponse{
		ID:        r.ID,
		StoreID:   r.StoreID,
		MenuID:    r.MenuID,
		StaffID:   r.StaffID,
		StartTime: r.StartTime,
		EndTime:   r.EndTime,
		Status:    string(r.Status),
		Customer: Customer{
			Name:     r.CustomerName,
			Email:    r.CustomerEmail,
			Phone:    r.CustomerPhone,
			Language: r.Language,
		},
		OriginalPrice:  r.OriginalPrice,
		DiscountAmount: r.DiscountAmount,
		FinalPrice:     r.FinalPrice,
		CancelDeadline: deadline,
		Cancellable:    r.Status == domain.StatusReserved && now.Before(deadline),
	}
}

// FromDomainAuditLogs конвертирует журнал изменений
func FromDomainAuditLogs(logs []*domain.AuditLog) []AuditLogResponse {
	result := make([]AuditLogResponse, 0, len(logs))
	for _, l := range logs {
		changes := l.Changes
		if changes == nil {
			changes = map[string]domain.FieldChange{}
		}
		result = append(result, AuditLogResponse{
			ID:          l.ID,
			Action:      string(l.Action),
			Changes:     changes,
			PerformedBy: string(l.PerformedBy),
			CreatedAt:   l.CreatedAt,
		})
	}
	return result
}

// FromDomainReservationList конвертирует список бронирований
func FromDomainReservationList(reservations []*domain.Reservation, limit, offset int) *ReservationListResponse {
	items := make([]ReservationResponse, 0, len(reservations))
	for _, r := range reservations {
		items = append(items, *FromDomainReservation(r))
	}
	return &ReservationListResponse{
		Reservations: items,
		Limit:        limit,
		Offset:       offset,
	}
}

// ToDomainStatus конвертирует строку в статус
func ToDomainStatus(s string) (domain.ReservationStatus, error) {
	status := domain.ReservationStatus(s)
	if !status.Valid() {
		return "", ErrInvalidStatus
	}
	return status, nil
}

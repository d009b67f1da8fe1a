package create_reservation

import (
	"time"

	"github.com/totalboostmarketing/reservation-system/internal/domain"
	createReservation "github.com/totalboostmarketing/reservation-system/internal/usecase/create_reservation"
)

// CustomerRequest контактные данные клиента
type CustomerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Language string `json:"language"`
}

// CreateReservationRequest HTTP request model (сайт)
type CreateReservationRequest struct {
	StoreID    int64           `json:"storeId"`
	MenuID     int64           `json:"menuId"`
	StaffID    *int64          `json:"staffId,omitempty"`
	StartTime  time.Time       `json:"startTime"` // RFC3339 со смещением
	Customer   CustomerRequest `json:"customer"`
	CouponCode *string         `json:"couponCode,omitempty"`
}

// AdminCreateReservationRequest HTTP request model (админка, в том числе запись по телефону)
type AdminCreateReservationRequest struct {
	CreateReservationRequest
	Channel   *string    `json:"channel,omitempty"` // web | phone, по умолчанию phone
	EndTime   *time.Time `json:"endTime,omitempty"`
	AdminNote *string    `json:"adminNote,omitempty"`
}

// ReservationResponse HTTP response model
type ReservationResponse struct {
	ID             int64     `json:"id"`
	StoreID        int64     `json:"storeId"`
	MenuID         int64     `json:"menuId"`
	StaffID        int64     `json:"staffId"`
	StartTime      time.Time `json:"startTime"`
	EndTime        time.Time `json:"endTime"`
	Status         string    `json:"status"`
	Channel        string    `json:"channel"`
	OriginalPrice  int64     `json:"originalPrice"`
	DiscountAmount int64     `json:"discountAmount"`
	FinalPrice     int64     `json:"finalPrice"`
	DiscountKind   string    `json:"discountKind"`
	CancelToken    string    `json:"cancelToken"`
	CreatedAt      time.Time `json:"createdAt"`
}

// ToUseCaseRequest конвертирует HTTP request в модель use case
func (r *CreateReservationRequest) ToUseCaseRequest() *createReservation.Request {
	return &createReservation.Request{
		StoreID:   r.StoreID,
		MenuID:    r.MenuID,
		StaffID:   r.StaffID,
		StartTime: r.StartTime,
		Customer: createReservation.Customer{
			Name:     r.Customer.Name,
			Email:    r.Customer.Email,
			Phone:    r.Customer.Phone,
			Language: r.Customer.Language,
		},
		CouponCode:  r.CouponCode,
		Channel:     domain.ChannelWeb,
		PerformedBy: domain.ActorCustomer,
	}
}

// ToUseCaseRequest конвертирует HTTP request админки в модель use case
func (r *AdminCreateReservationRequest) ToUseCaseRequest() *createReservation.Request {
	req := r.CreateReservationRequest.ToUseCaseRequest()

	req.Channel = domain.ChannelPhone
	if r.Channel != nil {
		req.Channel = domain.Channel(*r.Channel)
	}
	req.EndTime = r.EndTime
	req.AdminNote = r.AdminNote
	req.PerformedBy = domain.ActorAdmin

	return req
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createReservation.Response) *ReservationResponse {
	res := resp.Reservation

	return &ReservationResponse{
		ID:             res.ID,
		StoreID:        res.StoreID,
		MenuID:         res.MenuID,
		StaffID:        res.StaffID,
		StartTime:      res.StartTime,
		EndTime:        res.EndTime,
		Status:         string(res.Status),
		Channel:        string(res.Channel),
		OriginalPrice:  resp.OriginalPrice,
		DiscountAmount: resp.DiscountAmount,
		FinalPrice:     resp.FinalPrice,
		DiscountKind:   string(res.Discount.Kind),
		CancelToken:    res.CancelToken,
		CreatedAt:      res.CreatedAt,
	}
}

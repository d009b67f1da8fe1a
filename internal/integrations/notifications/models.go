package notifications

import "time"

// EventType тип уведомления
type EventType string

const (
	EventReservationComplete EventType = "reservation_complete"
	EventReservationCancel   EventType = "reservation_cancel"
	EventReservationChange   EventType = "reservation_change"
	EventReminder            EventType = "reminder"
)

// Event сообщение, которое уходит в топик уведомлений.
// Доставкой (email, SMS) занимается отдельный потребитель.
type Event struct {
	ID            string    `json:"id"`
	Type          EventType `json:"type"`
	ReservationID int64     `json:"reservationId"`
	StoreID       int64     `json:"storeId"`
	MenuID        int64     `json:"menuId"`
	StaffID       int64     `json:"staffId"`
	Status        string    `json:"status"`
	CustomerName  string    `json:"customerName"`
	CustomerEmail string    `json:"customerEmail,omitempty"`
	CustomerPhone string    `json:"customerPhone,omitempty"`
	Language      string    `json:"language"`
	StartTime     time.Time `json:"startTime"`
	EndTime       time.Time `json:"endTime"`
	FinalPrice    int64     `json:"finalPrice"`
	CancelURL     string    `json:"cancelUrl,omitempty"`
	OccurredAt    time.Time `json:"occurredAt"`
}

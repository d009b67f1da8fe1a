package domain

import "time"

// ReservationStatus статус бронирования
type ReservationStatus string

const (
	StatusReserved  ReservationStatus = "reserved"
	StatusVisited   ReservationStatus = "visited"
	StatusCancelled ReservationStatus = "cancelled"
	StatusNoShow    ReservationStatus = "noshow"
)

// Valid проверяет, что статус входит в допустимый набор
func (s ReservationStatus) Valid() bool {
	switch s {
	case StatusReserved, StatusVisited, StatusCancelled, StatusNoShow:
		return true
	}
	return false
}

// Channel источник бронирования
type Channel string

const (
	ChannelWeb   Channel = "web"
	ChannelPhone Channel = "phone"
)

func (c Channel) Valid() bool {
	return c == ChannelWeb || c == ChannelPhone
}

// Actor кто выполнил действие над бронированием
type Actor string

const (
	ActorCustomer Actor = "customer"
	ActorAdmin    Actor = "admin"
	ActorSystem   Actor = "system"
)

// Reservation бронирование услуги (меню) у мастера в салоне
type Reservation struct {
	ID      int64
	StoreID int64
	MenuID  int64
	StaffID int64

	StartTime time.Time
	EndTime   time.Time
	Status    ReservationStatus
	Channel   Channel

	CustomerName  string
	CustomerEmail string
	CustomerPhone string
	Language      string

	OriginalPrice  int64
	DiscountAmount int64
	FinalPrice     int64
	Discount       DiscountSource

	CancelToken string
	AdminNote   *string

	CreatedBy      Actor
	UpdatedBy      Actor
	ReminderSentAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsOccupying true, если бронирование занимает время мастера
func (r *Reservation) IsOccupying() bool {
	return r.Status.Occupying()
}

// Occupying true для статусов, которые блокируют время мастера
func (s ReservationStatus) Occupying() bool {
	return s == StatusReserved || s == StatusVisited
}

// CanTransitionTo проверяет допустимость смены статуса.
// reserved -> visited|cancelled|noshow, visited <-> noshow, cancelled конечный.
func (r *Reservation) CanTransitionTo(next ReservationStatus) bool {
	if r.Status == next {
		return true
	}
	allowed, ok := statusTransitions[r.Status]
	if !ok {
		return false
	}
	for _, s := range allowed {
		if s == next {
			return true
		}
	}
	return false
}

var statusTransitions = map[ReservationStatus][]ReservationStatus{
	StatusReserved: {StatusVisited, StatusCancelled, StatusNoShow},
	StatusVisited:  {StatusNoShow},
	StatusNoShow:   {StatusVisited},
}

// ReservationsFilter фильтр для списка бронирований (админка)
type ReservationsFilter struct {
	StoreID *int64
	StaffID *int64
	MenuID  *int64
	Status  *ReservationStatus
	From    *time.Time // start_time >= From
	To      *time.Time // start_time < To
	Limit   int
	Offset  int
}

// OccupyingStatuses статусы, учитываемые при проверке пересечений
var OccupyingStatuses = []ReservationStatus{
	StatusReserved,
	StatusVisited,
}

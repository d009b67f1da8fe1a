package create_reservation

import (
	"time"

	"github.com/totalboostmarketing/reservation-system/internal/domain"
)

// Customer контактные данные клиента
type Customer struct {
	Name     string
	Email    string
	Phone    string
	Language string // пусто = язык по умолчанию из настроек
}

// Request модель запроса на создание бронирования
type Request struct {
	StoreID     int64
	MenuID      int64
	StaffID     *int64     // nil = автоматический выбор мастера
	StartTime   time.Time  // абсолютное время начала
	EndTime     *time.Time // nil = начало + длительность меню с буферами
	Customer    Customer
	CouponCode  *string
	Channel     domain.Channel // web | phone
	PerformedBy domain.Actor   // customer | admin
	AdminNote   *string
}

// Response модель ответа с созданным бронированием
type Response struct {
	Reservation    *domain.Reservation
	OriginalPrice  int64
	DiscountAmount int64
	FinalPrice     int64
}

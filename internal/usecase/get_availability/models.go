package get_availability

import (
	"time"

	"github.com/totalboostmarketing/reservation-system/pkg/types"
)

// Request модель запроса доступности
type Request struct {
	StoreID int64
	MenuID  int64
	StaffID *int64    // конкретный мастер (опционально)
	Date    time.Time // календарная дата, время игнорируется
}

// Response модель ответа со слотами дня
type Response struct {
	Date            time.Time // полночь даты в часовом поясе салона
	StoreID         int64
	MenuID          int64
	StaffID         *int64
	DurationMinutes int // длительность с буферами
	Slots           []Slot
}

// Slot модель временного слота
type Slot struct {
	Time         types.TimeOfDay
	Available    bool
	FreeStaffIDs []int64
}

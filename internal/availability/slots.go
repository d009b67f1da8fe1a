package availability

import (
	"time"

	"github.com/totalboostmarketing/reservation-system/internal/domain"
	"github.com/totalboostmarketing/reservation-system/pkg/types"
)

// GenerateSlots генерирует времена начала слотов от open с шагом interval.
// Слот, начинающийся в close или позже, не попадает в результат.
//
// Пример: 10:00-12:00 с шагом 30 -> 10:00, 10:30, 11:00, 11:30
func GenerateSlots(open, close types.TimeOfDay, interval int) []types.TimeOfDay {
	if interval <= 0 {
		return nil
	}

	slots := make([]types.TimeOfDay, 0)
	for current := open; current < close; current += types.TimeOfDay(interval) {
		slots = append(slots, current)
	}
	return slots
}

// Overlaps проверяет пересечение полуинтервалов [aStart, aEnd) и [bStart, bEnd).
// Если одно бронирование заканчивается ровно там, где начинается другое, это НЕ пересечение.
//
// Примеры (занято 10:00-11:00):
// - 10:30-11:30 → пересечение
// - 11:00-12:00 → нет (граничат)
// - 09:00-10:00 → нет (граничат)
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// HasConflict проверяет, пересекается ли [start, end) хотя бы с одним занимающим бронированием.
// Отмененные и noshow бронирования не учитываются.
func HasConflict(start, end time.Time, reservations []*domain.Reservation) bool {
	for _, r := range reservations {
		if !r.IsOccupying() {
			continue
		}
		if Overlaps(start, end, r.StartTime, r.EndTime) {
			return true
		}
	}
	return false
}

// FreeStaff возвращает ID мастеров из pool (в порядке pool), свободных на [start, end).
// reservations могут содержать бронирования любых мастеров салона.
func FreeStaff(pool []*domain.Staff, reservations []*domain.Reservation, start, end time.Time) []int64 {
	byStaff := groupByStaff(reservations)

	free := make([]int64, 0, len(pool))
	for _, s := range pool {
		if HasConflict(start, end, byStaff[s.ID]) {
			continue
		}
		free = append(free, s.ID)
	}
	return free
}

// PickStaff выбирает первого свободного мастера в порядке pool (порядок отображения).
// Если свободных нет, возвращает false: назначать занятого мастера нельзя.
func PickStaff(pool []*domain.Staff, reservations []*domain.Reservation, start, end time.Time) (int64, bool) {
	free := FreeStaff(pool, reservations, start, end)
	if len(free) == 0 {
		return 0, false
	}
	return free[0], true
}

func groupByStaff(reservations []*domain.Reservation) map[int64][]*domain.Reservation {
	byStaff := make(map[int64][]*domain.Reservation)
	for _, r := range reservations {
		byStaff[r.StaffID] = append(byStaff[r.StaffID], r)
	}
	return byStaff
}

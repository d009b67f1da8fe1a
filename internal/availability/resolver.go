package availability

import (
	"time"

	"github.com/totalboostmarketing/reservation-system/internal/domain"
	"github.com/totalboostmarketing/reservation-system/pkg/types"
)

// Input данные для расчета доступности на одну дату
type Input struct {
	Date         time.Time      // календарная дата (время игнорируется)
	Location     *time.Location // часовой пояс салона
	Now          time.Time
	BusinessHour *domain.BusinessHour // nil = режим работы не задан
	IsHoliday    bool
	Menu         *domain.Menu
	Pool         []*domain.Staff       // мастера-кандидаты в порядке отображения
	Reservations []*domain.Reservation // бронирования салона на эту дату
}

// Slot результат для одного слота. Available == true ровно тогда, когда FreeStaffIDs не пуст.
type Slot struct {
	Time         types.TimeOfDay
	Available    bool
	FreeStaffIDs []int64
}

// Resolve рассчитывает доступность всех слотов дня.
// Закрытый день, выходной или пустой пул мастеров дают пустой список, а не ошибку.
// Недоступные слоты тоже возвращаются, чтобы клиент мог их отрисовать.
func Resolve(in Input) []Slot {
	bh := in.BusinessHour
	if bh == nil || !bh.IsOpen || in.IsHoliday || len(in.Pool) == 0 || in.Menu == nil {
		return []Slot{}
	}

	loc := in.Location
	if loc == nil {
		loc = time.UTC
	}
	now := in.Now.In(loc)
	duration := in.Menu.EffectiveDuration()

	candidates := GenerateSlots(bh.OpenTime, bh.CloseTime, domain.SlotIntervalMinutes)
	result := make([]Slot, 0, len(candidates))

	for _, slotTime := range candidates {
		slot := Slot{Time: slotTime, FreeStaffIDs: []int64{}}

		// Конец услуги с буферами не должен выходить за время закрытия
		fits := slotTime.Minutes()+duration <= bh.CloseTime.Minutes()

		start := slotTime.On(in.Date, loc)
		end := start.Add(time.Duration(duration) * time.Minute)

		if fits && start.After(now) {
			slot.FreeStaffIDs = FreeStaff(in.Pool, in.Reservations, start, end)
			slot.Available = len(slot.FreeStaffIDs) > 0
		}

		result = append(result, slot)
	}

	return result
}

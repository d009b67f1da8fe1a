package update_reservation

import (
	"github.com/totalboostmarketing/reservation-system/internal/domain"
)

// diffReservations сравнивает изменяемые поля и возвращает {поле: {from, to}}
func diffReservations(before, after *domain.Reservation) map[string]domain.FieldChange {
	changes := make(map[string]domain.FieldChange)

	if before.Status != after.Status {
		changes["status"] = domain.FieldChange{From: before.Status, To: after.Status}
	}
	if before.StaffID != after.StaffID {
		changes["staffId"] = domain.FieldChange{From: before.StaffID, To: after.StaffID}
	}
	if before.MenuID != after.MenuID {
		changes["menuId"] = domain.FieldChange{From: before.MenuID, To: after.MenuID}
	}
	if !before.StartTime.Equal(after.StartTime) {
		changes["startTime"] = domain.FieldChange{From: before.StartTime, To: after.StartTime}
	}
	if !before.EndTime.Equal(after.EndTime) {
		changes["endTime"] = domain.FieldChange{From: before.EndTime, To: after.EndTime}
	}
	if before.OriginalPrice != after.OriginalPrice {
		changes["originalPrice"] = domain.FieldChange{From: before.OriginalPrice, To: after.OriginalPrice}
	}
	if before.DiscountAmount != after.DiscountAmount {
		changes["discountAmount"] = domain.FieldChange{From: before.DiscountAmount, To: after.DiscountAmount}
	}
	if before.FinalPrice != after.FinalPrice {
		changes["finalPrice"] = domain.FieldChange{From: before.FinalPrice, To: after.FinalPrice}
	}
	if noteValue(before.AdminNote) != noteValue(after.AdminNote) {
		changes["adminNote"] = domain.FieldChange{From: before.AdminNote, To: after.AdminNote}
	}

	return changes
}

func noteValue(note *string) string {
	if note == nil {
		return ""
	}
	return *note
}

// auditAction status_changed, если менялся статус, иначе updated
func auditAction(changes map[string]domain.FieldChange) domain.AuditAction {
	if _, ok := changes["status"]; ok {
		return domain.AuditStatusChanged
	}
	return domain.AuditUpdated
}

// needsConflictCheck true, если бронирование после изменения занимает время мастера
// и менялось что-то, влияющее на занятость
func needsConflictCheck(before, after *domain.Reservation) bool {
	if !after.IsOccupying() {
		return false
	}
	if !before.IsOccupying() {
		return true
	}
	return before.StaffID != after.StaffID ||
		!before.StartTime.Equal(after.StartTime) ||
		!before.EndTime.Equal(after.EndTime)
}

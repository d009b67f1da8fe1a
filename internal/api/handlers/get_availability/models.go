package get_availability

import (
	"strconv"
	"time"

	"github.com/totalboostmarketing/reservation-system/internal/domain"
	getAvailability "github.com/totalboostmarketing/reservation-system/internal/usecase/get_availability"
)

// AvailabilityResponse HTTP response model
type AvailabilityResponse struct {
	Date            string `json:"date"`
	StoreID         int64  `json:"storeId"`
	MenuID          int64  `json:"menuId"`
	StaffID         *int64 `json:"staffId,omitempty"`
	DurationMinutes int    `json:"durationMinutes"`
	Slots           []Slot `json:"slots"`
}

// Slot модель временного слота
type Slot struct {
	Time         string  `json:"time"` // "HH:MM" в часовом поясе салона
	Available    bool    `json:"available"`
	FreeStaffIDs []int64 `json:"freeStaffIds"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailability.Response) *AvailabilityResponse {
	slots := make([]Slot, len(resp.Slots))
	for i, slot := range resp.Slots {
		free := slot.FreeStaffIDs
		if free == nil {
			free = []int64{}
		}
		slots[i] = Slot{
			Time:         slot.Time.String(),
			Available:    slot.Available,
			FreeStaffIDs: free,
		}
	}

	return &AvailabilityResponse{
		Date:            resp.Date.Format(domain.DateFormat),
		StoreID:         resp.StoreID,
		MenuID:          resp.MenuID,
		StaffID:         resp.StaffID,
		DurationMinutes: resp.DurationMinutes,
		Slots:           slots,
	}
}

// ToUseCaseRequest создает запрос use case из query параметров
func ToUseCaseRequest(storeID, menuID int64, staffIDStr, dateStr string) (*getAvailability.Request, error) {
	date, err := time.Parse(domain.DateFormat, dateStr)
	if err != nil {
		return nil, err
	}

	req := &getAvailability.Request{
		StoreID: storeID,
		MenuID:  menuID,
		Date:    date,
	}

	if staffIDStr != "" {
		staffID, err := strconv.ParseInt(staffIDStr, 10, 64)
		if err != nil {
			return nil, err
		}
		req.StaffID = &staffID
	}

	return req, nil
}

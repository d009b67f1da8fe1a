package list_reservations

import (
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/totalboostmarketing/reservation-system/internal/service/reservations/models"
)

// ToServiceRequest создает запрос к сервису из query параметров.
// Все параметры опциональны; from/to в формате RFC3339.
func ToServiceRequest(query url.Values) (*models.ListReservationsRequest, error) {
	req := &models.ListReservationsRequest{}

	var err error
	if req.StoreID, err = optionalInt64(query, "storeId"); err != nil {
		return nil, err
	}
	if req.StaffID, err = optionalInt64(query, "staffId"); err != nil {
		return nil, err
	}
	if req.MenuID, err = optionalInt64(query, "menuId"); err != nil {
		return nil, err
	}
	if req.From, err = optionalTime(query, "from"); err != nil {
		return nil, err
	}
	if req.To, err = optionalTime(query, "to"); err != nil {
		return nil, err
	}

	if status := query.Get("status"); status != "" {
		req.Status = &status
	}

	if limit := query.Get("limit"); limit != "" {
		if req.Limit, err = strconv.Atoi(limit); err != nil {
			return nil, fmt.Errorf("limit: %w", err)
		}
	}
	if offset := query.Get("offset"); offset != "" {
		if req.Offset, err = strconv.Atoi(offset); err != nil {
			return nil, fmt.Errorf("offset: %w", err)
		}
	}

	return req, nil
}

func optionalInt64(query url.Values, key string) (*int64, error) {
	raw := query.Get(key)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", key, err)
	}
	return &v, nil
}

func optionalTime(query url.Values, key string) (*time.Time, error) {
	raw := query.Get(key)
	if raw == "" {
		return nil, nil
	}
	v, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", key, err)
	}
	return &v, nil
}

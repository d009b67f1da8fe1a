package get_availability

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/totalboostmarketing/reservation-system/internal/api/handlers"
	getAvailability "github.com/totalboostmarketing/reservation-system/internal/usecase/get_availability"
)

const (
	msgInvalidStoreID = "invalid storeId"
	msgInvalidMenuID  = "invalid menuId"
	msgMissingDate    = "date is required"
	msgInvalidParams  = "invalid date or staffId, expected date in YYYY-MM-DD format"
	msgStoreNotFound  = "store not found"
	msgMenuNotFound   = "menu not found"
)

type Handler struct {
	useCase GetAvailabilityUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailabilityUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/availability
// Query params: storeId, menuId, date (YYYY-MM-DD) обязательны; staffId опционально
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	storeID, err := strconv.ParseInt(query.Get("storeId"), 10, 64)
	if err != nil || storeID <= 0 {
		h.logger.Warn("GET /availability - Invalid store ID: %q", query.Get("storeId"))
		handlers.RespondBadRequest(w, msgInvalidStoreID)
		return
	}

	menuID, err := strconv.ParseInt(query.Get("menuId"), 10, 64)
	if err != nil || menuID <= 0 {
		h.logger.Warn("GET /availability - Invalid menu ID: %q", query.Get("menuId"))
		handlers.RespondBadRequest(w, msgInvalidMenuID)
		return
	}

	dateStr := query.Get("date")
	if dateStr == "" {
		h.logger.Warn("GET /availability - Missing date")
		handlers.RespondBadRequest(w, msgMissingDate)
		return
	}

	useCaseReq, err := ToUseCaseRequest(storeID, menuID, query.Get("staffId"), dateStr)
	if err != nil {
		h.logger.Warn("GET /availability - Invalid parameters: %v", err)
		handlers.RespondBadRequest(w, msgInvalidParams)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, getAvailability.ErrStoreNotFound):
			h.logger.Warn("GET /availability - Store not found: store_id=%d", storeID)
			handlers.RespondNotFound(w, msgStoreNotFound)

		case errors.Is(err, getAvailability.ErrMenuNotFound):
			h.logger.Warn("GET /availability - Menu not found: menu_id=%d", menuID)
			handlers.RespondNotFound(w, msgMenuNotFound)

		case errors.Is(err, getAvailability.ErrInvalidInput):
			h.logger.Warn("GET /availability - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidParams)

		default:
			h.logger.Error("GET /availability - Failed to resolve availability: store_id=%d, menu_id=%d, error=%v",
				storeID, menuID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /availability - Slots retrieved: store_id=%d, menu_id=%d, date=%s, slots_count=%d",
		storeID, menuID, dateStr, len(result.Slots))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}

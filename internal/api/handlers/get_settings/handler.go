package get_settings

import (
	"net/http"

	"github.com/totalboostmarketing/reservation-system/internal/api/handlers"
)

// SettingsResponse HTTP response model
type SettingsResponse struct {
	Settings map[string]string `json:"settings"`
}

type Handler struct {
	service SettingsService
	logger  Logger
}

func NewHandler(service SettingsService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/admin/settings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	settings, err := h.service.GetAll(r.Context())
	if err != nil {
		h.logger.Error("GET /admin/settings - Failed to get settings: error=%v", err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /admin/settings - Settings retrieved: count=%d", len(settings))
	handlers.RespondJSON(w, http.StatusOK, SettingsResponse{Settings: settings})
}

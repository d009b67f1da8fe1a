package update_settings

import (
	"errors"
	"net/http"

	"github.com/totalboostmarketing/reservation-system/internal/api/handlers"
	"github.com/totalboostmarketing/reservation-system/internal/service/settings"
)

const (
	msgInvalidRequestBody = "invalid request body"
	msgUnknownSetting     = "unknown setting key"
	msgInvalidValue       = "invalid setting value"
)

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

// Handle PUT /api/v1/admin/settings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req UpdateSettingsRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /admin/settings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.Update(r.Context(), req.Settings)
	if err != nil {
		switch {
		case errors.Is(err, settings.ErrUnknownSetting):
			h.logger.Warn("PUT /admin/settings - Unknown key: %v", err)
			handlers.RespondBadRequest(w, msgUnknownSetting)

		case errors.Is(err, settings.ErrInvalidValue):
			h.logger.Warn("PUT /admin/settings - Invalid value: %v", err)
			handlers.RespondBadRequest(w, msgInvalidValue)

		default:
			h.logger.Error("PUT /admin/settings - Failed to update settings: error=%v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /admin/settings - Settings updated: keys=%d", len(req.Settings))
	handlers.RespondJSON(w, http.StatusOK, SettingsResponse{Settings: result})
}

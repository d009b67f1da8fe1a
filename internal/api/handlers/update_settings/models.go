package update_settings

// UpdateSettingsRequest HTTP request model: только изменяемые ключи
type UpdateSettingsRequest struct {
	Settings map[string]string `json:"settings"`
}

// SettingsResponse HTTP response model: все настройки после обновления
type SettingsResponse struct {
	Settings map[string]string `json:"settings"`
}

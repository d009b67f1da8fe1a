package settings

import "errors"

var (
	// ErrUnknownSetting возвращается при попытке изменить нераспознанный ключ
	ErrUnknownSetting = errors.New("settings: unknown setting key")

	// ErrInvalidValue возвращается, когда значение настройки не проходит валидацию
	ErrInvalidValue = errors.New("settings: invalid setting value")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("settings: internal error")
)

package get_settings

import "context"

type SettingsService interface {
	GetAll(ctx context.Context) (map[string]string, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

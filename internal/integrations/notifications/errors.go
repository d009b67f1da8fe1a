package notifications

import "errors"

var (
	// ErrInternal возвращается при внутренних ошибках публикации
	ErrInternal = errors.New("notifications: internal error")

	// ErrPublish возвращается, когда брокер не принял сообщение
	ErrPublish = errors.New("notifications: failed to publish event")
)

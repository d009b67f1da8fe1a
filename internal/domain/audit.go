package domain

import "time"

// AuditAction тип записи в журнале изменений бронирования
type AuditAction string

const (
	AuditCreated       AuditAction = "created"
	AuditUpdated       AuditAction = "updated"
	AuditStatusChanged AuditAction = "status_changed"
	AuditCancelled     AuditAction = "cancelled"
	AuditReminderSent  AuditAction = "reminder_sent"
)

// FieldChange изменение одного поля
type FieldChange struct {
	From interface{} `json:"from"`
	To   interface{} `json:"to"`
}

// AuditLog запись журнала изменений. Журнал только дополняется.
type AuditLog struct {
	ID            int64
	ReservationID int64
	Action        AuditAction
	Changes       map[string]FieldChange
	PerformedBy   Actor
	CreatedAt     time.Time
}

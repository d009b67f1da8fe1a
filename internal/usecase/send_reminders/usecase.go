package send_reminders

import (
	"context"
	"fmt"

	"github.com/totalboostmarketing/reservation-system/internal/domain"
	"github.com/totalboostmarketing/reservation-system/internal/integrations/notifications"
)

// UseCase рассылка напоминаний о завтрашних бронированиях
type UseCase struct {
	reservationRepo ReservationRepository
	settings        SettingsProvider
	notifier        Notifier
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	reservationRepo ReservationRepository,
	settings SettingsProvider,
	notifier Notifier,
	logger Logger,
) *UseCase {
	return &UseCase{
		reservationRepo: reservationRepo,
		settings:        settings,
		notifier:        notifier,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute отправляет напоминания по бронированиям, начинающимся завтра.
// Ошибка отправки одного напоминания не останавливает остальные:
// такое бронирование останется без отметки и попадет в следующий прогон.
func (uc *UseCase) Execute(ctx context.Context) (*Result, error) {
	// 1. Настройки
	settings, err := uc.settings.Resolve(ctx)
	if err != nil {
		uc.logger.Error("SendReminders: failed to resolve settings: %v", err)
		return nil, fmt.Errorf("%w: failed to resolve settings: %v", ErrInternal, err)
	}

	if !settings.ReminderEnabled {
		uc.logger.Info("SendReminders: reminders are disabled, skipping")
		return &Result{Skipped: true}, nil
	}

	// 2. Окно: завтрашний день в часовом поясе салона
	now := uc.timeProvider.Now()
	from := domain.StartOfDay(now.In(settings.Location)).AddDate(0, 0, 1)
	to := from.AddDate(0, 0, 1)

	uc.logger.Info("SendReminders: window [%s, %s)", from.Format(domain.DateFormat), to.Format(domain.DateFormat))

	// 3. Бронирования без отправленного напоминания
	reservations, err := uc.reservationRepo.ListForReminder(ctx, from, to)
	if err != nil {
		uc.logger.Error("SendReminders: failed to list reservations: %v", err)
		return nil, fmt.Errorf("%w: failed to list reservations: %v", ErrInternal, err)
	}

	result := &Result{From: from, To: to, Found: len(reservations)}

	// 4. Отправка и отметка
	for _, r := range reservations {
		if err := uc.notifier.Publish(ctx, notifications.EventReminder, r); err != nil {
			uc.logger.Warn("SendReminders: failed to publish reminder for reservation id=%d: %v", r.ID, err)
			result.Failed++
			continue
		}

		if err := uc.reservationRepo.MarkReminderSent(ctx, r.ID, now); err != nil {
			uc.logger.Error("SendReminders: failed to mark reminder for reservation id=%d: %v", r.ID, err)
			result.Failed++
			continue
		}

		if err := uc.reservationRepo.InsertAuditLog(ctx, &domain.AuditLog{
			ReservationID: r.ID,
			Action:        domain.AuditReminderSent,
			Changes: map[string]domain.FieldChange{
				"reminderSentAt": {From: nil, To: now},
			},
			PerformedBy: domain.ActorSystem,
		}); err != nil {
			uc.logger.Warn("SendReminders: failed to write audit log for reservation id=%d: %v", r.ID, err)
		}

		result.Sent++
	}

	uc.logger.Info("SendReminders: found=%d sent=%d failed=%d", result.Found, result.Sent, result.Failed)

	return result, nil
}

package cancel_reservation

import (
	"context"
	"errors"
	"fmt"

	"github.com/totalboostmarketing/reservation-system/internal/domain"
	reservationRepo "github.com/totalboostmarketing/reservation-system/internal/infra/storage/reservation"
	"github.com/totalboostmarketing/reservation-system/internal/integrations/notifications"
)

// UseCase use case для отмены бронирования клиентом по токену
type UseCase struct {
	reservationRepo ReservationRepository
	settings        SettingsProvider
	txManager       TransactionManager
	notifier        Notifier
	metrics         Metrics
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	reservationRepo ReservationRepository,
	settings SettingsProvider,
	txManager TransactionManager,
	notifier Notifier,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		reservationRepo: reservationRepo,
		settings:        settings,
		txManager:       txManager,
		notifier:        notifier,
		metrics:         metrics,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute выполняет use case отмены бронирования
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CancelReservation: reservation=%d", req.ReservationID)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CancelReservation: validation failed: %v", err)
		return nil, err
	}

	// 2. Настройки
	settings, err := uc.settings.Resolve(ctx)
	if err != nil {
		uc.logger.Error("CancelReservation: failed to resolve settings: %v", err)
		return nil, fmt.Errorf("%w: failed to resolve settings: %v", ErrInternal, err)
	}

	var result *domain.Reservation

	// 3. Транзакция: строка бронирования блокируется до конца изменения
	err = uc.txManager.Do(ctx, func(txCtx context.Context) error {
		// 3.1. Бронирование
		reservation, err := uc.reservationRepo.GetByID(txCtx, req.ReservationID)
		if err != nil {
			if errors.Is(err, reservationRepo.ErrReservationNotFound) {
				uc.logger.Warn("CancelReservation: reservation id=%d not found", req.ReservationID)
				return ErrReservationNotFound
			}
			uc.logger.Error("CancelReservation: failed to get reservation id=%d: %v", req.ReservationID, err)
			return fmt.Errorf("%w: failed to get reservation: %w", ErrInternal, err)
		}

		// 3.2. Токен
		if !tokenMatches(reservation.CancelToken, req.CancelToken) {
			uc.logger.Warn("CancelReservation: token mismatch for reservation id=%d", req.ReservationID)
			return ErrForbidden
		}

		// 3.3. Статус и дедлайн (на момент запроса)
		if err := checkCancellable(reservation, uc.timeProvider.Now(), settings); err != nil {
			uc.logger.Warn("CancelReservation: reservation id=%d cannot be cancelled: %v", req.ReservationID, err)
			return err
		}

		// 3.4. Отмена
		previous := reservation.Status
		reservation.Status = domain.StatusCancelled
		reservation.UpdatedBy = domain.ActorCustomer

		if err := uc.reservationRepo.Update(txCtx, reservation); err != nil {
			uc.logger.Error("CancelReservation: failed to update reservation id=%d: %v", req.ReservationID, err)
			return fmt.Errorf("%w: failed to update reservation: %w", ErrInternal, err)
		}

		// 3.5. Журнал изменений
		if err := uc.reservationRepo.InsertAuditLog(txCtx, &domain.AuditLog{
			ReservationID: reservation.ID,
			Action:        domain.AuditCancelled,
			Changes: map[string]domain.FieldChange{
				"status": {From: previous, To: domain.StatusCancelled},
			},
			PerformedBy: domain.ActorCustomer,
		}); err != nil {
			uc.logger.Error("CancelReservation: failed to write audit log: %v", err)
			return fmt.Errorf("%w: failed to write audit log: %w", ErrInternal, err)
		}

		result = reservation
		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.logger.Info("CancelReservation: successfully cancelled reservation id=%d", result.ID)

	// 4. После коммита: метрики и уведомление
	if uc.metrics != nil {
		uc.metrics.IncReservationCancelled(string(domain.ActorCustomer))
	}

	if err := uc.notifier.Publish(ctx, notifications.EventReservationCancel, result); err != nil {
		uc.logger.Warn("CancelReservation: notification for reservation id=%d not published: %v", result.ID, err)
	}

	return &Response{
		ReservationID: result.ID,
		Status:        result.Status,
		CancelledAt:   result.UpdatedAt,
	}, nil
}

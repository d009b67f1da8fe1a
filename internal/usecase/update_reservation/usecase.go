package update_reservation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/totalboostmarketing/reservation-system/internal/availability"
	"github.com/totalboostmarketing/reservation-system/internal/domain"
	menuRepo "github.com/totalboostmarketing/reservation-system/internal/infra/storage/menu"
	reservationRepo "github.com/totalboostmarketing/reservation-system/internal/infra/storage/reservation"
	storeRepo "github.com/totalboostmarketing/reservation-system/internal/infra/storage/store"
	"github.com/totalboostmarketing/reservation-system/internal/integrations/notifications"
	"github.com/totalboostmarketing/reservation-system/internal/pricing"
)

// UseCase use case для изменения бронирования администратором
type UseCase struct {
	reservationRepo ReservationRepository
	storeRepo       StoreRepository
	menuRepo        MenuRepository
	txManager       TransactionManager
	notifier        Notifier
	metrics         Metrics
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	reservationRepo ReservationRepository,
	storeRepo StoreRepository,
	menuRepo MenuRepository,
	txManager TransactionManager,
	notifier Notifier,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		reservationRepo: reservationRepo,
		storeRepo:       storeRepo,
		menuRepo:        menuRepo,
		txManager:       txManager,
		notifier:        notifier,
		metrics:         metrics,
		logger:          logger,
	}
}

// Execute выполняет use case обновления бронирования
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("UpdateReservation: reservation=%d", req.ReservationID)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("UpdateReservation: validation failed: %v", err)
		return nil, err
	}

	var (
		result  *domain.Reservation
		before  domain.Reservation
		changes map[string]domain.FieldChange
	)

	// 2. Транзакция: чтение, проверки и запись под одной блокировкой
	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 2.1. Текущее состояние
		current, err := uc.reservationRepo.GetByID(txCtx, req.ReservationID)
		if err != nil {
			if errors.Is(err, reservationRepo.ErrReservationNotFound) {
				uc.logger.Warn("UpdateReservation: reservation id=%d not found", req.ReservationID)
				return ErrReservationNotFound
			}
			uc.logger.Error("UpdateReservation: failed to get reservation id=%d: %v", req.ReservationID, err)
			return fmt.Errorf("%w: failed to get reservation: %w", ErrInternal, err)
		}

		before = *current
		updated := *current

		// 2.2. Применение изменений
		if err := uc.apply(txCtx, req, &updated); err != nil {
			return err
		}

		changes = diffReservations(&before, &updated)
		if len(changes) == 0 {
			result = current
			return nil
		}

		// 2.3. Проверка пересечений (само бронирование исключается)
		if needsConflictCheck(&before, &updated) {
			occupying, err := uc.reservationRepo.ListOccupying(txCtx, updated.StoreID, updated.StartTime, updated.EndTime, &updated.ID)
			if err != nil {
				uc.logger.Error("UpdateReservation: failed to list reservations: %v", err)
				return fmt.Errorf("%w: failed to list reservations: %w", ErrInternal, err)
			}

			var staffReservations []*domain.Reservation
			for _, r := range occupying {
				if r.StaffID == updated.StaffID {
					staffReservations = append(staffReservations, r)
				}
			}

			if availability.HasConflict(updated.StartTime, updated.EndTime, staffReservations) {
				uc.logger.Warn("UpdateReservation: staff %d is busy at %s", updated.StaffID, updated.StartTime)
				return ErrSlotNotAvailable
			}
		}

		// 2.4. Запись
		updated.UpdatedBy = domain.ActorAdmin
		if err := uc.reservationRepo.Update(txCtx, &updated); err != nil {
			if errors.Is(err, reservationRepo.ErrOverlap) {
				uc.logger.Warn("UpdateReservation: overlap rejected by database for reservation id=%d", updated.ID)
				return ErrSlotNotAvailable
			}
			uc.logger.Error("UpdateReservation: failed to update reservation id=%d: %v", updated.ID, err)
			return fmt.Errorf("%w: failed to update reservation: %w", ErrInternal, err)
		}

		// 2.5. Журнал изменений
		if err := uc.reservationRepo.InsertAuditLog(txCtx, &domain.AuditLog{
			ReservationID: updated.ID,
			Action:        auditAction(changes),
			Changes:       changes,
			PerformedBy:   domain.ActorAdmin,
		}); err != nil {
			uc.logger.Error("UpdateReservation: failed to write audit log: %v", err)
			return fmt.Errorf("%w: failed to write audit log: %w", ErrInternal, err)
		}

		result = &updated
		return nil
	})

	if err != nil {
		return nil, err
	}

	if len(changes) == 0 {
		uc.logger.Info("UpdateReservation: nothing changed for reservation id=%d", result.ID)
		return &Response{Reservation: result, Changes: changes}, nil
	}

	uc.logger.Info("UpdateReservation: successfully updated reservation id=%d (%d fields)", result.ID, len(changes))

	// 3. После коммита: метрики и уведомление
	if uc.metrics != nil && before.Status != domain.StatusCancelled && result.Status == domain.StatusCancelled {
		uc.metrics.IncReservationCancelled(string(domain.ActorAdmin))
	}

	if req.Notify {
		if err := uc.notifier.Publish(ctx, notifications.EventReservationChange, result); err != nil {
			uc.logger.Warn("UpdateReservation: notification for reservation id=%d not published: %v", result.ID, err)
		}
	}

	return &Response{Reservation: result, Changes: changes}, nil
}

// apply переносит поля запроса в бронирование с проверкой статуса, меню и мастера
func (uc *UseCase) apply(ctx context.Context, req *Request, r *domain.Reservation) error {
	// Статус
	if req.Status != nil && *req.Status != r.Status {
		if !r.CanTransitionTo(*req.Status) {
			uc.logger.Warn("UpdateReservation: transition %s -> %s not allowed", r.Status, *req.Status)
			return fmt.Errorf("%w: %s -> %s", ErrInvalidState, r.Status, *req.Status)
		}
		r.Status = *req.Status
	}

	// Меню: цена пересчитывается, выданная скидка сохраняется
	var menu *domain.Menu
	menuChanged := req.MenuID != nil && *req.MenuID != r.MenuID
	if menuChanged {
		m, err := uc.loadMenu(ctx, *req.MenuID)
		if err != nil {
			return err
		}
		menu = m

		r.MenuID = m.ID
		r.OriginalPrice = pricing.OriginalPrice(m.Price, m.TaxRate)
		r.DiscountAmount, r.FinalPrice = pricing.Reprice(r.OriginalPrice, r.DiscountAmount)
	}

	// Мастер должен работать в том же салоне
	if req.StaffID != nil && *req.StaffID != r.StaffID {
		staff, err := uc.storeRepo.GetStaff(ctx, *req.StaffID)
		if err != nil {
			if errors.Is(err, storeRepo.ErrStaffNotFound) {
				uc.logger.Warn("UpdateReservation: staff id=%d not found", *req.StaffID)
				return ErrStaffNotFound
			}
			uc.logger.Error("UpdateReservation: failed to get staff id=%d: %v", *req.StaffID, err)
			return fmt.Errorf("%w: failed to get staff: %w", ErrInternal, err)
		}
		if !staff.IsActive || staff.StoreID != r.StoreID {
			uc.logger.Warn("UpdateReservation: staff id=%d is not available in store %d", staff.ID, r.StoreID)
			return ErrStaffNotFound
		}
		r.StaffID = staff.ID
	}

	// Время: при смене начала или меню конец пересчитывается по длительности меню
	startChanged := req.StartTime != nil && !req.StartTime.Equal(r.StartTime)
	if req.StartTime != nil {
		r.StartTime = *req.StartTime
	}

	switch {
	case req.EndTime != nil:
		r.EndTime = *req.EndTime
	case startChanged || menuChanged:
		if menu == nil {
			m, err := uc.loadMenu(ctx, r.MenuID)
			if err != nil {
				return err
			}
			menu = m
		}
		r.EndTime = r.StartTime.Add(time.Duration(menu.EffectiveDuration()) * time.Minute)
	}

	if !r.EndTime.After(r.StartTime) {
		return fmt.Errorf("%w: endTime must be after startTime", ErrInvalidInput)
	}

	if req.AdminNote != nil {
		if *req.AdminNote == "" {
			r.AdminNote = nil
		} else {
			note := *req.AdminNote
			r.AdminNote = &note
		}
	}

	return nil
}

func (uc *UseCase) loadMenu(ctx context.Context, id int64) (*domain.Menu, error) {
	m, err := uc.menuRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, menuRepo.ErrMenuNotFound) {
			uc.logger.Warn("UpdateReservation: menu id=%d not found", id)
			return nil, ErrMenuNotFound
		}
		uc.logger.Error("UpdateReservation: failed to get menu id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: failed to get menu: %w", ErrInternal, err)
	}
	return m, nil
}

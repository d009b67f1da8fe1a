package get_availability

import (
	"context"
	"errors"
	"fmt"

	"github.com/totalboostmarketing/reservation-system/internal/availability"
	"github.com/totalboostmarketing/reservation-system/internal/domain"
	menuRepo "github.com/totalboostmarketing/reservation-system/internal/infra/storage/menu"
	storeRepo "github.com/totalboostmarketing/reservation-system/internal/infra/storage/store"
	"github.com/totalboostmarketing/reservation-system/pkg/ptr"
)

// UseCase use case для получения доступных слотов на дату
type UseCase struct {
	storeRepo       StoreRepository
	menuRepo        MenuRepository
	reservationRepo ReservationRepository
	settings        SettingsProvider
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	storeRepo StoreRepository,
	menuRepo MenuRepository,
	reservationRepo ReservationRepository,
	settings SettingsProvider,
	logger Logger,
) *UseCase {
	return &UseCase{
		storeRepo:       storeRepo,
		menuRepo:        menuRepo,
		reservationRepo: reservationRepo,
		settings:        settings,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute выполняет use case получения доступных слотов.
// Закрытый день, выходной, дата вне окна записи или пустой пул мастеров дают пустой список.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailability: store=%d, menu=%d, staff=%d, date=%s",
		req.StoreID, req.MenuID, ptr.Value(req.StaffID), req.Date.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailability: validation failed: %v", err)
		return nil, err
	}

	// 2. Настройки и текущее время
	settings, err := uc.settings.Resolve(ctx)
	if err != nil {
		uc.logger.Error("GetAvailability: failed to resolve settings: %v", err)
		return nil, fmt.Errorf("%w: failed to resolve settings: %v", ErrInternal, err)
	}
	now := uc.timeProvider.Now()
	date := localDate(req.Date, settings.Location)

	// 3. Салон
	store, err := uc.storeRepo.GetByID(ctx, req.StoreID)
	if err != nil {
		if errors.Is(err, storeRepo.ErrStoreNotFound) {
			uc.logger.Warn("GetAvailability: store id=%d not found", req.StoreID)
			return nil, ErrStoreNotFound
		}
		uc.logger.Error("GetAvailability: failed to get store id=%d: %v", req.StoreID, err)
		return nil, fmt.Errorf("%w: failed to get store: %v", ErrInternal, err)
	}

	// 4. Меню
	menu, err := uc.menuRepo.GetByID(ctx, req.MenuID)
	if err != nil {
		if errors.Is(err, menuRepo.ErrMenuNotFound) {
			uc.logger.Warn("GetAvailability: menu id=%d not found", req.MenuID)
			return nil, ErrMenuNotFound
		}
		uc.logger.Error("GetAvailability: failed to get menu id=%d: %v", req.MenuID, err)
		return nil, fmt.Errorf("%w: failed to get menu: %v", ErrInternal, err)
	}

	response := &Response{
		Date:            date,
		StoreID:         req.StoreID,
		MenuID:          req.MenuID,
		StaffID:         req.StaffID,
		DurationMinutes: menu.EffectiveDuration(),
		Slots:           []Slot{},
	}

	if !store.IsActive {
		uc.logger.Info("GetAvailability: store id=%d is inactive", req.StoreID)
		return response, nil
	}

	// Снятое с продажи меню существует, но для клиента недоступно
	if !menu.IsActive {
		uc.logger.Info("GetAvailability: menu id=%d is inactive", req.MenuID)
		return response, nil
	}

	// 5. Окно записи
	if !withinBookingRange(date, now, settings) {
		uc.logger.Info("GetAvailability: date %s is outside of booking range", date.Format(domain.DateFormat))
		return response, nil
	}

	// 6. Режим работы и выходные
	businessHour, err := uc.storeRepo.GetBusinessHour(ctx, req.StoreID, date.Weekday())
	if err != nil {
		if errors.Is(err, storeRepo.ErrBusinessHourNotFound) {
			uc.logger.Info("GetAvailability: no business hours for store=%d on %s", req.StoreID, date.Weekday())
			return response, nil
		}
		uc.logger.Error("GetAvailability: failed to get business hours: %v", err)
		return nil, fmt.Errorf("%w: failed to get business hours: %v", ErrInternal, err)
	}

	isHoliday, err := uc.storeRepo.IsHoliday(ctx, req.StoreID, date)
	if err != nil {
		uc.logger.Error("GetAvailability: failed to check holiday: %v", err)
		return nil, fmt.Errorf("%w: failed to check holiday: %v", ErrInternal, err)
	}

	// 7. Пул мастеров
	pool, err := uc.resolvePool(ctx, req)
	if err != nil {
		return nil, err
	}

	// 8. Бронирования салона за день
	dayEnd := date.AddDate(0, 0, 1)
	reservations, err := uc.reservationRepo.ListOccupying(ctx, req.StoreID, date, dayEnd, nil)
	if err != nil {
		uc.logger.Error("GetAvailability: failed to list reservations: %v", err)
		return nil, fmt.Errorf("%w: failed to list reservations: %v", ErrInternal, err)
	}

	// 9. Расчет слотов
	slots := availability.Resolve(availability.Input{
		Date:         date,
		Location:     settings.Location,
		Now:          now,
		BusinessHour: businessHour,
		IsHoliday:    isHoliday,
		Menu:         menu,
		Pool:         pool,
		Reservations: reservations,
	})

	available := 0
	for _, s := range slots {
		response.Slots = append(response.Slots, Slot{
			Time:         s.Time,
			Available:    s.Available,
			FreeStaffIDs: s.FreeStaffIDs,
		})
		if s.Available {
			available++
		}
	}

	uc.logger.Info("GetAvailability: %d/%d slots available for store=%d on %s",
		available, len(slots), req.StoreID, date.Format(domain.DateFormat))
	return response, nil
}

// resolvePool определяет мастеров-кандидатов.
// Указанный мастер попадает в пул, только если он активен и работает в этом салоне.
func (uc *UseCase) resolvePool(ctx context.Context, req *Request) ([]*domain.Staff, error) {
	if req.StaffID == nil {
		staff, err := uc.storeRepo.ListActiveStaff(ctx, req.StoreID)
		if err != nil {
			uc.logger.Error("GetAvailability: failed to list staff for store=%d: %v", req.StoreID, err)
			return nil, fmt.Errorf("%w: failed to list staff: %v", ErrInternal, err)
		}
		return staff, nil
	}

	staff, err := uc.storeRepo.GetStaff(ctx, *req.StaffID)
	if err != nil {
		if errors.Is(err, storeRepo.ErrStaffNotFound) {
			uc.logger.Info("GetAvailability: staff id=%d not found, empty pool", *req.StaffID)
			return nil, nil
		}
		uc.logger.Error("GetAvailability: failed to get staff id=%d: %v", *req.StaffID, err)
		return nil, fmt.Errorf("%w: failed to get staff: %v", ErrInternal, err)
	}

	if !staff.IsActive || staff.StoreID != req.StoreID {
		uc.logger.Info("GetAvailability: staff id=%d is not bookable at store=%d", staff.ID, req.StoreID)
		return nil, nil
	}

	return []*domain.Staff{staff}, nil
}

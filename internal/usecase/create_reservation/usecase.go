package create_reservation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/totalboostmarketing/reservation-system/internal/availability"
	"github.com/totalboostmarketing/reservation-system/internal/domain"
	discountRepo "github.com/totalboostmarketing/reservation-system/internal/infra/storage/discount"
	menuRepo "github.com/totalboostmarketing/reservation-system/internal/infra/storage/menu"
	reservationRepo "github.com/totalboostmarketing/reservation-system/internal/infra/storage/reservation"
	storeRepo "github.com/totalboostmarketing/reservation-system/internal/infra/storage/store"
	"github.com/totalboostmarketing/reservation-system/internal/integrations/notifications"
	"github.com/totalboostmarketing/reservation-system/internal/pricing"
	"github.com/totalboostmarketing/reservation-system/pkg/ptr"
)

// Результаты применения купона для метрик
const (
	couponApplied     = "applied"
	couponNotFound    = "not_found"
	couponIneligible  = "ineligible"
	couponCapReached  = "cap_reached"
	couponLookupError = "error"
)

// UseCase use case для создания бронирования
type UseCase struct {
	storeRepo       StoreRepository
	menuRepo        MenuRepository
	reservationRepo ReservationRepository
	discountRepo    DiscountRepository
	settings        SettingsProvider
	txManager       TransactionManager
	notifier        Notifier
	metrics         Metrics
	timeProvider    TimeProvider
	newToken        func() string
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	storeRepo StoreRepository,
	menuRepo MenuRepository,
	reservationRepo ReservationRepository,
	discountRepo DiscountRepository,
	settings SettingsProvider,
	txManager TransactionManager,
	notifier Notifier,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		storeRepo:       storeRepo,
		menuRepo:        menuRepo,
		reservationRepo: reservationRepo,
		discountRepo:    discountRepo,
		settings:        settings,
		txManager:       txManager,
		notifier:        notifier,
		metrics:         metrics,
		timeProvider:    &RealTimeProvider{},
		newToken:        uuid.NewString,
		logger:          logger,
	}
}

// Execute выполняет use case создания бронирования.
// Проверка пересечений, выбор мастера, списание купона и вставка идут в одной
// сериализуемой транзакции; exclusion constraint в БД страхует от двойной записи.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateReservation: store=%d, menu=%d, staff=%d, start=%s, channel=%s",
		req.StoreID, req.MenuID, ptr.Value(req.StaffID), req.StartTime.Format(time.RFC3339), req.Channel)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateReservation: validation failed: %v", err)
		return nil, err
	}

	// 2. Настройки и текущее время
	settings, err := uc.settings.Resolve(ctx)
	if err != nil {
		uc.logger.Error("CreateReservation: failed to resolve settings: %v", err)
		return nil, fmt.Errorf("%w: failed to resolve settings: %v", ErrInternal, err)
	}
	now := uc.timeProvider.Now()

	// 3. Меню и салон
	menu, err := uc.menuRepo.GetByID(ctx, req.MenuID)
	if err != nil {
		if errors.Is(err, menuRepo.ErrMenuNotFound) {
			uc.logger.Warn("CreateReservation: menu id=%d not found", req.MenuID)
			return nil, ErrMenuNotFound
		}
		uc.logger.Error("CreateReservation: failed to get menu id=%d: %v", req.MenuID, err)
		return nil, fmt.Errorf("%w: failed to get menu: %v", ErrInternal, err)
	}
	if !menu.IsActive && req.Channel == domain.ChannelWeb {
		uc.logger.Warn("CreateReservation: menu id=%d is inactive", req.MenuID)
		return nil, ErrSlotNotAvailable
	}

	store, err := uc.storeRepo.GetByID(ctx, req.StoreID)
	if err != nil {
		if errors.Is(err, storeRepo.ErrStoreNotFound) {
			uc.logger.Warn("CreateReservation: store id=%d not found", req.StoreID)
			return nil, ErrStoreNotFound
		}
		uc.logger.Error("CreateReservation: failed to get store id=%d: %v", req.StoreID, err)
		return nil, fmt.Errorf("%w: failed to get store: %v", ErrInternal, err)
	}

	// 4. Время окончания
	start := req.StartTime
	end := start.Add(time.Duration(menu.EffectiveDuration()) * time.Minute)
	if req.EndTime != nil {
		end = *req.EndTime
	}

	// 5. Онлайн-запись: будущее время, окно записи, рабочие часы, выходные
	if req.Channel == domain.ChannelWeb {
		if err := uc.checkWebBookable(ctx, store, start, end, now, settings); err != nil {
			return nil, err
		}
	}

	language := req.Customer.Language
	if language == "" {
		language = settings.DefaultLanguage
	}

	// 6. Купон проверяется до транзакции, списывается внутри
	original := pricing.OriginalPrice(menu.Price, menu.TaxRate)
	var (
		coupon      *domain.Coupon
		lookupState string
		couponState string
		result      *domain.Reservation
	)
	if req.CouponCode != nil {
		coupon, lookupState = uc.lookupCoupon(ctx, *req.CouponCode, req, original, now)
	}

	// 7. Сериализуемая транзакция
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 7.1. Бронирования салона на день с блокировкой (FOR UPDATE)
		from, to := occupiedWindow(start, end, settings.Location)
		occupying, err := uc.reservationRepo.ListOccupying(txCtx, req.StoreID, from, to, nil)
		if err != nil {
			uc.logger.Error("CreateReservation: failed to list reservations: %v", err)
			return fmt.Errorf("%w: failed to list reservations: %w", ErrInternal, err)
		}

		// 7.2. Мастер
		staffID, err := uc.resolveStaff(txCtx, req, occupying, start, end)
		if err != nil {
			return err
		}

		// 7.3. Цена и скидка
		quote, state, err := uc.quote(txCtx, req, coupon, original, now)
		if err != nil {
			return err
		}
		couponState = state
		if couponState == "" {
			couponState = lookupState
		}

		// 7.4. Вставка
		reservation := &domain.Reservation{
			StoreID:        req.StoreID,
			MenuID:         req.MenuID,
			StaffID:        staffID,
			StartTime:      start,
			EndTime:        end,
			Status:         domain.StatusReserved,
			Channel:        req.Channel,
			CustomerName:   req.Customer.Name,
			CustomerEmail:  req.Customer.Email,
			CustomerPhone:  req.Customer.Phone,
			Language:       language,
			OriginalPrice:  quote.OriginalPrice,
			DiscountAmount: quote.DiscountAmount,
			FinalPrice:     quote.FinalPrice,
			Discount:       quote.Source,
			CancelToken:    uc.newToken(),
			AdminNote:      req.AdminNote,
			CreatedBy:      req.PerformedBy,
			UpdatedBy:      req.PerformedBy,
		}

		created, err := uc.reservationRepo.Create(txCtx, reservation)
		if err != nil {
			if errors.Is(err, reservationRepo.ErrOverlap) {
				uc.logger.Warn("CreateReservation: staff=%d already booked at %s", staffID, start.Format(time.RFC3339))
				return ErrSlotNotAvailable
			}
			uc.logger.Error("CreateReservation: failed to create reservation: %v", err)
			return fmt.Errorf("%w: failed to create reservation: %w", ErrInternal, err)
		}

		// 7.5. Журнал изменений
		if err := uc.reservationRepo.InsertAuditLog(txCtx, &domain.AuditLog{
			ReservationID: created.ID,
			Action:        domain.AuditCreated,
			Changes:       creationChanges(created),
			PerformedBy:   req.PerformedBy,
		}); err != nil {
			uc.logger.Error("CreateReservation: failed to write audit log: %v", err)
			return fmt.Errorf("%w: failed to write audit log: %w", ErrInternal, err)
		}

		result = created
		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.logger.Info("CreateReservation: successfully created reservation id=%d staff=%d final_price=%d",
		result.ID, result.StaffID, result.FinalPrice)

	// 8. После коммита: метрики и уведомление
	if uc.metrics != nil {
		uc.metrics.IncReservationCreated(string(result.Channel))
		if couponState != "" {
			uc.metrics.IncCouponRedemption(couponState)
		}
	}

	if err := uc.notifier.Publish(ctx, notifications.EventReservationComplete, result); err != nil {
		uc.logger.Warn("CreateReservation: confirmation for reservation id=%d not published: %v", result.ID, err)
	}

	return &Response{
		Reservation:    result,
		OriginalPrice:  result.OriginalPrice,
		DiscountAmount: result.DiscountAmount,
		FinalPrice:     result.FinalPrice,
	}, nil
}

// checkWebBookable проверки, которые применяются только к онлайн-записи.
// Администратор по телефону может записать клиента вне сетки.
func (uc *UseCase) checkWebBookable(
	ctx context.Context,
	store *domain.Store,
	start, end time.Time,
	now time.Time,
	settings domain.Settings,
) error {
	if !store.IsActive {
		uc.logger.Warn("CreateReservation: store id=%d is inactive", store.ID)
		return ErrSlotNotAvailable
	}

	if !start.After(now) {
		uc.logger.Warn("CreateReservation: start %s is not in the future", start.Format(time.RFC3339))
		return fmt.Errorf("%w: start time is in the past", ErrSlotNotAvailable)
	}

	localDay := domain.StartOfDay(start.In(settings.Location))
	if last, limited := settings.LastBookableDate(now); limited && localDay.After(last) {
		uc.logger.Warn("CreateReservation: %s is beyond booking range of %d days",
			localDay.Format(domain.DateFormat), settings.BookingRangeDays)
		return ErrOutsideBookingWindow
	}

	businessHour, err := uc.storeRepo.GetBusinessHour(ctx, store.ID, localDay.Weekday())
	if err != nil {
		if errors.Is(err, storeRepo.ErrBusinessHourNotFound) {
			uc.logger.Warn("CreateReservation: store id=%d has no business hours on %s", store.ID, localDay.Weekday())
			return fmt.Errorf("%w: store is closed", ErrSlotNotAvailable)
		}
		uc.logger.Error("CreateReservation: failed to get business hours: %v", err)
		return fmt.Errorf("%w: failed to get business hours: %v", ErrInternal, err)
	}

	if !fitsBusinessHours(businessHour, start, end, settings.Location) {
		uc.logger.Warn("CreateReservation: %s-%s is outside business hours",
			start.In(settings.Location).Format(domain.TimeFormat), end.In(settings.Location).Format(domain.TimeFormat))
		return fmt.Errorf("%w: outside business hours", ErrSlotNotAvailable)
	}

	isHoliday, err := uc.storeRepo.IsHoliday(ctx, store.ID, localDay)
	if err != nil {
		uc.logger.Error("CreateReservation: failed to check holiday: %v", err)
		return fmt.Errorf("%w: failed to check holiday: %v", ErrInternal, err)
	}
	if isHoliday {
		uc.logger.Warn("CreateReservation: %s is a holiday for store id=%d", localDay.Format(domain.DateFormat), store.ID)
		return fmt.Errorf("%w: store is closed", ErrSlotNotAvailable)
	}

	return nil
}

// resolveStaff возвращает мастера для бронирования.
// Указанный мастер должен быть активен, работать в салоне и быть свободен.
// Иначе выбирается первый свободный мастер в порядке отображения.
func (uc *UseCase) resolveStaff(
	ctx context.Context,
	req *Request,
	occupying []*domain.Reservation,
	start, end time.Time,
) (int64, error) {
	if req.StaffID != nil {
		staff, err := uc.storeRepo.GetStaff(ctx, *req.StaffID)
		if err != nil {
			if errors.Is(err, storeRepo.ErrStaffNotFound) {
				uc.logger.Warn("CreateReservation: staff id=%d not found", *req.StaffID)
				return 0, ErrStaffNotFound
			}
			uc.logger.Error("CreateReservation: failed to get staff id=%d: %v", *req.StaffID, err)
			return 0, fmt.Errorf("%w: failed to get staff: %w", ErrInternal, err)
		}
		if !staff.IsActive || staff.StoreID != req.StoreID {
			uc.logger.Warn("CreateReservation: staff id=%d is not bookable at store=%d", staff.ID, req.StoreID)
			return 0, ErrStaffNotFound
		}

		if _, ok := availability.PickStaff([]*domain.Staff{staff}, occupying, start, end); !ok {
			uc.logger.Warn("CreateReservation: staff id=%d is busy at %s", staff.ID, start.Format(time.RFC3339))
			return 0, ErrSlotNotAvailable
		}
		return staff.ID, nil
	}

	pool, err := uc.storeRepo.ListActiveStaff(ctx, req.StoreID)
	if err != nil {
		uc.logger.Error("CreateReservation: failed to list staff for store=%d: %v", req.StoreID, err)
		return 0, fmt.Errorf("%w: failed to list staff: %w", ErrInternal, err)
	}

	staffID, ok := availability.PickStaff(pool, occupying, start, end)
	if !ok {
		uc.logger.Warn("CreateReservation: no free staff at store=%d for %s", req.StoreID, start.Format(time.RFC3339))
		return 0, ErrSlotNotAvailable
	}

	uc.logger.Info("CreateReservation: auto-assigned staff=%d", staffID)
	return staffID, nil
}

// lookupCoupon ищет купон и проверяет условия применения.
// Ненайденный или неподходящий купон не является ошибкой: бронирование идет без него.
func (uc *UseCase) lookupCoupon(
	ctx context.Context,
	code string,
	req *Request,
	original int64,
	now time.Time,
) (*domain.Coupon, string) {
	coupon, err := uc.discountRepo.GetCouponByCode(ctx, code)
	if err != nil {
		if errors.Is(err, discountRepo.ErrCouponNotFound) {
			uc.logger.Info("CreateReservation: coupon %q not found, ignoring", code)
			return nil, couponNotFound
		}
		uc.logger.Warn("CreateReservation: coupon %q lookup failed, ignoring: %v", code, err)
		return nil, couponLookupError
	}

	if !pricing.CouponQualifies(coupon, req.StoreID, req.MenuID, original, now) {
		uc.logger.Info("CreateReservation: coupon id=%d does not qualify", coupon.ID)
		return nil, couponIneligible
	}

	return coupon, ""
}

// quote рассчитывает цену внутри транзакции: сначала купон (с атомарным списанием),
// затем лучшая кампания. Возвращает итоговое состояние купона для метрик.
func (uc *UseCase) quote(
	ctx context.Context,
	req *Request,
	coupon *domain.Coupon,
	original int64,
	now time.Time,
) (pricing.Quote, string, error) {
	couponState := ""

	if coupon != nil {
		redeemed, err := uc.discountRepo.RedeemCoupon(ctx, coupon.ID)
		if err != nil {
			uc.logger.Error("CreateReservation: failed to redeem coupon id=%d: %v", coupon.ID, err)
			return pricing.Quote{}, "", fmt.Errorf("%w: failed to redeem coupon: %w", ErrInternal, err)
		}
		if redeemed {
			uc.logger.Info("CreateReservation: applying coupon id=%d", coupon.ID)
			return pricing.CouponQuote(original, coupon), couponApplied, nil
		}
		uc.logger.Info("CreateReservation: coupon id=%d usage cap reached", coupon.ID)
		couponState = couponCapReached
	}

	campaigns, err := uc.discountRepo.ListActiveCampaigns(ctx, now)
	if err != nil {
		uc.logger.Error("CreateReservation: failed to list campaigns: %v", err)
		return pricing.Quote{}, "", fmt.Errorf("%w: failed to list campaigns: %w", ErrInternal, err)
	}

	if campaign := pricing.SelectCampaign(campaigns, req.StoreID, req.MenuID, now); campaign != nil {
		uc.logger.Info("CreateReservation: applying campaign id=%d", campaign.ID)
		return pricing.CampaignQuote(original, campaign), couponState, nil
	}

	return pricing.NoDiscountQuote(original), couponState, nil
}

// creationChanges снимок ключевых полей для записи "created"
func creationChanges(r *domain.Reservation) map[string]domain.FieldChange {
	return map[string]domain.FieldChange{
		"status":     {From: nil, To: r.Status},
		"staffId":    {From: nil, To: r.StaffID},
		"menuId":     {From: nil, To: r.MenuID},
		"startTime":  {From: nil, To: r.StartTime},
		"endTime":    {From: nil, To: r.EndTime},
		"finalPrice": {From: nil, To: r.FinalPrice},
	}
}

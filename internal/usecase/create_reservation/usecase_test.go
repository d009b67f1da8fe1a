package create_reservation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/totalboostmarketing/reservation-system/internal/availability"
	"github.com/totalboostmarketing/reservation-system/internal/domain"
	discountRepo "github.com/totalboostmarketing/reservation-system/internal/infra/storage/discount"
	menuRepo "github.com/totalboostmarketing/reservation-system/internal/infra/storage/menu"
	reservationRepo "github.com/totalboostmarketing/reservation-system/internal/infra/storage/reservation"
	storeRepo "github.com/totalboostmarketing/reservation-system/internal/infra/storage/store"
	"github.com/totalboostmarketing/reservation-system/internal/integrations/notifications"
	"github.com/totalboostmarketing/reservation-system/pkg/logger"
	"github.com/totalboostmarketing/reservation-system/pkg/ptr"
	"github.com/totalboostmarketing/reservation-system/pkg/types"
)

// ---- fakes ----

type fakeStores struct {
	store    *domain.Store
	hours    map[time.Weekday]*domain.BusinessHour
	holidays map[string]bool
	staff    []*domain.Staff
}

func (f *fakeStores) GetByID(_ context.Context, id int64) (*domain.Store, error) {
	if f.store == nil || f.store.ID != id {
		return nil, storeRepo.ErrStoreNotFound
	}
	return f.store, nil
}

func (f *fakeStores) GetBusinessHour(_ context.Context, _ int64, day time.Weekday) (*domain.BusinessHour, error) {
	bh, ok := f.hours[day]
	if !ok {
		return nil, storeRepo.ErrBusinessHourNotFound
	}
	return bh, nil
}

func (f *fakeStores) IsHoliday(_ context.Context, _ int64, date time.Time) (bool, error) {
	return f.holidays[date.Format(domain.DateFormat)], nil
}

func (f *fakeStores) ListActiveStaff(_ context.Context, storeID int64) ([]*domain.Staff, error) {
	var result []*domain.Staff
	for _, s := range f.staff {
		if s.StoreID == storeID && s.IsActive {
			result = append(result, s)
		}
	}
	return result, nil
}

func (f *fakeStores) GetStaff(_ context.Context, id int64) (*domain.Staff, error) {
	for _, s := range f.staff {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, storeRepo.ErrStaffNotFound
}

type fakeMenus map[int64]*domain.Menu

func (f fakeMenus) GetByID(_ context.Context, id int64) (*domain.Menu, error) {
	m, ok := f[id]
	if !ok {
		return nil, menuRepo.ErrMenuNotFound
	}
	return m, nil
}

type fakeReservations struct {
	items     []*domain.Reservation
	audit     []*domain.AuditLog
	createErr error
}

func (f *fakeReservations) Create(_ context.Context, r *domain.Reservation) (*domain.Reservation, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	// Эмулирует exclusion constraint
	for _, existing := range f.items {
		if existing.StaffID == r.StaffID && existing.IsOccupying() &&
			availability.Overlaps(existing.StartTime, existing.EndTime, r.StartTime, r.EndTime) {
			return nil, reservationRepo.ErrOverlap
		}
	}
	r.ID = int64(len(f.items) + 100)
	f.items = append(f.items, r)
	return r, nil
}

func (f *fakeReservations) ListOccupying(_ context.Context, storeID int64, from, to time.Time, _ *int64) ([]*domain.Reservation, error) {
	var result []*domain.Reservation
	for _, r := range f.items {
		if r.StoreID == storeID && r.IsOccupying() && r.StartTime.Before(to) && r.EndTime.After(from) {
			result = append(result, r)
		}
	}
	return result, nil
}

func (f *fakeReservations) InsertAuditLog(_ context.Context, entry *domain.AuditLog) error {
	f.audit = append(f.audit, entry)
	return nil
}

type fakeDiscounts struct {
	coupons   map[string]*domain.Coupon
	campaigns []*domain.Campaign
	lookupErr error
	// погашения другими бронированиями между проверкой купона и RedeemCoupon
	concurrentRedemptions int64
}

func (f *fakeDiscounts) GetCouponByCode(_ context.Context, code string) (*domain.Coupon, error) {
	if f.lookupErr != nil {
		return nil, f.lookupErr
	}
	c, ok := f.coupons[code]
	if !ok {
		return nil, discountRepo.ErrCouponNotFound
	}
	return c, nil
}

func (f *fakeDiscounts) RedeemCoupon(_ context.Context, couponID int64) (bool, error) {
	for _, c := range f.coupons {
		if c.ID != couponID {
			continue
		}
		c.UsageCount += f.concurrentRedemptions
		f.concurrentRedemptions = 0
		if c.MaxUsageTotal != nil && c.UsageCount >= *c.MaxUsageTotal {
			return false, nil
		}
		c.UsageCount++
		return true, nil
	}
	return false, nil
}

func (f *fakeDiscounts) ListActiveCampaigns(context.Context, time.Time) ([]*domain.Campaign, error) {
	return f.campaigns, nil
}

type staticSettings domain.Settings

func (s staticSettings) Resolve(context.Context) (domain.Settings, error) {
	return domain.Settings(s), nil
}

type passTx struct {
	calls int
}

func (p *passTx) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	p.calls++
	return fn(ctx)
}

type recordingNotifier struct {
	events []notifications.EventType
	err    error
}

func (n *recordingNotifier) Publish(_ context.Context, eventType notifications.EventType, _ *domain.Reservation) error {
	n.events = append(n.events, eventType)
	return n.err
}

type recordingMetrics struct {
	created []string
	coupons []string
}

func (m *recordingMetrics) IncReservationCreated(channel string) {
	m.created = append(m.created, channel)
}
func (m *recordingMetrics) IncCouponRedemption(result string) { m.coupons = append(m.coupons, result) }

type fixedClock time.Time

func (c fixedClock) Now() time.Time {
	return time.Time(c)
}

// ---- fixture ----

// 2025-06-10 вторник, сейчас 2025-06-09 12:00 UTC
var (
	testDay = time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	testNow = time.Date(2025, 6, 9, 12, 0, 0, 0, time.UTC)
)

type fixture struct {
	stores       *fakeStores
	menus        fakeMenus
	reservations *fakeReservations
	discounts    *fakeDiscounts
	settings     domain.Settings
	tx           *passTx
	notifier     *recordingNotifier
	metrics      *recordingMetrics
}

func newFixture() *fixture {
	return &fixture{
		stores: &fakeStores{
			store: &domain.Store{ID: 1, Name: "Shibuya", IsActive: true},
			hours: map[time.Weekday]*domain.BusinessHour{
				time.Tuesday: {
					StoreID:   1,
					DayOfWeek: time.Tuesday,
					OpenTime:  types.MustParseTimeOfDay("10:00"),
					CloseTime: types.MustParseTimeOfDay("19:00"),
					IsOpen:    true,
				},
			},
			holidays: map[string]bool{},
			staff: []*domain.Staff{
				{ID: 11, StoreID: 1, IsActive: true, DisplayOrder: 1},
				{ID: 12, StoreID: 1, IsActive: true, DisplayOrder: 2},
				{ID: 13, StoreID: 1, IsActive: false, DisplayOrder: 3},
				{ID: 21, StoreID: 2, IsActive: true, DisplayOrder: 1},
			},
		},
		menus: fakeMenus{
			5: {ID: 5, Price: 6000, TaxRate: 0.1, Duration: 50, BufferAfter: 10, IsActive: true},
		},
		reservations: &fakeReservations{},
		discounts:    &fakeDiscounts{coupons: map[string]*domain.Coupon{}},
		settings: domain.Settings{
			Location:            time.UTC,
			DefaultLanguage:     "ja",
			CancelDeadlineHours: 24,
			BookingRangeDays:    90,
		},
		tx:       &passTx{},
		notifier: &recordingNotifier{},
		metrics:  &recordingMetrics{},
	}
}

func (f *fixture) useCase() *UseCase {
	uc := NewUseCase(f.stores, f.menus, f.reservations, f.discounts, staticSettings(f.settings),
		f.tx, f.notifier, f.metrics, logger.Nop())
	uc.timeProvider = fixedClock(testNow)
	uc.newToken = func() string { return "token-1" }
	return uc
}

func webRequest(hour int) *Request {
	return &Request{
		StoreID:   1,
		MenuID:    5,
		StartTime: testDay.Add(time.Duration(hour) * time.Hour),
		Customer:  Customer{Name: "Hanako", Email: "hanako@example.com"},
		Channel:   domain.ChannelWeb,
	}
}

// ---- tests ----

func TestExecute_CreatesWithAutoAssignedStaff(t *testing.T) {
	f := newFixture()

	got, err := f.useCase().Execute(context.Background(), webRequest(10))
	require.NoError(t, err)

	r := got.Reservation
	assert.Equal(t, int64(11), r.StaffID)
	assert.Equal(t, testDay.Add(11*time.Hour), r.EndTime)
	assert.Equal(t, domain.StatusReserved, r.Status)
	assert.Equal(t, "token-1", r.CancelToken)
	assert.Equal(t, "ja", r.Language)
	assert.Equal(t, domain.ActorCustomer, r.CreatedBy)
	assert.Equal(t, int64(6600), got.OriginalPrice)
	assert.Equal(t, int64(0), got.DiscountAmount)
	assert.Equal(t, int64(6600), got.FinalPrice)

	require.Len(t, f.reservations.audit, 1)
	assert.Equal(t, domain.AuditCreated, f.reservations.audit[0].Action)
	assert.Equal(t, []notifications.EventType{notifications.EventReservationComplete}, f.notifier.events)
	assert.Equal(t, []string{"web"}, f.metrics.created)
	assert.Equal(t, 1, f.tx.calls)
}

func TestExecute_SecondBookingGetsNextStaffThenFails(t *testing.T) {
	f := newFixture()
	uc := f.useCase()

	first, err := uc.Execute(context.Background(), webRequest(10))
	require.NoError(t, err)
	second, err := uc.Execute(context.Background(), webRequest(10))
	require.NoError(t, err)
	assert.Equal(t, int64(11), first.Reservation.StaffID)
	assert.Equal(t, int64(12), second.Reservation.StaffID)

	_, err = uc.Execute(context.Background(), webRequest(10))
	assert.ErrorIs(t, err, ErrSlotNotAvailable)
}

func TestExecute_SpecificStaff(t *testing.T) {
	t.Run("busy staff", func(t *testing.T) {
		f := newFixture()
		f.reservations.items = []*domain.Reservation{{
			StoreID: 1, StaffID: 12, Status: domain.StatusVisited,
			StartTime: testDay.Add(10*time.Hour + 30*time.Minute), EndTime: testDay.Add(11 * time.Hour),
		}}
		req := webRequest(10)
		req.StaffID = ptr.Ptr(int64(12))

		_, err := f.useCase().Execute(context.Background(), req)
		assert.ErrorIs(t, err, ErrSlotNotAvailable)
	})

	t.Run("cancelled reservation does not block", func(t *testing.T) {
		f := newFixture()
		f.reservations.items = []*domain.Reservation{{
			StoreID: 1, StaffID: 12, Status: domain.StatusCancelled,
			StartTime: testDay.Add(10 * time.Hour), EndTime: testDay.Add(11 * time.Hour),
		}}
		req := webRequest(10)
		req.StaffID = ptr.Ptr(int64(12))

		got, err := f.useCase().Execute(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, int64(12), got.Reservation.StaffID)
	})

	for _, id := range []int64{13, 21, 99} {
		f := newFixture()
		req := webRequest(10)
		req.StaffID = ptr.Ptr(id)

		_, err := f.useCase().Execute(context.Background(), req)
		assert.ErrorIs(t, err, ErrStaffNotFound, "staff %d", id)
	}
}

func TestExecute_WebChannelChecks(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(f *fixture, req *Request)
		wantErr error
	}{
		{
			name:    "start in the past",
			mutate:  func(_ *fixture, req *Request) { req.StartTime = testNow.Add(-time.Hour) },
			wantErr: ErrSlotNotAvailable,
		},
		{
			name:    "before opening",
			mutate:  func(_ *fixture, req *Request) { req.StartTime = testDay.Add(9 * time.Hour) },
			wantErr: ErrSlotNotAvailable,
		},
		{
			name:    "runs past closing",
			mutate:  func(_ *fixture, req *Request) { req.StartTime = testDay.Add(18*time.Hour + 30*time.Minute) },
			wantErr: ErrSlotNotAvailable,
		},
		{
			name:    "holiday",
			mutate:  func(f *fixture, _ *Request) { f.stores.holidays["2025-06-10"] = true },
			wantErr: ErrSlotNotAvailable,
		},
		{
			name:    "no business hours",
			mutate:  func(_ *fixture, req *Request) { req.StartTime = testDay.AddDate(0, 0, 1).Add(10 * time.Hour) },
			wantErr: ErrSlotNotAvailable,
		},
		{
			name:    "unlimited booking range",
			mutate:  func(f *fixture, _ *Request) { f.settings.BookingRangeDays = 0 },
			wantErr: nil,
		},
		{
			name: "outside booking window",
			mutate: func(f *fixture, req *Request) {
				f.settings.BookingRangeDays = 7
				req.StartTime = testDay.AddDate(0, 0, 14).Add(10 * time.Hour)
			},
			wantErr: ErrOutsideBookingWindow,
		},
		{
			name:    "inactive menu",
			mutate:  func(f *fixture, _ *Request) { f.menus[5].IsActive = false },
			wantErr: ErrSlotNotAvailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			req := webRequest(10)
			tt.mutate(f, req)

			_, err := f.useCase().Execute(context.Background(), req)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, f.reservations.items)
		})
	}
}

func TestExecute_PhoneChannelSkipsHoursButChecksConflicts(t *testing.T) {
	f := newFixture()
	req := webRequest(8) // до открытия
	req.Channel = domain.ChannelPhone
	req.PerformedBy = domain.ActorAdmin
	req.Customer = Customer{Name: "Taro", Phone: "090-0000-0000"}
	req.AdminNote = ptr.Ptr("walk-in regular")

	got, err := f.useCase().Execute(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, domain.ChannelPhone, got.Reservation.Channel)
	assert.Equal(t, domain.ActorAdmin, got.Reservation.CreatedBy)

	req2 := webRequest(8)
	req2.Channel = domain.ChannelPhone
	req2.Customer = Customer{Name: "Jiro", Phone: "090-1111-1111"}
	_, err = f.useCase().Execute(context.Background(), req2)
	require.NoError(t, err)

	req3 := webRequest(8)
	req3.Channel = domain.ChannelPhone
	req3.Customer = Customer{Name: "Saburo", Phone: "090-2222-2222"}
	_, err = f.useCase().Execute(context.Background(), req3)
	assert.ErrorIs(t, err, ErrSlotNotAvailable)
}

func TestExecute_Coupon(t *testing.T) {
	validCoupon := func() *domain.Coupon {
		return &domain.Coupon{
			ID:            7,
			Code:          "SUMMER",
			DiscountType:  domain.DiscountPercent,
			DiscountValue: 10,
			StartDate:     testNow.AddDate(0, 0, -1),
			EndDate:       testNow.AddDate(0, 0, 1),
			IsActive:      true,
			MaxUsageTotal: ptr.Ptr(int64(1)),
		}
	}

	t.Run("applied and counted", func(t *testing.T) {
		f := newFixture()
		coupon := validCoupon()
		f.discounts.coupons["SUMMER"] = coupon
		req := webRequest(10)
		req.CouponCode = ptr.Ptr(" SUMMER ")

		got, err := f.useCase().Execute(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, int64(660), got.DiscountAmount)
		assert.Equal(t, int64(5940), got.FinalPrice)
		assert.Equal(t, domain.CouponSource(7), got.Reservation.Discount)
		assert.Equal(t, int64(1), coupon.UsageCount)
		assert.Equal(t, []string{couponApplied}, f.metrics.coupons)
	})

	campaign := func() *domain.Campaign {
		return &domain.Campaign{
			ID: 3, DiscountType: domain.DiscountFixed, DiscountValue: 500, IsActive: true,
			StartDate: testNow.AddDate(0, 0, -1), EndDate: testNow.AddDate(0, 0, 1),
			StoreIDs: []int64{1}, MenuIDs: []int64{5},
		}
	}

	t.Run("cap taken by concurrent booking falls back to campaign", func(t *testing.T) {
		f := newFixture()
		coupon := validCoupon()
		f.discounts.coupons["SUMMER"] = coupon
		f.discounts.concurrentRedemptions = 1
		f.discounts.campaigns = []*domain.Campaign{campaign()}
		req := webRequest(10)
		req.CouponCode = ptr.Ptr("SUMMER")

		got, err := f.useCase().Execute(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, int64(500), got.DiscountAmount)
		assert.Equal(t, int64(6100), got.FinalPrice)
		assert.Equal(t, domain.CampaignSource(3), got.Reservation.Discount)
		assert.Nil(t, got.Reservation.Discount.CouponID())
		assert.Equal(t, int64(1), coupon.UsageCount, "usage never exceeds the cap")
		assert.Equal(t, []string{couponCapReached}, f.metrics.coupons)
	})

	t.Run("cap taken by concurrent booking without campaign charges full price", func(t *testing.T) {
		f := newFixture()
		coupon := validCoupon()
		f.discounts.coupons["SUMMER"] = coupon
		f.discounts.concurrentRedemptions = 1
		req := webRequest(10)
		req.CouponCode = ptr.Ptr("SUMMER")

		got, err := f.useCase().Execute(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, int64(0), got.DiscountAmount)
		assert.Equal(t, int64(6600), got.FinalPrice)
		assert.Equal(t, domain.NoDiscount(), got.Reservation.Discount)
		assert.Equal(t, int64(1), coupon.UsageCount)
		assert.Equal(t, []string{couponCapReached}, f.metrics.coupons)
	})

	t.Run("coupon already at cap is ineligible", func(t *testing.T) {
		f := newFixture()
		coupon := validCoupon()
		coupon.UsageCount = 1
		f.discounts.coupons["SUMMER"] = coupon
		f.discounts.campaigns = []*domain.Campaign{campaign()}
		req := webRequest(10)
		req.CouponCode = ptr.Ptr("SUMMER")

		got, err := f.useCase().Execute(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, domain.CampaignSource(3), got.Reservation.Discount)
		assert.Equal(t, int64(1), coupon.UsageCount)
		assert.Equal(t, []string{couponIneligible}, f.metrics.coupons)
	})

	t.Run("unknown coupon is ignored", func(t *testing.T) {
		f := newFixture()
		req := webRequest(10)
		req.CouponCode = ptr.Ptr("NOPE")

		got, err := f.useCase().Execute(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, int64(6600), got.FinalPrice)
		assert.Equal(t, domain.NoDiscount(), got.Reservation.Discount)
		assert.Equal(t, []string{couponNotFound}, f.metrics.coupons)
	})

	t.Run("lookup failure is ignored", func(t *testing.T) {
		f := newFixture()
		f.discounts.lookupErr = errors.New("db timeout")
		req := webRequest(10)
		req.CouponCode = ptr.Ptr("SUMMER")

		got, err := f.useCase().Execute(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, int64(6600), got.FinalPrice)
	})

	t.Run("expired coupon is ignored", func(t *testing.T) {
		f := newFixture()
		coupon := validCoupon()
		coupon.EndDate = testNow.Add(-time.Minute)
		f.discounts.coupons["SUMMER"] = coupon
		req := webRequest(10)
		req.CouponCode = ptr.Ptr("SUMMER")

		got, err := f.useCase().Execute(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, int64(0), got.DiscountAmount)
		assert.Equal(t, int64(0), coupon.UsageCount)
		assert.Equal(t, []string{couponIneligible}, f.metrics.coupons)
	})
}

func TestExecute_ExclusionViolationMapsToSlotNotAvailable(t *testing.T) {
	f := newFixture()
	f.reservations.createErr = reservationRepo.ErrOverlap

	_, err := f.useCase().Execute(context.Background(), webRequest(10))
	assert.ErrorIs(t, err, ErrSlotNotAvailable)
	assert.Empty(t, f.notifier.events)
}

func TestExecute_NotificationFailureDoesNotFailReservation(t *testing.T) {
	f := newFixture()
	f.notifier.err = errors.New("broker down")

	got, err := f.useCase().Execute(context.Background(), webRequest(10))
	require.NoError(t, err)
	assert.NotZero(t, got.Reservation.ID)
}

func TestExecute_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(req *Request)
	}{
		{name: "missing name", mutate: func(req *Request) { req.Customer.Name = "  " }},
		{name: "web without email", mutate: func(req *Request) { req.Customer.Email = "" }},
		{name: "bad email", mutate: func(req *Request) { req.Customer.Email = "not-an-email" }},
		{name: "unknown channel", mutate: func(req *Request) { req.Channel = "fax" }},
		{name: "end before start", mutate: func(req *Request) { req.EndTime = ptr.Ptr(req.StartTime.Add(-time.Minute)) }},
		{name: "zero store", mutate: func(req *Request) { req.StoreID = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			req := webRequest(10)
			tt.mutate(req)

			_, err := f.useCase().Execute(context.Background(), req)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestExecute_NotFound(t *testing.T) {
	f := newFixture()
	req := webRequest(10)
	req.StoreID = 9
	_, err := f.useCase().Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrStoreNotFound)

	req = webRequest(10)
	req.MenuID = 9
	_, err = f.useCase().Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrMenuNotFound)
}

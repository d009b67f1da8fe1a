package get_availability

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/totalboostmarketing/reservation-system/internal/domain"
	menuRepo "github.com/totalboostmarketing/reservation-system/internal/infra/storage/menu"
	storeRepo "github.com/totalboostmarketing/reservation-system/internal/infra/storage/store"
	"github.com/totalboostmarketing/reservation-system/pkg/logger"
	"github.com/totalboostmarketing/reservation-system/pkg/ptr"
	"github.com/totalboostmarketing/reservation-system/pkg/types"
)

type fakeStores struct {
	stores   map[int64]*domain.Store
	hours    map[time.Weekday]*domain.BusinessHour
	holidays map[string]bool
	staff    []*domain.Staff
}

func (f *fakeStores) GetByID(_ context.Context, id int64) (*domain.Store, error) {
	s, ok := f.stores[id]
	if !ok {
		return nil, storeRepo.ErrStoreNotFound
	}
	return s, nil
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

type fakeReservations []*domain.Reservation

func (f fakeReservations) ListOccupying(_ context.Context, storeID int64, from, to time.Time, _ *int64) ([]*domain.Reservation, error) {
	var result []*domain.Reservation
	for _, r := range f {
		if r.StoreID == storeID && r.IsOccupying() && r.StartTime.Before(to) && r.EndTime.After(from) {
			result = append(result, r)
		}
	}
	return result, nil
}

type staticSettings domain.Settings

func (s staticSettings) Resolve(context.Context) (domain.Settings, error) {
	return domain.Settings(s), nil
}

type fixedClock time.Time

func (c fixedClock) Now() time.Time {
	return time.Time(c)
}

// 2025-06-10 вторник
var (
	testDate = time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	testNow  = time.Date(2025, 6, 9, 12, 0, 0, 0, time.UTC)
)

func newFixture() (*fakeStores, fakeMenus, fakeReservations) {
	stores := &fakeStores{
		stores: map[int64]*domain.Store{1: {ID: 1, Name: "Shibuya", IsActive: true}},
		hours: map[time.Weekday]*domain.BusinessHour{
			time.Tuesday: {
				StoreID:   1,
				DayOfWeek: time.Tuesday,
				OpenTime:  types.MustParseTimeOfDay("10:00"),
				CloseTime: types.MustParseTimeOfDay("12:00"),
				IsOpen:    true,
			},
		},
		holidays: map[string]bool{},
		staff: []*domain.Staff{
			{ID: 11, StoreID: 1, Name: "A", IsActive: true, DisplayOrder: 1},
			{ID: 12, StoreID: 1, Name: "B", IsActive: true, DisplayOrder: 2},
			{ID: 13, StoreID: 1, Name: "C", IsActive: false, DisplayOrder: 3},
			{ID: 21, StoreID: 2, Name: "D", IsActive: true, DisplayOrder: 1},
		},
	}
	menus := fakeMenus{
		5: {ID: 5, Name: "Cut", Price: 6000, TaxRate: 0.1, Duration: 50, BufferAfter: 10, IsActive: true},
	}
	return stores, menus, fakeReservations{}
}

func newUseCase(stores *fakeStores, menus fakeMenus, res fakeReservations, settings domain.Settings) *UseCase {
	uc := NewUseCase(stores, menus, res, staticSettings(settings), logger.Nop())
	uc.timeProvider = fixedClock(testNow)
	return uc
}

func utcSettings() domain.Settings {
	return domain.Settings{Location: time.UTC, CancelDeadlineHours: 24, BookingRangeDays: 90}
}

func TestExecute_AllSlotsFree(t *testing.T) {
	stores, menus, res := newFixture()

	got, err := newUseCase(stores, menus, res, utcSettings()).Execute(context.Background(), &Request{
		StoreID: 1, MenuID: 5, Date: testDate,
	})
	require.NoError(t, err)

	require.Len(t, got.Slots, 4)
	assert.Equal(t, 60, got.DurationMinutes)
	assert.Equal(t, "10:00", got.Slots[0].Time.String())
	assert.Equal(t, []int64{11, 12}, got.Slots[0].FreeStaffIDs)
	assert.True(t, got.Slots[2].Available)
	// 11:30 + 60 минут выходит за 12:00
	assert.False(t, got.Slots[3].Available)
	assert.Empty(t, got.Slots[3].FreeStaffIDs)
}

func TestExecute_ReservationsReduceFreeStaff(t *testing.T) {
	stores, menus, _ := newFixture()
	res := fakeReservations{
		{StoreID: 1, StaffID: 11, Status: domain.StatusReserved,
			StartTime: testDate.Add(10 * time.Hour), EndTime: testDate.Add(11 * time.Hour)},
		{StoreID: 1, StaffID: 12, Status: domain.StatusCancelled,
			StartTime: testDate.Add(10 * time.Hour), EndTime: testDate.Add(11 * time.Hour)},
	}

	got, err := newUseCase(stores, menus, res, utcSettings()).Execute(context.Background(), &Request{
		StoreID: 1, MenuID: 5, Date: testDate,
	})
	require.NoError(t, err)

	assert.Equal(t, []int64{12}, got.Slots[0].FreeStaffIDs)
	assert.Equal(t, []int64{12}, got.Slots[1].FreeStaffIDs)
	assert.Equal(t, []int64{11, 12}, got.Slots[2].FreeStaffIDs)
}

func TestExecute_SpecificStaff(t *testing.T) {
	tests := []struct {
		name      string
		staffID   int64
		wantSlots bool
	}{
		{name: "active staff of the store", staffID: 12, wantSlots: true},
		{name: "inactive staff", staffID: 13, wantSlots: false},
		{name: "staff of another store", staffID: 21, wantSlots: false},
		{name: "unknown staff", staffID: 99, wantSlots: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stores, menus, res := newFixture()
			got, err := newUseCase(stores, menus, res, utcSettings()).Execute(context.Background(), &Request{
				StoreID: 1, MenuID: 5, StaffID: ptr.Ptr(tt.staffID), Date: testDate,
			})
			require.NoError(t, err)

			if !tt.wantSlots {
				assert.Empty(t, got.Slots)
				return
			}
			require.NotEmpty(t, got.Slots)
			assert.Equal(t, []int64{tt.staffID}, got.Slots[0].FreeStaffIDs)
		})
	}
}

func TestExecute_EmptyCases(t *testing.T) {
	t.Run("holiday", func(t *testing.T) {
		stores, menus, res := newFixture()
		stores.holidays["2025-06-10"] = true
		got, err := newUseCase(stores, menus, res, utcSettings()).Execute(context.Background(), &Request{StoreID: 1, MenuID: 5, Date: testDate})
		require.NoError(t, err)
		assert.Empty(t, got.Slots)
	})

	t.Run("no business hours", func(t *testing.T) {
		stores, menus, res := newFixture()
		got, err := newUseCase(stores, menus, res, utcSettings()).Execute(context.Background(), &Request{StoreID: 1, MenuID: 5, Date: testDate.AddDate(0, 0, 1)})
		require.NoError(t, err)
		assert.Empty(t, got.Slots)
	})

	t.Run("closed day", func(t *testing.T) {
		stores, menus, res := newFixture()
		stores.hours[time.Tuesday].IsOpen = false
		got, err := newUseCase(stores, menus, res, utcSettings()).Execute(context.Background(), &Request{StoreID: 1, MenuID: 5, Date: testDate})
		require.NoError(t, err)
		assert.Empty(t, got.Slots)
	})

	t.Run("past date", func(t *testing.T) {
		stores, menus, res := newFixture()
		got, err := newUseCase(stores, menus, res, utcSettings()).Execute(context.Background(), &Request{StoreID: 1, MenuID: 5, Date: testDate.AddDate(0, 0, -7)})
		require.NoError(t, err)
		assert.Empty(t, got.Slots)
	})

	t.Run("beyond booking range", func(t *testing.T) {
		stores, menus, res := newFixture()
		settings := utcSettings()
		settings.BookingRangeDays = 1
		got, err := newUseCase(stores, menus, res, settings).Execute(context.Background(), &Request{StoreID: 1, MenuID: 5, Date: testDate.AddDate(0, 0, 7)})
		require.NoError(t, err)
		assert.Empty(t, got.Slots)
	})

	t.Run("inactive store", func(t *testing.T) {
		stores, menus, res := newFixture()
		stores.stores[1].IsActive = false
		got, err := newUseCase(stores, menus, res, utcSettings()).Execute(context.Background(), &Request{StoreID: 1, MenuID: 5, Date: testDate})
		require.NoError(t, err)
		assert.Empty(t, got.Slots)
	})

	t.Run("inactive menu", func(t *testing.T) {
		stores, menus, res := newFixture()
		menus[5].IsActive = false
		got, err := newUseCase(stores, menus, res, utcSettings()).Execute(context.Background(), &Request{StoreID: 1, MenuID: 5, Date: testDate})
		require.NoError(t, err)
		assert.Empty(t, got.Slots)
		assert.Equal(t, int64(5), got.MenuID)
	})
}

func TestExecute_NotFound(t *testing.T) {
	stores, menus, res := newFixture()
	uc := newUseCase(stores, menus, res, utcSettings())

	_, err := uc.Execute(context.Background(), &Request{StoreID: 9, MenuID: 5, Date: testDate})
	assert.ErrorIs(t, err, ErrStoreNotFound)

	_, err = uc.Execute(context.Background(), &Request{StoreID: 1, MenuID: 9, Date: testDate})
	assert.ErrorIs(t, err, ErrMenuNotFound)
}

func TestExecute_InvalidInput(t *testing.T) {
	stores, menus, res := newFixture()
	uc := newUseCase(stores, menus, res, utcSettings())

	_, err := uc.Execute(context.Background(), &Request{StoreID: 0, MenuID: 5, Date: testDate})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = uc.Execute(context.Background(), &Request{StoreID: 1, MenuID: 5})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestExecute_PastSlotsEvaluatedInSalonTimezone(t *testing.T) {
	tokyo, err := time.LoadLocation("Asia/Tokyo")
	require.NoError(t, err)

	stores, menus, res := newFixture()
	uc := NewUseCase(stores, menus, res, staticSettings(domain.Settings{Location: tokyo, BookingRangeDays: 90}), logger.Nop())
	// 01:45 UTC = 10:45 в Токио того же дня
	uc.timeProvider = fixedClock(time.Date(2025, 6, 10, 1, 45, 0, 0, time.UTC))

	got, err := uc.Execute(context.Background(), &Request{StoreID: 1, MenuID: 5, Date: testDate})
	require.NoError(t, err)
	require.Len(t, got.Slots, 4)

	assert.False(t, got.Slots[0].Available) // 10:00
	assert.False(t, got.Slots[1].Available) // 10:30
	assert.True(t, got.Slots[2].Available)  // 11:00
}

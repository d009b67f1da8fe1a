package settings

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/totalboostmarketing/reservation-system/internal/config"
	"github.com/totalboostmarketing/reservation-system/internal/domain"
	"github.com/totalboostmarketing/reservation-system/pkg/logger"
)

type mockRepo struct {
	mock.Mock
}

func (m *mockRepo) GetAll(ctx context.Context) (map[string]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]string), args.Error(1)
}

func (m *mockRepo) Upsert(ctx context.Context, values map[string]string) error {
	return m.Called(ctx, values).Error(0)
}

func defaultBooking() config.BookingConfig {
	return config.BookingConfig{
		Timezone:            "Asia/Tokyo",
		DefaultLanguage:     "ja",
		CancelDeadlineHours: 24,
		BookingRangeDays:    90,
		ReminderEnabled:     true,
	}
}

func TestResolve_StoredValuesOverrideDefaults(t *testing.T) {
	repo := new(mockRepo)
	repo.On("GetAll", mock.Anything).Return(map[string]string{
		domain.SettingTimezone:            "UTC",
		domain.SettingCancelDeadlineHours: "48",
		domain.SettingReminderEnabled:     "false",
	}, nil)

	svc := NewService(repo, defaultBooking(), logger.Nop())
	got, err := svc.Resolve(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "UTC", got.Location.String())
	assert.Equal(t, 48, got.CancelDeadlineHours)
	assert.False(t, got.ReminderEnabled)
	assert.Equal(t, "ja", got.DefaultLanguage)
	assert.Equal(t, 90, got.BookingRangeDays)
}

func TestResolve_BrokenStoredValueFallsBackToDefault(t *testing.T) {
	repo := new(mockRepo)
	repo.On("GetAll", mock.Anything).Return(map[string]string{
		domain.SettingBookingRangeDays: "soon",
	}, nil)

	svc := NewService(repo, defaultBooking(), logger.Nop())
	got, err := svc.Resolve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 90, got.BookingRangeDays)
	assert.Equal(t, "Asia/Tokyo", got.Location.String())
}

func TestResolve_RepositoryError(t *testing.T) {
	repo := new(mockRepo)
	repo.On("GetAll", mock.Anything).Return(nil, errors.New("db down"))

	svc := NewService(repo, defaultBooking(), logger.Nop())
	_, err := svc.Resolve(context.Background())
	assert.ErrorIs(t, err, ErrInternal)
}

func TestGetAll_MergesDefaults(t *testing.T) {
	repo := new(mockRepo)
	repo.On("GetAll", mock.Anything).Return(map[string]string{
		domain.SettingDefaultLanguage: "en",
		"legacy_key":                  "x",
	}, nil)

	svc := NewService(repo, defaultBooking(), logger.Nop())
	got, err := svc.GetAll(context.Background())
	require.NoError(t, err)

	assert.Equal(t, map[string]string{
		domain.SettingTimezone:            "Asia/Tokyo",
		domain.SettingDefaultLanguage:     "en",
		domain.SettingReminderEnabled:     "true",
		domain.SettingCancelDeadlineHours: "24",
		domain.SettingBookingRangeDays:    "90",
	}, got)
}

func TestUpdate(t *testing.T) {
	tests := []struct {
		name    string
		input   map[string]string
		wantErr error
	}{
		{name: "unknown key", input: map[string]string{"smtp_host": "x"}, wantErr: ErrUnknownSetting},
		{name: "bad timezone", input: map[string]string{domain.SettingTimezone: "Mars/Olympus"}, wantErr: ErrInvalidValue},
		{name: "negative hours", input: map[string]string{domain.SettingCancelDeadlineHours: "-1"}, wantErr: ErrInvalidValue},
		{name: "not a bool", input: map[string]string{domain.SettingReminderEnabled: "maybe"}, wantErr: ErrInvalidValue},
		{name: "empty", input: map[string]string{}, wantErr: ErrInvalidValue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(mockRepo)
			svc := NewService(repo, defaultBooking(), logger.Nop())

			_, err := svc.Update(context.Background(), tt.input)
			assert.ErrorIs(t, err, tt.wantErr)
			repo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
		})
	}
}

func TestUpdate_PersistsTrimmedValues(t *testing.T) {
	repo := new(mockRepo)
	repo.On("Upsert", mock.Anything, map[string]string{
		domain.SettingCancelDeadlineHours: "12",
		domain.SettingTimezone:            "Europe/Moscow",
	}).Return(nil).Once()
	repo.On("GetAll", mock.Anything).Return(map[string]string{
		domain.SettingCancelDeadlineHours: "12",
		domain.SettingTimezone:            "Europe/Moscow",
	}, nil).Once()

	svc := NewService(repo, defaultBooking(), logger.Nop())
	got, err := svc.Update(context.Background(), map[string]string{
		domain.SettingCancelDeadlineHours: " 12 ",
		domain.SettingTimezone:            "Europe/Moscow",
	})
	require.NoError(t, err)
	assert.Equal(t, "12", got[domain.SettingCancelDeadlineHours])
	assert.Equal(t, "Europe/Moscow", got[domain.SettingTimezone])
	repo.AssertExpectations(t)
}

package settings

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/totalboostmarketing/reservation-system/internal/config"
	"github.com/totalboostmarketing/reservation-system/internal/domain"
)

// Service провайдер бизнес-настроек.
// Значения из system_settings перекрывают секцию [booking] конфигурации.
type Service struct {
	repo     SettingsRepository
	defaults config.BookingConfig
	logger   Logger
}

// NewService создает новый экземпляр сервиса настроек
func NewService(repo SettingsRepository, defaults config.BookingConfig, logger Logger) *Service {
	return &Service{
		repo:     repo,
		defaults: defaults,
		logger:   logger,
	}
}

// Resolve возвращает настройки, действующие на момент вызова.
// Некорректное значение в БД не ломает запрос: используется значение по умолчанию.
func (s *Service) Resolve(ctx context.Context) (domain.Settings, error) {
	values, err := s.repo.GetAll(ctx)
	if err != nil {
		s.logger.Error("Resolve: repository error: %v", err)
		return domain.Settings{}, fmt.Errorf("%w: Resolve - repository error: %v", ErrInternal, err)
	}

	result, err := s.fromDefaults()
	if err != nil {
		s.logger.Error("Resolve: invalid default settings: %v", err)
		return domain.Settings{}, fmt.Errorf("%w: Resolve - defaults: %v", ErrInternal, err)
	}

	for key, raw := range values {
		if err := apply(&result, key, raw); err != nil {
			s.logger.Warn("Resolve: ignoring stored setting %s=%q: %v", key, raw, err)
		}
	}

	return result, nil
}

// GetAll возвращает все настройки в строковом виде (значения по умолчанию + сохраненные)
func (s *Service) GetAll(ctx context.Context) (map[string]string, error) {
	s.logger.Info("GetAll: fetching settings")

	values, err := s.repo.GetAll(ctx)
	if err != nil {
		s.logger.Error("GetAll: repository error: %v", err)
		return nil, fmt.Errorf("%w: GetAll - repository error: %v", ErrInternal, err)
	}

	result := s.defaultValues()
	for key, value := range values {
		if _, known := result[key]; known {
			result[key] = value
		}
	}

	return result, nil
}

// Update валидирует и сохраняет настройки
func (s *Service) Update(ctx context.Context, values map[string]string) (map[string]string, error) {
	s.logger.Info("Update: updating %d settings", len(values))

	if len(values) == 0 {
		return nil, fmt.Errorf("%w: no settings provided", ErrInvalidValue)
	}

	normalized := make(map[string]string, len(values))
	candidate := domain.Settings{}
	for key, raw := range values {
		if !isKnown(key) {
			s.logger.Warn("Update: unknown setting key=%s", key)
			return nil, fmt.Errorf("%w: %s", ErrUnknownSetting, key)
		}

		value := strings.TrimSpace(raw)
		if err := apply(&candidate, key, value); err != nil {
			s.logger.Warn("Update: invalid value for key=%s: %v", key, err)
			return nil, err
		}
		normalized[key] = value
	}

	if err := s.repo.Upsert(ctx, normalized); err != nil {
		s.logger.Error("Update: repository error: %v", err)
		return nil, fmt.Errorf("%w: Update - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Update: successfully updated settings")
	return s.GetAll(ctx)
}

func (s *Service) fromDefaults() (domain.Settings, error) {
	loc, err := time.LoadLocation(s.defaults.Timezone)
	if err != nil {
		return domain.Settings{}, err
	}

	return domain.Settings{
		Location:            loc,
		DefaultLanguage:     s.defaults.DefaultLanguage,
		ReminderEnabled:     s.defaults.ReminderEnabled,
		CancelDeadlineHours: s.defaults.CancelDeadlineHours,
		BookingRangeDays:    s.defaults.BookingRangeDays,
	}, nil
}

func (s *Service) defaultValues() map[string]string {
	return map[string]string{
		domain.SettingTimezone:            s.defaults.Timezone,
		domain.SettingDefaultLanguage:     s.defaults.DefaultLanguage,
		domain.SettingReminderEnabled:     strconv.FormatBool(s.defaults.ReminderEnabled),
		domain.SettingCancelDeadlineHours: strconv.Itoa(s.defaults.CancelDeadlineHours),
		domain.SettingBookingRangeDays:    strconv.Itoa(s.defaults.BookingRangeDays),
	}
}

// apply разбирает значение и записывает его в соответствующее поле
func apply(target *domain.Settings, key, raw string) error {
	switch key {
	case domain.SettingTimezone:
		loc, err := time.LoadLocation(raw)
		if err != nil || raw == "" {
			return fmt.Errorf("%w: %s must be an IANA timezone", ErrInvalidValue, key)
		}
		target.Location = loc

	case domain.SettingDefaultLanguage:
		if raw == "" {
			return fmt.Errorf("%w: %s must not be empty", ErrInvalidValue, key)
		}
		target.DefaultLanguage = raw

	case domain.SettingReminderEnabled:
		enabled, err := strconv.ParseBool(raw)
		if err != nil {
			return fmt.Errorf("%w: %s must be true or false", ErrInvalidValue, key)
		}
		target.ReminderEnabled = enabled

	case domain.SettingCancelDeadlineHours:
		hours, err := parseNonNegative(raw)
		if err != nil {
			return fmt.Errorf("%w: %s %v", ErrInvalidValue, key, err)
		}
		target.CancelDeadlineHours = hours

	case domain.SettingBookingRangeDays:
		days, err := parseNonNegative(raw)
		if err != nil {
			return fmt.Errorf("%w: %s %v", ErrInvalidValue, key, err)
		}
		target.BookingRangeDays = days

	default:
		return fmt.Errorf("%w: %s", ErrUnknownSetting, key)
	}

	return nil
}

func parseNonNegative(raw string) (int, error) {
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.New("must be an integer")
	}
	if n < 0 {
		return 0, errors.New("must not be negative")
	}
	return n, nil
}

func isKnown(key string) bool {
	for _, k := range domain.KnownSettings {
		if k == key {
			return true
		}
	}
	return false
}

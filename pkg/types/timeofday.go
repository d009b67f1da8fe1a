package types

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var (
	// ErrInvalidTimeOfDay возвращается при некорректном формате времени
	ErrInvalidTimeOfDay = errors.New("invalid time of day format, expected HH:MM")

	// ErrTimeOverflow возвращается, когда время выходит за пределы суток
	ErrTimeOverflow = errors.New("time of day is out of range")
)

// EndOfDay "24:00", допустимое только как время закрытия
const EndOfDay TimeOfDay = 24 * 60

// TimeOfDay время суток в минутах от полуночи.
// Строковый формат "HH:MM" используется только на границах (API, БД).
type TimeOfDay int

// NewTimeOfDay берет часы и минуты из time.Time (в его часовом поясе)
func NewTimeOfDay(t time.Time) TimeOfDay {
	return TimeOfDay(t.Hour()*60 + t.Minute())
}

// ParseTimeOfDay парсит "HH:MM". Секунды из колонок TIME ("HH:MM:SS") отбрасываются.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	s = strings.TrimSpace(s)
	if len(s) == len("15:04:05") {
		s = s[:len("15:04")]
	}

	hh, mm, ok := strings.Cut(s, ":")
	if !ok || len(hh) != 2 || len(mm) != 2 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeOfDay, s)
	}

	h, err := strconv.Atoi(hh)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeOfDay, s)
	}
	m, err := strconv.Atoi(mm)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeOfDay, s)
	}

	if h == 24 && m == 0 {
		return EndOfDay, nil
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeOfDay, s)
	}

	return TimeOfDay(h*60 + m), nil
}

// MustParseTimeOfDay как ParseTimeOfDay, но паникует. Для констант и тестов.
func MustParseTimeOfDay(s string) TimeOfDay {
	t, err := ParseTimeOfDay(s)
	if err != nil {
		panic(err)
	}
	return t
}

// Minutes минуты от полуночи
func (t TimeOfDay) Minutes() int {
	return int(t)
}

// String форматирует как "HH:MM"
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", int(t)/60, int(t)%60)
}

// Valid true для значений 00:00..24:00
func (t TimeOfDay) Valid() bool {
	return t >= 0 && t <= EndOfDay
}

// AddMinutes сдвигает время на n минут. Выход за 24:00 считается ошибкой.
func (t TimeOfDay) AddMinutes(n int) (TimeOfDay, error) {
	res := t + TimeOfDay(n)
	if !res.Valid() {
		return 0, fmt.Errorf("%w: %s + %d minutes", ErrTimeOverflow, t, n)
	}
	return res, nil
}

func (t TimeOfDay) IsBefore(other TimeOfDay) bool {
	return t < other
}

func (t TimeOfDay) IsAfter(other TimeOfDay) bool {
	return t > other
}

// On привязывает время суток к календарной дате в указанном часовом поясе
func (t TimeOfDay) On(date time.Time, loc *time.Location) time.Time {
	y, mo, d := date.Date()
	return time.Date(y, mo, d, 0, int(t), 0, 0, loc)
}

func (t TimeOfDay) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *TimeOfDay) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidTimeOfDay, err)
	}
	parsed, err := ParseTimeOfDay(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Scan реализует sql.Scanner для колонок TIME / VARCHAR
func (t *TimeOfDay) Scan(src interface{}) error {
	switch v := src.(type) {
	case string:
		return t.scanString(v)
	case []byte:
		return t.scanString(string(v))
	case time.Time:
		*t = NewTimeOfDay(v)
		return nil
	default:
		return fmt.Errorf("%w: unsupported type %T", ErrInvalidTimeOfDay, src)
	}
}

func (t *TimeOfDay) scanString(s string) error {
	parsed, err := ParseTimeOfDay(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Value реализует driver.Valuer
func (t TimeOfDay) Value() (driver.Value, error) {
	return t.String(), nil
}

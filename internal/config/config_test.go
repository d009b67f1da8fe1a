package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_DefaultsAndOverrides(t *testing.T) {
	t.Setenv("RESERVATION_DB_PASSWORD", "s3cret")

	cfg, err := Parse(`
[server]
http_port = 9090

[database]
host = "db"
user = "salon"
password = "${RESERVATION_DB_PASSWORD}"
dbname = "reservations"

[booking]
timezone = "Asia/Tokyo"
cancel_deadline_hours = 48
base_url = "https://salon.example.com/"
`)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.HTTPPort)
	assert.Equal(t, "s3cret", cfg.Database.Password)
	assert.Equal(t, 48, cfg.Booking.CancelDeadlineHours)
	assert.Equal(t, 90, cfg.Booking.BookingRangeDays)
	assert.Equal(t, "https://salon.example.com", cfg.Booking.BaseURL)
	assert.Equal(t, "0 18 * * *", cfg.Reminders.Schedule)
	assert.Equal(t, "host=db port=5432 user=salon password=s3cret dbname=reservations sslmode=disable", cfg.Database.DSN())
}

func TestParse_InvalidTimezone(t *testing.T) {
	_, err := Parse(`
[booking]
timezone = "Mars/Olympus"
`)
	assert.Error(t, err)
}

func TestParse_NegativeDeadline(t *testing.T) {
	_, err := Parse(`
[booking]
cancel_deadline_hours = -1
`)
	assert.Error(t, err)
}

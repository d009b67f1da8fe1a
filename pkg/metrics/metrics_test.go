package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_Counters(t *testing.T) {
	m := NewWithRegistry("reservation-test", prometheus.NewRegistry())

	m.IncReservationCreated("web")
	m.IncReservationCreated("web")
	m.IncReservationCreated("phone")
	m.ObserveDBQuery("insert_reservation", 3*time.Millisecond, errors.New("boom"))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.reservationsCreated.WithLabelValues("reservation-test", "web")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.reservationsCreated.WithLabelValues("reservation-test", "phone")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.dbQueryErrors.WithLabelValues("reservation-test", "insert_reservation")))
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.IncReservationCreated("web")
		m.IncCouponRedemption("redeemed")
		m.ObserveHTTPRequest("GET", "/api/v1/availability", 200, time.Millisecond)
		m.SetDBConnections(1, 1, 0)
		m.IncNotification("reminder", nil)
	})
}

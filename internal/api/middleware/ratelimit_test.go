package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/totalboostmarketing/reservation-system/pkg/logger"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func call(h http.Handler, remoteAddr, forwardedFor string) int {
	r := httptest.NewRequest(http.MethodGet, "/api/v1/availability", nil)
	r.RemoteAddr = remoteAddr
	if forwardedFor != "" {
		r.Header.Set("X-Forwarded-For", forwardedFor)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	return w.Code
}

func newRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

func TestRedisRateLimiter_FixedWindow(t *testing.T) {
	mr, rdb := newRedis(t)
	h := NewRedisRateLimiter(rdb, 2, time.Minute, "rl:test", true, logger.Nop()).Middleware()(okHandler())

	assert.Equal(t, http.StatusOK, call(h, "10.0.0.1:1234", ""))
	assert.Equal(t, http.StatusOK, call(h, "10.0.0.1:5678", ""))
	assert.Equal(t, http.StatusTooManyRequests, call(h, "10.0.0.1:1234", ""))

	// другой клиент считается отдельно
	assert.Equal(t, http.StatusOK, call(h, "10.0.0.2:1234", ""))

	// ключ живет ровно одно окно
	ttl := mr.TTL("rl:test:10.0.0.1")
	assert.True(t, ttl > 0 && ttl <= time.Minute, "unexpected ttl %s", ttl)

	mr.FastForward(time.Minute + time.Second)
	assert.Equal(t, http.StatusOK, call(h, "10.0.0.1:1234", ""))
}

func TestRedisRateLimiter_UsesForwardedFor(t *testing.T) {
	mr, rdb := newRedis(t)
	h := NewRedisRateLimiter(rdb, 5, time.Minute, "rl", true, logger.Nop()).Middleware()(okHandler())

	require.Equal(t, http.StatusOK, call(h, "127.0.0.1:80", "203.0.113.7, 10.0.0.1"))

	val, err := mr.Get("rl:203.0.113.7")
	require.NoError(t, err)
	assert.Equal(t, "1", val)
}

func TestRedisRateLimiter_RedisDown(t *testing.T) {
	tests := []struct {
		name     string
		failOpen bool
		want     int
	}{
		{name: "fail open", failOpen: true, want: http.StatusOK},
		{name: "fail closed", failOpen: false, want: http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mr, rdb := newRedis(t)
			mr.Close()

			h := NewRedisRateLimiter(rdb, 5, time.Minute, "rl", tt.failOpen, logger.Nop()).Middleware()(okHandler())
			assert.Equal(t, tt.want, call(h, "10.0.0.1:1", ""))
		})
	}
}

func TestLocalRateLimiter(t *testing.T) {
	rl := NewLocalRateLimiter(60, 2)
	now := time.Date(2025, 6, 10, 10, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	h := rl.Middleware()(okHandler())

	assert.Equal(t, http.StatusOK, call(h, "10.0.0.1:1", ""))
	assert.Equal(t, http.StatusOK, call(h, "10.0.0.1:1", ""))
	assert.Equal(t, http.StatusTooManyRequests, call(h, "10.0.0.1:1", ""))
	assert.Equal(t, http.StatusOK, call(h, "10.0.0.9:1", ""))

	// 60 в минуту = один токен в секунду
	now = now.Add(time.Second)
	assert.Equal(t, http.StatusOK, call(h, "10.0.0.1:1", ""))
}

func TestLocalRateLimiter_Cleanup(t *testing.T) {
	rl := NewLocalRateLimiter(60, 1)
	now := time.Date(2025, 6, 10, 10, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	rl.allow("a")
	now = now.Add(11 * time.Minute)
	rl.allow("b")

	rl.Cleanup()

	assert.NotContains(t, rl.visitors, "a")
	assert.Contains(t, rl.visitors, "b")
}

func TestMetricsMiddleware_UsesRouteTemplate(t *testing.T) {
	rec := &recordingHTTPMetrics{}

	router := mux.NewRouter()
	router.Use(MetricsMiddleware(rec))
	router.HandleFunc("/api/v1/reservations/{reservationId}/cancel", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusConflict)
	}).Methods(http.MethodPost)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/reservations/17/cancel", nil))

	require.Len(t, rec.routes, 1)
	assert.Equal(t, "/api/v1/reservations/{reservationId}/cancel", rec.routes[0])
	assert.Equal(t, http.StatusConflict, rec.statuses[0])
}

type recordingHTTPMetrics struct {
	routes   []string
	statuses []int
}

func (m *recordingHTTPMetrics) ObserveHTTPRequest(_ string, route string, status int, _ time.Duration) {
	m.routes = append(m.routes, route)
	m.statuses = append(m.statuses, status)
}

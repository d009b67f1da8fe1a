package cancel_reservation

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/totalboostmarketing/reservation-system/internal/domain"
	cancelReservation "github.com/totalboostmarketing/reservation-system/internal/usecase/cancel_reservation"
	"github.com/totalboostmarketing/reservation-system/pkg/logger"
)

type mockUseCase struct {
	mock.Mock
}

func (m *mockUseCase) Execute(ctx context.Context, req *cancelReservation.Request) (*cancelReservation.Response, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cancelReservation.Response), args.Error(1)
}

func serve(h *Handler, path, body string) *httptest.ResponseRecorder {
	router := mux.NewRouter()
	router.HandleFunc("/api/v1/reservations/{reservationId}/cancel", h.Handle).Methods(http.MethodPost)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, path, strings.NewReader(body)))
	return w
}

func TestHandle_Success(t *testing.T) {
	uc := &mockUseCase{}
	uc.On("Execute", mock.Anything, &cancelReservation.Request{ReservationID: 7, CancelToken: "abc"}).
		Return(&cancelReservation.Response{
			ReservationID: 7,
			Status:        domain.StatusCancelled,
			CancelledAt:   time.Date(2025, 6, 8, 9, 0, 0, 0, time.UTC),
		}, nil)

	w := serve(NewHandler(uc, logger.Nop()), "/api/v1/reservations/7/cancel", `{"cancelToken":"abc"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"reservationId":7,"status":"cancelled","cancelledAt":"2025-06-08T09:00:00Z"}`, w.Body.String())
	uc.AssertExpectations(t)
}

func TestHandle_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		body       string
		err        error
		wantStatus int
	}{
		{name: "bad id", path: "/api/v1/reservations/abc/cancel", body: `{"cancelToken":"x"}`, wantStatus: http.StatusBadRequest},
		{name: "bad body", path: "/api/v1/reservations/7/cancel", body: `{"token":"x"}`, wantStatus: http.StatusBadRequest},
		{name: "empty token", path: "/api/v1/reservations/7/cancel", body: `{"cancelToken":""}`, err: cancelReservation.ErrInvalidInput, wantStatus: http.StatusBadRequest},
		{name: "not found", path: "/api/v1/reservations/7/cancel", body: `{"cancelToken":"x"}`, err: cancelReservation.ErrReservationNotFound, wantStatus: http.StatusNotFound},
		{name: "forbidden", path: "/api/v1/reservations/7/cancel", body: `{"cancelToken":"x"}`, err: cancelReservation.ErrForbidden, wantStatus: http.StatusForbidden},
		{name: "already cancelled", path: "/api/v1/reservations/7/cancel", body: `{"cancelToken":"x"}`, err: cancelReservation.ErrAlreadyCancelled, wantStatus: http.StatusConflict},
		{name: "visited", path: "/api/v1/reservations/7/cancel", body: `{"cancelToken":"x"}`, err: cancelReservation.ErrInvalidState, wantStatus: http.StatusConflict},
		{name: "deadline", path: "/api/v1/reservations/7/cancel", body: `{"cancelToken":"x"}`, err: cancelReservation.ErrDeadlinePassed, wantStatus: http.StatusUnprocessableEntity},
		{name: "internal", path: "/api/v1/reservations/7/cancel", body: `{"cancelToken":"x"}`, err: cancelReservation.ErrInternal, wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &mockUseCase{}
			if tt.err != nil {
				uc.On("Execute", mock.Anything, mock.Anything).Return(nil, tt.err)
			}

			w := serve(NewHandler(uc, logger.Nop()), tt.path, tt.body)

			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

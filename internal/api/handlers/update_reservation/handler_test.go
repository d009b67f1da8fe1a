package update_reservation

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/totalboostmarketing/reservation-system/internal/domain"
	updateReservation "github.com/totalboostmarketing/reservation-system/internal/usecase/update_reservation"
	"github.com/totalboostmarketing/reservation-system/pkg/logger"
)

type mockUseCase struct {
	mock.Mock
}

func (m *mockUseCase) Execute(ctx context.Context, req *updateReservation.Request) (*updateReservation.Response, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*updateReservation.Response), args.Error(1)
}

func serve(h *Handler, path, body string) *httptest.ResponseRecorder {
	router := mux.NewRouter()
	router.HandleFunc("/api/v1/admin/reservations/{reservationId}", h.Handle).Methods(http.MethodPatch)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPatch, path, strings.NewReader(body)))
	return w
}

func TestHandle_Success(t *testing.T) {
	uc := &mockUseCase{}
	uc.On("Execute", mock.Anything, mock.MatchedBy(func(req *updateReservation.Request) bool {
		return req.ReservationID == 3 &&
			req.Status != nil && *req.Status == domain.StatusVisited &&
			req.StaffID == nil && req.Notify
	})).Return(&updateReservation.Response{
		Reservation: &domain.Reservation{ID: 3, Status: domain.StatusVisited},
		Changes: map[string]domain.FieldChange{
			"status": {From: domain.StatusReserved, To: domain.StatusVisited},
		},
	}, nil)

	w := serve(NewHandler(uc, logger.Nop()), "/api/v1/admin/reservations/3", `{"status":"visited","notify":true}`)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"changes":{"status":{"from":"reserved","to":"visited"}}`)
	uc.AssertExpectations(t)
}

func TestHandle_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{name: "invalid", err: updateReservation.ErrInvalidInput, wantStatus: http.StatusBadRequest},
		{name: "not found", err: updateReservation.ErrReservationNotFound, wantStatus: http.StatusNotFound},
		{name: "menu", err: updateReservation.ErrMenuNotFound, wantStatus: http.StatusNotFound},
		{name: "staff", err: updateReservation.ErrStaffNotFound, wantStatus: http.StatusNotFound},
		{name: "transition", err: updateReservation.ErrInvalidState, wantStatus: http.StatusConflict},
		{name: "busy", err: updateReservation.ErrSlotNotAvailable, wantStatus: http.StatusConflict},
		{name: "internal", err: updateReservation.ErrInternal, wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &mockUseCase{}
			uc.On("Execute", mock.Anything, mock.Anything).Return(nil, tt.err)

			w := serve(NewHandler(uc, logger.Nop()), "/api/v1/admin/reservations/3", `{"staffId":12}`)
			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestHandle_UnknownField(t *testing.T) {
	uc := &mockUseCase{}

	w := serve(NewHandler(uc, logger.Nop()), "/api/v1/admin/reservations/3", `{"price":0}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	uc.AssertNotCalled(t, "Execute", mock.Anything, mock.Anything)
}

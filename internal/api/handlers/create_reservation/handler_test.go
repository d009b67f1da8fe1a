package create_reservation

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/totalboostmarketing/reservation-system/internal/domain"
	createReservation "github.com/totalboostmarketing/reservation-system/internal/usecase/create_reservation"
	"github.com/totalboostmarketing/reservation-system/pkg/logger"
)

type mockUseCase struct {
	mock.Mock
}

func (m *mockUseCase) Execute(ctx context.Context, req *createReservation.Request) (*createReservation.Response, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*createReservation.Response), args.Error(1)
}

const publicBody = `{
	"storeId": 1,
	"menuId": 5,
	"startTime": "2025-06-10T10:00:00+09:00",
	"customer": {"name": "Hanako", "email": "hanako@example.com"},
	"couponCode": "SPRING"
}`

func created() *createReservation.Response {
	start := time.Date(2025, 6, 10, 1, 0, 0, 0, time.UTC)
	return &createReservation.Response{
		Reservation: &domain.Reservation{
			ID: 42, StoreID: 1, MenuID: 5, StaffID: 11,
			StartTime: start, EndTime: start.Add(time.Hour),
			Status: domain.StatusReserved, Channel: domain.ChannelWeb,
			Discount:    domain.CouponSource(3),
			CancelToken: "token-42",
		},
		OriginalPrice:  6600,
		DiscountAmount: 660,
		FinalPrice:     5940,
	}
}

func TestHandle_PublicCreatesWebReservation(t *testing.T) {
	uc := &mockUseCase{}
	uc.On("Execute", mock.Anything, mock.MatchedBy(func(req *createReservation.Request) bool {
		return req.Channel == domain.ChannelWeb &&
			req.PerformedBy == domain.ActorCustomer &&
			req.StartTime.Equal(time.Date(2025, 6, 10, 1, 0, 0, 0, time.UTC)) &&
			req.CouponCode != nil && *req.CouponCode == "SPRING" &&
			req.Customer.Email == "hanako@example.com"
	})).Return(created(), nil)

	w := httptest.NewRecorder()
	NewHandler(uc, logger.Nop()).Handle(w, httptest.NewRequest(http.MethodPost, "/api/v1/reservations", strings.NewReader(publicBody)))

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"cancelToken":"token-42"`)
	assert.Contains(t, w.Body.String(), `"finalPrice":5940`)
	assert.Contains(t, w.Body.String(), `"discountKind":"coupon"`)
	uc.AssertExpectations(t)
}

func TestHandle_PublicRejectsAdminFields(t *testing.T) {
	uc := &mockUseCase{}

	body := `{"storeId":1,"menuId":5,"startTime":"2025-06-10T10:00:00+09:00","customer":{"name":"A"},"channel":"phone"}`
	w := httptest.NewRecorder()
	NewHandler(uc, logger.Nop()).Handle(w, httptest.NewRequest(http.MethodPost, "/api/v1/reservations", strings.NewReader(body)))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	uc.AssertNotCalled(t, "Execute", mock.Anything, mock.Anything)
}

func TestHandle_AdminDefaultsToPhone(t *testing.T) {
	uc := &mockUseCase{}
	uc.On("Execute", mock.Anything, mock.MatchedBy(func(req *createReservation.Request) bool {
		return req.Channel == domain.ChannelPhone &&
			req.PerformedBy == domain.ActorAdmin &&
			req.AdminNote != nil && *req.AdminNote == "regular"
	})).Return(created(), nil)

	body := `{"storeId":1,"menuId":5,"startTime":"2025-06-10T10:00:00+09:00","customer":{"name":"A","phone":"090"},"adminNote":"regular"}`
	w := httptest.NewRecorder()
	NewAdminHandler(uc, logger.Nop()).Handle(w, httptest.NewRequest(http.MethodPost, "/api/v1/admin/reservations", strings.NewReader(body)))

	assert.Equal(t, http.StatusCreated, w.Code)
	uc.AssertExpectations(t)
}

func TestHandle_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{name: "invalid input", err: createReservation.ErrInvalidInput, wantStatus: http.StatusBadRequest},
		{name: "store not found", err: createReservation.ErrStoreNotFound, wantStatus: http.StatusNotFound},
		{name: "menu not found", err: createReservation.ErrMenuNotFound, wantStatus: http.StatusNotFound},
		{name: "staff not found", err: createReservation.ErrStaffNotFound, wantStatus: http.StatusNotFound},
		{name: "slot taken", err: createReservation.ErrSlotNotAvailable, wantStatus: http.StatusConflict},
		{name: "outside window", err: createReservation.ErrOutsideBookingWindow, wantStatus: http.StatusUnprocessableEntity},
		{name: "internal", err: createReservation.ErrInternal, wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &mockUseCase{}
			uc.On("Execute", mock.Anything, mock.Anything).Return(nil, tt.err)

			w := httptest.NewRecorder()
			NewHandler(uc, logger.Nop()).Handle(w, httptest.NewRequest(http.MethodPost, "/api/v1/reservations", strings.NewReader(publicBody)))

			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

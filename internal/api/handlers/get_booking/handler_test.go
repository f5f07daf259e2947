package get_booking

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ivand14/TurnoYa-sub000/internal/api/middleware"
	"github.com/Ivand14/TurnoYa-sub000/internal/service/bookings"
	"github.com/Ivand14/TurnoYa-sub000/internal/service/bookings/models"
)

type fakeBookingService struct {
	booking *models.BookingResponse
	err     error

	gotBookingID int64
	gotUserID    int64
}

func (f *fakeBookingService) GetByID(_ context.Context, id int64, userID int64) (*models.BookingResponse, error) {
	f.gotBookingID = id
	f.gotUserID = userID
	if f.err != nil {
		return nil, f.err
	}
	return f.booking, nil
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

// newRouter поднимает маршрут так же, как main: Auth поверх хендлера
func newRouter(h *Handler) *mux.Router {
	r := mux.NewRouter()
	r.Handle("/api/v1/bookings/{bookingId}", middleware.Auth(http.HandlerFunc(h.Handle))).Methods(http.MethodGet)
	return r
}

func TestHandle_ReturnsBooking(t *testing.T) {
	svc := &fakeBookingService{
		booking: &models.BookingResponse{
			ID:          42,
			UserID:      100,
			BusinessID:  1,
			ServiceID:   10,
			BookingDate: "2025-06-02",
			StartTime:   "10:00",
			EndTime:     "11:00",
			Status:      "confirmed",
		},
	}
	h := NewHandler(svc, nopLogger{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/bookings/42", nil)
	req.Header.Set("X-User-ID", "100")
	rec := httptest.NewRecorder()

	newRouter(h).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(42), svc.gotBookingID)
	assert.Equal(t, int64(100), svc.gotUserID)
	assert.Contains(t, rec.Body.String(), `"id":42`)
	assert.Contains(t, rec.Body.String(), `"status":"confirmed"`)
}

func TestHandle_MissingUserIDHeader(t *testing.T) {
	svc := &fakeBookingService{}
	h := NewHandler(svc, nopLogger{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/bookings/42", nil)
	rec := httptest.NewRecorder()

	newRouter(h).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Zero(t, svc.gotBookingID)
}

func TestHandle_InvalidBookingID(t *testing.T) {
	h := NewHandler(&fakeBookingService{}, nopLogger{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/bookings/abc", nil)
	req.Header.Set("X-User-ID", "100")
	rec := httptest.NewRecorder()

	newRouter(h).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandle_ServiceErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"not found", bookings.ErrBookingNotFound, http.StatusNotFound},
		{"access denied", bookings.ErrAccessDenied, http.StatusForbidden},
		{"internal", errors.New("db down"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHandler(&fakeBookingService{err: tt.err}, nopLogger{})

			req := httptest.NewRequest(http.MethodGet, "/api/v1/bookings/42", nil)
			req.Header.Set("X-User-ID", "100")
			rec := httptest.NewRecorder()

			newRouter(h).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

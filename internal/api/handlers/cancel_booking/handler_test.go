package cancel_booking

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ivand14/TurnoYa-sub000/internal/api/middleware"
	"github.com/Ivand14/TurnoYa-sub000/internal/service/bookings"
	"github.com/Ivand14/TurnoYa-sub000/internal/service/bookings/models"
)

type fakeBookingService struct {
	err error

	gotBookingID int64
	gotReq       *models.CancelBookingRequest
}

func (f *fakeBookingService) Cancel(_ context.Context, bookingID int64, req *models.CancelBookingRequest) error {
	f.gotBookingID = bookingID
	f.gotReq = req
	return f.err
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

// newRouter поднимает маршрут так же, как main: Auth поверх хендлера
func newRouter(h *Handler) *mux.Router {
	r := mux.NewRouter()
	r.Handle("/api/v1/bookings/{bookingId}/cancel", middleware.Auth(http.HandlerFunc(h.Handle))).Methods(http.MethodPatch)
	return r
}

func doCancel(t *testing.T, h *Handler, bookingID, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPatch, "/api/v1/bookings/"+bookingID+"/cancel", strings.NewReader(body))
	req.Header.Set("X-User-ID", "100")
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	newRouter(h).ServeHTTP(rec, req)
	return rec
}

func TestHandle_CancelsBooking(t *testing.T) {
	svc := &fakeBookingService{}
	h := NewHandler(svc, nopLogger{})

	rec := doCancel(t, h, "42", `{"userId":100,"cancellationReason":"планы изменились"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(42), svc.gotBookingID)
	require.NotNil(t, svc.gotReq)
	assert.Equal(t, int64(100), svc.gotReq.UserID)
	assert.Equal(t, "планы изменились", svc.gotReq.CancellationReason)
}

func TestHandle_InvalidBookingID(t *testing.T) {
	svc := &fakeBookingService{}
	h := NewHandler(svc, nopLogger{})

	rec := doCancel(t, h, "abc", `{"userId":100}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Zero(t, svc.gotBookingID)
}

func TestHandle_InvalidBody(t *testing.T) {
	svc := &fakeBookingService{}
	h := NewHandler(svc, nopLogger{})

	rec := doCancel(t, h, "42", `{not json`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Nil(t, svc.gotReq)
}

func TestHandle_InvalidUserID(t *testing.T) {
	svc := &fakeBookingService{}
	h := NewHandler(svc, nopLogger{})

	rec := doCancel(t, h, "42", `{"userId":0}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Nil(t, svc.gotReq)
}

func TestHandle_ServiceErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"not found", bookings.ErrBookingNotFound, http.StatusNotFound},
		{"access denied", bookings.ErrAccessDenied, http.StatusForbidden},
		{"already cancelled", bookings.ErrCannotCancel, http.StatusBadRequest},
		{"internal", errors.New("db down"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHandler(&fakeBookingService{err: tt.err}, nopLogger{})

			rec := doCancel(t, h, "42", `{"userId":100}`)

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

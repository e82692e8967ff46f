package cancel_booking

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parkeasy/booking-service/internal/api/middleware"
	"github.com/parkeasy/booking-service/internal/service/bookings"
	"github.com/parkeasy/booking-service/internal/service/bookings/models"
)

const testSecret = "test-secret"

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fakeService struct {
	gotID  int64
	gotReq *models.CancelBookingRequest
	err    error
}

func (f *fakeService) Cancel(_ context.Context, bookingID int64, req *models.CancelBookingRequest) error {
	f.gotID = bookingID
	f.gotReq = req
	return f.err
}

func newRouter(svc *fakeService) *mux.Router {
	r := mux.NewRouter()
	protected := r.PathPrefix("/api/v1").Subrouter()
	protected.Use(middleware.Auth(testSecret))
	protected.HandleFunc("/bookings/{bookingId}/cancel", NewHandler(svc, nopLogger{}).Handle).
		Methods(http.MethodPatch)
	return r
}

func patchCancel(t *testing.T, router *mux.Router, path string, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": float64(42)})
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPatch, path, bytes.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+signed)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHandle_Success(t *testing.T) {
	svc := &fakeService{}
	router := newRouter(svc)

	rec := patchCancel(t, router, "/api/v1/bookings/5/cancel", []byte(`{"reason":"plans changed"}`))
	assert.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, int64(5), svc.gotID)
	require.NotNil(t, svc.gotReq)
	assert.Equal(t, int64(42), svc.gotReq.UserID)
	require.NotNil(t, svc.gotReq.CancellationReason)
	assert.Equal(t, "plans changed", *svc.gotReq.CancellationReason)
}

func TestHandle_EmptyBodyAllowed(t *testing.T) {
	svc := &fakeService{}
	router := newRouter(svc)

	rec := patchCancel(t, router, "/api/v1/bookings/5/cancel", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, svc.gotReq)
	assert.Nil(t, svc.gotReq.CancellationReason)
}

func TestHandle_ErrorMapping(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
	}{
		{"not found", bookings.ErrBookingNotFound, http.StatusNotFound},
		{"forbidden", bookings.ErrAccessDenied, http.StatusForbidden},
		{"already finalized", bookings.ErrAlreadyFinalized, http.StatusConflict},
		{"internal", bookings.ErrInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newRouter(&fakeService{err: tt.err})
			rec := patchCancel(t, router, "/api/v1/bookings/5/cancel", nil)
			assert.Equal(t, tt.wantCode, rec.Code)
		})
	}
}

func TestHandle_InvalidBookingID(t *testing.T) {
	router := newRouter(&fakeService{})
	rec := patchCancel(t, router, "/api/v1/bookings/abc/cancel", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

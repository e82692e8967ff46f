package create_booking

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parkeasy/booking-service/internal/api/middleware"
	uc "github.com/parkeasy/booking-service/internal/usecase/create_booking"
)

const testSecret = "test-secret"

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fakeUseCase struct {
	gotReq *uc.Request
	resp   *uc.Response
	err    error
}

func (f *fakeUseCase) Execute(_ context.Context, req *uc.Request) (*uc.Response, error) {
	f.gotReq = req
	if f.err != nil {
		return nil, f.err
	}
	return f.resp, nil
}

func newRouter(usecase *fakeUseCase) *mux.Router {
	r := mux.NewRouter()
	protected := r.PathPrefix("/api/v1").Subrouter()
	protected.Use(middleware.Auth(testSecret))
	protected.HandleFunc("/bookings", NewHandler(usecase, nopLogger{}).Handle).Methods(http.MethodPost)
	return r
}

func signedToken(t *testing.T, userID int64) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": float64(userID)})
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

func postBooking(t *testing.T, router *mux.Router, userID int64, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", bytes.NewReader(raw))
	req.Header.Set("Authorization", "Bearer "+signedToken(t, userID))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func validBody() *CreateBookingRequest {
	start := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	return &CreateBookingRequest{
		ParkingLotID:  10,
		VehicleType:   "car",
		VehicleNumber: "AB123CD",
		StartTime:     start,
		EndTime:       start.Add(2 * time.Hour),
	}
}

func TestHandle_Created(t *testing.T) {
	start := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	usecase := &fakeUseCase{resp: &uc.Response{
		ID:             1,
		UserID:         42,
		ParkingLotID:   10,
		ParkingLotName: "Central Plaza",
		PricePerHour:   50,
		VehicleType:    "car",
		VehicleNumber:  "AB123CD",
		StartTime:      start,
		EndTime:        start.Add(2 * time.Hour),
		DurationHours:  2,
		TotalPrice:     100,
		Status:         "active",
		PaymentStatus:  "pending",
	}}
	router := newRouter(usecase)

	rec := postBooking(t, router, 42, validBody())
	require.Equal(t, http.StatusCreated, rec.Code)

	// userID берется из токена, не из тела
	require.NotNil(t, usecase.gotReq)
	assert.Equal(t, int64(42), usecase.gotReq.UserID)

	var resp CreateBookingResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, int64(1), resp.ID)
	assert.Equal(t, 100.0, resp.TotalPrice)
	assert.Equal(t, "active", resp.Status)
	assert.Equal(t, "pending", resp.PaymentStatus)
}

func TestHandle_ErrorMapping(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
	}{
		{"lot not found", uc.ErrLotNotFound, http.StatusNotFound},
		{"no slots", uc.ErrNoSlotsAvailable, http.StatusConflict},
		{"bad vehicle type", uc.ErrInvalidVehicleType, http.StatusBadRequest},
		{"bad time range", uc.ErrInvalidTimeRange, http.StatusBadRequest},
		{"bad input", uc.ErrInvalidInput, http.StatusBadRequest},
		{"internal", uc.ErrInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newRouter(&fakeUseCase{err: tt.err})
			rec := postBooking(t, router, 42, validBody())
			assert.Equal(t, tt.wantCode, rec.Code)
		})
	}
}

func TestHandle_MalformedBody(t *testing.T) {
	router := newRouter(&fakeUseCase{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", bytes.NewReader([]byte("{not json")))
	req.Header.Set("Authorization", "Bearer "+signedToken(t, 42))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandle_UnknownFieldRejected(t *testing.T) {
	router := newRouter(&fakeUseCase{})

	body := []byte(`{"parkingLotId": 10, "userId": 999}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", bytes.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+signedToken(t, 42))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandle_Unauthenticated(t *testing.T) {
	router := newRouter(&fakeUseCase{})

	raw, _ := json.Marshal(validBody())
	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", bytes.NewReader(raw))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

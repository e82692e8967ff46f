package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func authRequest(token string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

func TestAuth_ValidToken(t *testing.T) {
	var gotUserID int64
	var gotRole string

	handler := Auth(testSecret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := UserIDFromContext(r.Context())
		require.True(t, ok)
		gotUserID = id
		gotRole = RoleFromContext(r.Context())
	}))

	token := signToken(t, testSecret, jwt.MapClaims{"sub": float64(42), "role": "owner"})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, authRequest(token))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(42), gotUserID)
	assert.Equal(t, "owner", gotRole)
}

func TestAuth_DefaultRoleIsUser(t *testing.T) {
	var gotRole string
	handler := Auth(testSecret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotRole = RoleFromContext(r.Context())
	}))

	token := signToken(t, testSecret, jwt.MapClaims{"sub": float64(7)})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, authRequest(token))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "user", gotRole)
}

func TestAuth_Rejections(t *testing.T) {
	passed := false
	handler := Auth(testSecret)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		passed = true
	}))

	tests := []struct {
		name  string
		token string
	}{
		{"missing token", ""},
		{"garbage token", "not-a-jwt"},
		{"wrong secret", signToken(t, "another-secret", jwt.MapClaims{"sub": float64(1)})},
		{"missing subject", signToken(t, testSecret, jwt.MapClaims{"role": "user"})},
		{"non-positive subject", signToken(t, testSecret, jwt.MapClaims{"sub": float64(0)})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			passed = false
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, authRequest(tt.token))
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.False(t, passed)
		})
	}
}

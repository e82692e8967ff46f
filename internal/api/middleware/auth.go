package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/mux"

	"github.com/parkeasy/booking-service/internal/api/handlers"
)

type contextKey string

const (
	userIDKey contextKey = "userID"
	roleKey   contextKey = "role"
)

// Auth проверяет Bearer-токен auth-коллаборатора и кладет
// (userID, role) в context запроса. Подпись HS256, sub - числовой userID.
func Auth(secret string) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth := r.Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				handlers.RespondUnauthorized(w, "missing bearer token")
				return
			}
			raw := strings.TrimPrefix(auth, "Bearer ")

			tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, jwt.ErrSignatureInvalid
				}
				return []byte(secret), nil
			})
			if err != nil || !tok.Valid {
				handlers.RespondUnauthorized(w, "invalid token")
				return
			}

			claims, ok := tok.Claims.(jwt.MapClaims)
			if !ok {
				handlers.RespondUnauthorized(w, "invalid claims")
				return
			}

			sub, ok := claims["sub"].(float64)
			if !ok || sub <= 0 {
				handlers.RespondUnauthorized(w, "invalid subject claim")
				return
			}
			role, _ := claims["role"].(string)
			if role == "" {
				role = "user"
			}

			ctx := context.WithValue(r.Context(), userIDKey, int64(sub))
			ctx = context.WithValue(ctx, roleKey, role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserIDFromContext возвращает userID, положенный Auth-middleware
func UserIDFromContext(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(userIDKey).(int64)
	return id, ok
}

// RoleFromContext возвращает роль, положенную Auth-middleware
func RoleFromContext(ctx context.Context) string {
	role, _ := ctx.Value(roleKey).(string)
	return role
}

package get_user_bookings

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/parkeasy/booking-service/internal/api/handlers"
	"github.com/parkeasy/booking-service/internal/api/middleware"
	"github.com/parkeasy/booking-service/internal/service/bookings"
	"github.com/parkeasy/booking-service/internal/service/bookings/models"
)

const (
	msgInvalidUserID   = "некорректный ID пользователя"
	msgAccessDenied    = "доступ запрещен"
	msgInvalidStatus   = "недопустимый статус в фильтре"
	msgMissingIdentity = "не удалось определить пользователя"
)

type Handler struct {
	service BookingService
	logger  Logger
}

func NewHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle обрабатывает GET /api/v1/users/{userId}/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	callerID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		h.logger.Warn("GET /users/{userId}/bookings - запрос без идентификатора пользователя")
		handlers.RespondUnauthorized(w, msgMissingIdentity)
		return
	}
	role := middleware.RoleFromContext(r.Context())

	userID, err := strconv.ParseInt(mux.Vars(r)["userId"], 10, 64)
	if err != nil || userID <= 0 {
		h.logger.Warn("GET /users/{userId}/bookings - некорректный ID: %v", mux.Vars(r)["userId"])
		handlers.RespondBadRequest(w, msgInvalidUserID)
		return
	}

	var status *string
	if v := r.URL.Query().Get("status"); v != "" {
		status = &v
	}

	resp, err := h.service.GetUserBookings(r.Context(), &models.GetUserBookingsRequest{
		UserID:   userID,
		CallerID: callerID,
		Role:     role,
		Status:   status,
	})
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrAccessDenied):
			h.logger.Warn("GET /users/{userId}/bookings - доступ запрещен (пользователь %d к истории %d)",
				callerID, userID)
			handlers.RespondForbidden(w, msgAccessDenied)
		case errors.Is(err, bookings.ErrInvalidInput):
			h.logger.Warn("GET /users/{userId}/bookings - недопустимый статус фильтра: %v", status)
			handlers.RespondBadRequest(w, msgInvalidStatus)
		default:
			h.logger.Error("GET /users/{userId}/bookings - внутренняя ошибка: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, resp)
}

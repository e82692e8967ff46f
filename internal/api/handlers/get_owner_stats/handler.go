package get_owner_stats

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
	msgInvalidOwnerID  = "некорректный ID владельца"
	msgAccessDenied    = "доступ запрещен"
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

// Handle обрабатывает GET /api/v1/owners/{userId}/stats
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	callerID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		h.logger.Warn("GET /owners/{userId}/stats - запрос без идентификатора пользователя")
		handlers.RespondUnauthorized(w, msgMissingIdentity)
		return
	}
	role := middleware.RoleFromContext(r.Context())

	ownerID, err := strconv.ParseInt(mux.Vars(r)["userId"], 10, 64)
	if err != nil || ownerID <= 0 {
		h.logger.Warn("GET /owners/{userId}/stats - некорректный ID: %v", mux.Vars(r)["userId"])
		handlers.RespondBadRequest(w, msgInvalidOwnerID)
		return
	}

	resp, err := h.service.GetOwnerStats(r.Context(), &models.GetOwnerBookingsRequest{
		OwnerUserID: ownerID,
		CallerID:    callerID,
		Role:        role,
	})
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrAccessDenied):
			h.logger.Warn("GET /owners/{userId}/stats - доступ запрещен (пользователь %d к владельцу %d)",
				callerID, ownerID)
			handlers.RespondForbidden(w, msgAccessDenied)
		default:
			h.logger.Error("GET /owners/{userId}/stats - внутренняя ошибка: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, resp)
}

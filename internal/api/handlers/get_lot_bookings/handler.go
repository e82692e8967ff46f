package get_lot_bookings

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
	msgInvalidLotID    = "некорректный ID парковки"
	msgLotNotFound     = "парковка не найдена"
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

// Handle обрабатывает GET /api/v1/parking-lots/{lotId}/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	callerID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		h.logger.Warn("GET /parking-lots/{lotId}/bookings - запрос без идентификатора пользователя")
		handlers.RespondUnauthorized(w, msgMissingIdentity)
		return
	}
	role := middleware.RoleFromContext(r.Context())

	lotID, err := strconv.ParseInt(mux.Vars(r)["lotId"], 10, 64)
	if err != nil || lotID <= 0 {
		h.logger.Warn("GET /parking-lots/{lotId}/bookings - некорректный ID: %v", mux.Vars(r)["lotId"])
		handlers.RespondBadRequest(w, msgInvalidLotID)
		return
	}

	var status *string
	if v := r.URL.Query().Get("status"); v != "" {
		status = &v
	}

	resp, err := h.service.GetLotBookings(r.Context(), &models.GetLotBookingsRequest{
		ParkingLotID: lotID,
		CallerID:     callerID,
		Role:         role,
		Status:       status,
	})
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrLotNotFound):
			h.logger.Warn("GET /parking-lots/{lotId}/bookings - парковка %d не найдена", lotID)
			handlers.RespondNotFound(w, msgLotNotFound)
		case errors.Is(err, bookings.ErrAccessDenied):
			h.logger.Warn("GET /parking-lots/{lotId}/bookings - доступ запрещен (пользователь %d, парковка %d)",
				callerID, lotID)
			handlers.RespondForbidden(w, msgAccessDenied)
		case errors.Is(err, bookings.ErrInvalidInput):
			h.logger.Warn("GET /parking-lots/{lotId}/bookings - недопустимый статус фильтра: %v", status)
			handlers.RespondBadRequest(w, msgInvalidStatus)
		default:
			h.logger.Error("GET /parking-lots/{lotId}/bookings - внутренняя ошибка: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, resp)
}

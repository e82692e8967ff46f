package get_booking

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/parkeasy/booking-service/internal/api/handlers"
	"github.com/parkeasy/booking-service/internal/api/middleware"
	"github.com/parkeasy/booking-service/internal/service/bookings"
)

const (
	msgInvalidBookingID = "некорректный ID бронирования"
	msgBookingNotFound  = "бронирование не найдено"
	msgAccessDenied     = "доступ запрещен"
	msgMissingIdentity  = "не удалось определить пользователя"
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

// Handle обрабатывает GET /api/v1/bookings/{bookingId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	callerID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		h.logger.Warn("GET /bookings/{bookingId} - запрос без идентификатора пользователя")
		handlers.RespondUnauthorized(w, msgMissingIdentity)
		return
	}
	role := middleware.RoleFromContext(r.Context())

	bookingID, err := strconv.ParseInt(mux.Vars(r)["bookingId"], 10, 64)
	if err != nil || bookingID <= 0 {
		h.logger.Warn("GET /bookings/{bookingId} - некорректный ID: %v", mux.Vars(r)["bookingId"])
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	resp, err := h.service.GetByID(r.Context(), bookingID, callerID, role)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrBookingNotFound):
			h.logger.Warn("GET /bookings/{bookingId} - бронирование %d не найдено", bookingID)
			handlers.RespondNotFound(w, msgBookingNotFound)
		case errors.Is(err, bookings.ErrAccessDenied):
			h.logger.Warn("GET /bookings/{bookingId} - доступ запрещен (пользователь %d, бронирование %d)",
				callerID, bookingID)
			handlers.RespondForbidden(w, msgAccessDenied)
		default:
			h.logger.Error("GET /bookings/{bookingId} - внутренняя ошибка: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, resp)
}

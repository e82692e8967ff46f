package cancel_booking

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/parkeasy/booking-service/internal/api/handlers"
	"github.com/parkeasy/booking-service/internal/api/middleware"
	"github.com/parkeasy/booking-service/internal/service/bookings"
)

const (
	msgInvalidBookingID = "некорректный ID бронирования"
	msgInvalidBody      = "некорректное тело запроса"
	msgBookingNotFound  = "бронирование не найдено"
	msgAccessDenied     = "доступ запрещен"
	msgAlreadyFinalized = "бронирование уже завершено"
	msgInvalidInput     = "некорректные входные данные"
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

// Handle обрабатывает PATCH /api/v1/bookings/{bookingId}/cancel
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	callerID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		h.logger.Warn("PATCH /bookings/{bookingId}/cancel - запрос без идентификатора пользователя")
		handlers.RespondUnauthorized(w, msgMissingIdentity)
		return
	}
	role := middleware.RoleFromContext(r.Context())

	bookingID, err := strconv.ParseInt(mux.Vars(r)["bookingId"], 10, 64)
	if err != nil || bookingID <= 0 {
		h.logger.Warn("PATCH /bookings/{bookingId}/cancel - некорректный ID: %v", mux.Vars(r)["bookingId"])
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	// Тело опционально: отмена без указания причины допустима
	var req CancelBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
		h.logger.Warn("PATCH /bookings/{bookingId}/cancel - ошибка декодирования тела: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBody)
		return
	}

	err = h.service.Cancel(r.Context(), bookingID, req.ToServiceRequest(callerID, role))
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrBookingNotFound):
			h.logger.Warn("PATCH /bookings/{bookingId}/cancel - бронирование %d не найдено", bookingID)
			handlers.RespondNotFound(w, msgBookingNotFound)
		case errors.Is(err, bookings.ErrAccessDenied):
			h.logger.Warn("PATCH /bookings/{bookingId}/cancel - доступ запрещен (пользователь %d)", callerID)
			handlers.RespondForbidden(w, msgAccessDenied)
		case errors.Is(err, bookings.ErrAlreadyFinalized):
			h.logger.Info("PATCH /bookings/{bookingId}/cancel - бронирование %d уже завершено", bookingID)
			handlers.RespondConflict(w, msgAlreadyFinalized)
		case errors.Is(err, bookings.ErrInvalidInput):
			h.logger.Warn("PATCH /bookings/{bookingId}/cancel - некорректные входные данные: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)
		default:
			h.logger.Error("PATCH /bookings/{bookingId}/cancel - внутренняя ошибка: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /bookings/{bookingId}/cancel - бронирование %d отменено пользователем %d",
		bookingID, callerID)
	handlers.RespondJSON(w, http.StatusOK, nil)
}

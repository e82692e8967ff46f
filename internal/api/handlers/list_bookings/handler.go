package list_bookings

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/parkeasy/booking-service/internal/api/handlers"
	"github.com/parkeasy/booking-service/internal/api/middleware"
	"github.com/parkeasy/booking-service/internal/service/bookings"
	"github.com/parkeasy/booking-service/internal/service/bookings/models"
)

const (
	msgAccessDenied    = "доступ запрещен"
	msgInvalidPaging   = "некорректные параметры пагинации"
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

// Handle обрабатывает GET /api/v1/bookings (только админ)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	callerID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		h.logger.Warn("GET /bookings - запрос без идентификатора пользователя")
		handlers.RespondUnauthorized(w, msgMissingIdentity)
		return
	}
	role := middleware.RoleFromContext(r.Context())

	page, err := parsePositiveInt(r.URL.Query().Get("page"), 0)
	if err != nil {
		h.logger.Warn("GET /bookings - некорректный page: %v", r.URL.Query().Get("page"))
		handlers.RespondBadRequest(w, msgInvalidPaging)
		return
	}
	limit, err := parsePositiveInt(r.URL.Query().Get("limit"), 0)
	if err != nil {
		h.logger.Warn("GET /bookings - некорректный limit: %v", r.URL.Query().Get("limit"))
		handlers.RespondBadRequest(w, msgInvalidPaging)
		return
	}

	resp, err := h.service.ListBookings(r.Context(), &models.ListBookingsRequest{
		CallerID: callerID,
		Role:     role,
		Page:     page,
		Limit:    limit,
	})
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrAccessDenied):
			h.logger.Warn("GET /bookings - доступ запрещен (пользователь %d, роль %s)", callerID, role)
			handlers.RespondForbidden(w, msgAccessDenied)
		default:
			h.logger.Error("GET /bookings - внутренняя ошибка: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, resp)
}

// parsePositiveInt парсит query-параметр; пустое значение дает fallback
func parsePositiveInt(raw string, fallback int) (int, error) {
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, strconv.ErrSyntax
	}
	return v, nil
}

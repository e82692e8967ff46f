package create_parking_lot

import (
	"errors"
	"net/http"

	"github.com/parkeasy/booking-service/internal/api/handlers"
	"github.com/parkeasy/booking-service/internal/api/middleware"
	"github.com/parkeasy/booking-service/internal/service/parkinglots"
)

const (
	msgInvalidBody     = "некорректное тело запроса"
	msgAccessDenied    = "доступ запрещен"
	msgInvalidInput    = "некорректные входные данные"
	msgMissingIdentity = "не удалось определить пользователя"
)

type Handler struct {
	service LotService
	logger  Logger
}

func NewHandler(service LotService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle обрабатывает POST /api/v1/parking-lots
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	callerID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		h.logger.Warn("POST /parking-lots - запрос без идентификатора пользователя")
		handlers.RespondUnauthorized(w, msgMissingIdentity)
		return
	}
	role := middleware.RoleFromContext(r.Context())

	var req CreateLotRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /parking-lots - ошибка декодирования тела: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBody)
		return
	}

	resp, err := h.service.Create(r.Context(), req.ToServiceRequest(callerID, role))
	if err != nil {
		switch {
		case errors.Is(err, parkinglots.ErrAccessDenied):
			h.logger.Warn("POST /parking-lots - доступ запрещен (пользователь %d, роль %s)", callerID, role)
			handlers.RespondForbidden(w, msgAccessDenied)
		case errors.Is(err, parkinglots.ErrInvalidInput):
			h.logger.Warn("POST /parking-lots - некорректные входные данные: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)
		default:
			h.logger.Error("POST /parking-lots - внутренняя ошибка: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /parking-lots - создана парковка %d (%s) владельцем %d", resp.ID, resp.Name, callerID)
	handlers.RespondJSON(w, http.StatusCreated, resp)
}

package update_parking_lot

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/parkeasy/booking-service/internal/api/handlers"
	"github.com/parkeasy/booking-service/internal/api/middleware"
	"github.com/parkeasy/booking-service/internal/service/parkinglots"
)

const (
	msgInvalidLotID     = "некорректный ID парковки"
	msgInvalidBody      = "некорректное тело запроса"
	msgLotNotFound      = "парковка не найдена"
	msgAccessDenied     = "доступ запрещен"
	msgCapacityConflict = "вместимость меньше числа занятых мест"
	msgInvalidInput     = "некорректные входные данные"
	msgMissingIdentity  = "не удалось определить пользователя"
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

// Handle обрабатывает PUT /api/v1/parking-lots/{lotId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	callerID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		h.logger.Warn("PUT /parking-lots/{lotId} - запрос без идентификатора пользователя")
		handlers.RespondUnauthorized(w, msgMissingIdentity)
		return
	}
	role := middleware.RoleFromContext(r.Context())

	lotID, err := strconv.ParseInt(mux.Vars(r)["lotId"], 10, 64)
	if err != nil || lotID <= 0 {
		h.logger.Warn("PUT /parking-lots/{lotId} - некорректный ID: %v", mux.Vars(r)["lotId"])
		handlers.RespondBadRequest(w, msgInvalidLotID)
		return
	}

	var req UpdateLotRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /parking-lots/{lotId} - ошибка декодирования тела: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBody)
		return
	}

	resp, err := h.service.Update(r.Context(), lotID, req.ToServiceRequest(callerID, role))
	if err != nil {
		switch {
		case errors.Is(err, parkinglots.ErrLotNotFound):
			h.logger.Warn("PUT /parking-lots/{lotId} - парковка %d не найдена", lotID)
			handlers.RespondNotFound(w, msgLotNotFound)
		case errors.Is(err, parkinglots.ErrAccessDenied):
			h.logger.Warn("PUT /parking-lots/{lotId} - доступ запрещен (пользователь %d, парковка %d)",
				callerID, lotID)
			handlers.RespondForbidden(w, msgAccessDenied)
		case errors.Is(err, parkinglots.ErrCapacityBelowOccupied):
			h.logger.Info("PUT /parking-lots/{lotId} - вместимость %d меньше занятых мест (парковка %d)",
				req.TotalSlots, lotID)
			handlers.RespondConflict(w, msgCapacityConflict)
		case errors.Is(err, parkinglots.ErrInvalidInput):
			h.logger.Warn("PUT /parking-lots/{lotId} - некорректные входные данные: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)
		default:
			h.logger.Error("PUT /parking-lots/{lotId} - внутренняя ошибка: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /parking-lots/{lotId} - парковка %d обновлена пользователем %d", lotID, callerID)
	handlers.RespondJSON(w, http.StatusOK, resp)
}

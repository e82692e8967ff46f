package get_parking_lot

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/parkeasy/booking-service/internal/api/handlers"
	"github.com/parkeasy/booking-service/internal/service/parkinglots"
)

const (
	msgInvalidLotID = "некорректный ID парковки"
	msgLotNotFound  = "парковка не найдена"
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

// Handle обрабатывает GET /api/v1/parking-lots/{lotId} (публичный)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	lotID, err := strconv.ParseInt(mux.Vars(r)["lotId"], 10, 64)
	if err != nil || lotID <= 0 {
		h.logger.Warn("GET /parking-lots/{lotId} - некорректный ID: %v", mux.Vars(r)["lotId"])
		handlers.RespondBadRequest(w, msgInvalidLotID)
		return
	}

	resp, err := h.service.GetByID(r.Context(), lotID)
	if err != nil {
		switch {
		case errors.Is(err, parkinglots.ErrLotNotFound):
			h.logger.Warn("GET /parking-lots/{lotId} - парковка %d не найдена", lotID)
			handlers.RespondNotFound(w, msgLotNotFound)
		default:
			h.logger.Error("GET /parking-lots/{lotId} - внутренняя ошибка: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, resp)
}

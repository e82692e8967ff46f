package list_parking_lots

import (
	"net/http"

	"github.com/parkeasy/booking-service/internal/api/handlers"
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

// Handle обрабатывает GET /api/v1/parking-lots (публичный)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.List(r.Context())
	if err != nil {
		h.logger.Error("GET /parking-lots - внутренняя ошибка: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, resp)
}

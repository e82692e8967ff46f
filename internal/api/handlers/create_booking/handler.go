package create_booking

import (
	"errors"
	"net/http"

	"github.com/parkeasy/booking-service/internal/api/handlers"
	"github.com/parkeasy/booking-service/internal/api/middleware"
	uc "github.com/parkeasy/booking-service/internal/usecase/create_booking"
)

const (
	msgInvalidBody     = "некорректное тело запроса"
	msgLotNotFound     = "парковка не найдена"
	msgNoSlots         = "нет свободных мест"
	msgInvalidVehicle  = "некорректный тип транспортного средства"
	msgInvalidTimes    = "окно бронирования задано некорректно"
	msgInvalidInput    = "некорректные входные данные"
	msgMissingIdentity = "не удалось определить пользователя"
)

type Handler struct {
	usecase CreateBookingUseCase
	logger  Logger
}

func NewHandler(usecase CreateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		usecase: usecase,
		logger:  logger,
	}
}

// Handle обрабатывает POST /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		h.logger.Warn("POST /bookings - запрос без идентификатора пользователя")
		handlers.RespondUnauthorized(w, msgMissingIdentity)
		return
	}

	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - ошибка декодирования тела: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBody)
		return
	}

	resp, err := h.usecase.Execute(r.Context(), req.ToUseCaseRequest(userID))
	if err != nil {
		switch {
		case errors.Is(err, uc.ErrLotNotFound):
			h.logger.Warn("POST /bookings - парковка %d не найдена", req.ParkingLotID)
			handlers.RespondNotFound(w, msgLotNotFound)
		case errors.Is(err, uc.ErrNoSlotsAvailable):
			h.logger.Info("POST /bookings - нет мест в парковке %d", req.ParkingLotID)
			handlers.RespondConflict(w, msgNoSlots)
		case errors.Is(err, uc.ErrInvalidVehicleType):
			h.logger.Warn("POST /bookings - некорректный тип ТС: %s", req.VehicleType)
			handlers.RespondBadRequest(w, msgInvalidVehicle)
		case errors.Is(err, uc.ErrInvalidTimeRange):
			h.logger.Warn("POST /bookings - некорректное окно бронирования")
			handlers.RespondBadRequest(w, msgInvalidTimes)
		case errors.Is(err, uc.ErrInvalidInput):
			h.logger.Warn("POST /bookings - некорректные входные данные: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)
		default:
			h.logger.Error("POST /bookings - внутренняя ошибка: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings - создано бронирование %d (пользователь %d, парковка %d)",
		resp.ID, userID, req.ParkingLotID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(resp))
}

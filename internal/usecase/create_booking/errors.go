package create_booking

import "errors"

var (
	// ErrLotNotFound возвращается, когда парковка не найдена
	ErrLotNotFound = errors.New("create_booking: parking lot not found")

	// ErrNoSlotsAvailable возвращается, когда в парковке нет свободных мест
	ErrNoSlotsAvailable = errors.New("create_booking: no slots available")

	// ErrInvalidVehicleType возвращается при недопустимом типе транспортного средства
	ErrInvalidVehicleType = errors.New("create_booking: invalid vehicle type")

	// ErrInvalidTimeRange возвращается, когда endTime не позже startTime
	ErrInvalidTimeRange = errors.New("create_booking: end time must be after start time")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")
)

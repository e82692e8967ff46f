package parkinglot

import "errors"

var (
	// ErrLotNotFound возвращается, когда парковка не найдена
	ErrLotNotFound = errors.New("parkinglot.repository: parking lot not found")

	// ErrNoSlotsAvailable возвращается, когда в парковке нет свободных мест
	ErrNoSlotsAvailable = errors.New("parkinglot.repository: no slots available")

	// ErrNothingToRelease возвращается, когда счетчик занятости уже на нуле
	ErrNothingToRelease = errors.New("parkinglot.repository: nothing to release")

	// ErrCapacityBelowOccupied возвращается, когда новая вместимость меньше числа занятых мест
	ErrCapacityBelowOccupied = errors.New("parkinglot.repository: total slots below cars parked")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("parkinglot.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("parkinglot.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("parkinglot.repository: failed to scan row")
)

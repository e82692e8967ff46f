package bookings

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("booking not found")

	// ErrLotNotFound возвращается, когда парковка не найдена
	ErrLotNotFound = errors.New("parking lot not found")

	// ErrAccessDenied возвращается, когда у пользователя нет прав доступа
	ErrAccessDenied = errors.New("access denied")

	// ErrAlreadyFinalized возвращается при попытке перехода из терминального
	// статуса (повторная отмена, отмена expired-брони и т.п.)
	ErrAlreadyFinalized = errors.New("booking already finalized")

	// ErrInvalidStatus возвращается при попытке установить недопустимый статус
	ErrInvalidStatus = errors.New("invalid booking status")

	// ErrInvalidPaymentStatus возвращается при неизвестном статусе оплаты
	ErrInvalidPaymentStatus = errors.New("invalid payment status")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)

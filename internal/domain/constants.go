package domain

// Roles передаются auth-коллаборатором вместе с userID
const (
	RoleUser  = "user"
	RoleOwner = "owner"
	RoleAdmin = "admin"
)

// Business validation constants
const (
	MinDurationHours            = 0.5
	MaxVehicleNumberLength      = 20
	MaxCancellationReasonLength = 500
	MaxLotNameLength            = 200
)

// Pagination defaults для админского листинга
const (
	DefaultPage  = 1
	DefaultLimit = 50
	MaxLimit     = 200
)

// TerminalStatuses список терминальных статусов бронирования.
// Используется при фильтрации и проверках переходов.
var TerminalStatuses = []BookingStatus{
	StatusCompleted,
	StatusCancelled,
	StatusExpired,
}

// ValidVehicleTypes допустимые типы транспортных средств
var ValidVehicleTypes = []VehicleType{
	VehicleCar,
	VehicleBike,
	VehicleTruck,
	VehicleVan,
}

// IsValidVehicleType проверяет тип транспортного средства
func IsValidVehicleType(v VehicleType) bool {
	for _, t := range ValidVehicleTypes {
		if t == v {
			return true
		}
	}
	return false
}

// IsValidBookingStatus проверяет, что строка - известный статус бронирования
func IsValidBookingStatus(s BookingStatus) bool {
	switch s {
	case StatusActive, StatusCompleted, StatusCancelled, StatusExpired:
		return true
	}
	return false
}

// IsValidPaymentStatus проверяет, что строка - известный статус оплаты
func IsValidPaymentStatus(s PaymentStatus) bool {
	switch s {
	case PaymentPending, PaymentPaid, PaymentRefunded, PaymentFailed:
		return true
	}
	return false
}

// UserBookingsFilter фильтр для истории бронирований пользователя
type UserBookingsFilter struct {
	UserID int64
	Status *BookingStatus // nil = все статусы
}

// LotBookingsFilter фильтр для бронирований конкретного лота
type LotBookingsFilter struct {
	ParkingLotID int64
	Status       *BookingStatus
}

// ListBookingsFilter постраничный листинг всех бронирований (админ)
type ListBookingsFilter struct {
	Page  int
	Limit int
}

// OwnerStats агрегированная статистика по лотам владельца
type OwnerStats struct {
	TotalBookings     int64
	ActiveBookings    int64
	CompletedBookings int64
	CancelledBookings int64
	ExpiredBookings   int64
	TotalRevenue      float64 // сумма total_price по paid-бронированиям
}

package domain

import (
	"math"
	"time"
)

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	StatusActive    BookingStatus = "active"
	StatusCompleted BookingStatus = "completed"
	StatusCancelled BookingStatus = "cancelled"
	StatusExpired   BookingStatus = "expired"
)

// PaymentStatus represents the payment state of a booking.
// Независимая ось: бронирование может быть active при pending оплате.
type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentRefunded PaymentStatus = "refunded"
	PaymentFailed   PaymentStatus = "failed"
)

// VehicleType represents the type of vehicle for a booking
type VehicleType string

const (
	VehicleCar   VehicleType = "car"
	VehicleBike  VehicleType = "bike"
	VehicleTruck VehicleType = "truck"
	VehicleVan   VehicleType = "van"
)

// Booking represents a slot reservation in a parking lot
type Booking struct {
	ID           int64
	UserID       int64
	ParkingLotID int64

	// Denormalized data for history: изменения лота не влияют на историю
	ParkingLotName string
	PricePerHour   float64

	VehicleType   VehicleType
	VehicleNumber string

	StartTime     time.Time
	EndTime       time.Time
	DurationHours float64
	TotalPrice    float64

	Status        BookingStatus
	PaymentStatus PaymentStatus

	CancellationReason *string
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive returns true if the booking currently holds a slot
func (b *Booking) IsActive() bool {
	return b.Status == StatusActive
}

// IsTerminal returns true if no further status transition is allowed
func (b *Booking) IsTerminal() bool {
	return b.Status == StatusCompleted || b.Status == StatusCancelled || b.Status == StatusExpired
}

// CanBeCancelled returns true if the booking can be cancelled
func (b *Booking) CanBeCancelled() bool {
	return b.Status == StatusActive
}

// CanTransitionTo проверяет допустимость перехода статуса.
// Единственный источник переходов: active -> completed|cancelled|expired,
// терминальные статусы никогда не возвращаются в active.
func (b *Booking) CanTransitionTo(target BookingStatus) bool {
	if b.Status != StatusActive {
		return false
	}
	switch target {
	case StatusCompleted, StatusCancelled, StatusExpired:
		return true
	default:
		return false
	}
}

// IsPaid returns true if the booking has been paid for
func (b *Booking) IsPaid() bool {
	return b.PaymentStatus == PaymentPaid
}

// DeriveDurationHours вычисляет длительность бронирования в часах:
// ceil((endTime - startTime) / 1h), но не меньше MinDurationHours
func DeriveDurationHours(start, end time.Time) float64 {
	hours := math.Ceil(end.Sub(start).Hours())
	if hours < MinDurationHours {
		return MinDurationHours
	}
	return hours
}

// TotalPriceFor вычисляет стоимость бронирования по снапшоту цены лота
func TotalPriceFor(pricePerHour, durationHours float64) float64 {
	return pricePerHour * durationHours
}

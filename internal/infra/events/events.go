// Package events публикует события жизненного цикла бронирований в RabbitMQ.
// Downstream-потребители (уведомления, аналитика) читают их без обращения к БД.
package events

import "time"

// Event types
const (
	TypeBookingCreated   = "booking.created"
	TypeBookingCancelled = "booking.cancelled"
	TypeBookingCompleted = "booking.completed"
	TypeBookingExpired   = "booking.expired"
)

// BookingEvent payload события жизненного цикла бронирования
type BookingEvent struct {
	Type           string    `json:"type"`
	BookingID      int64     `json:"bookingId"`
	UserID         int64     `json:"userId"`
	ParkingLotID   int64     `json:"parkingLotId"`
	ParkingLotName string    `json:"parkingLotName"`
	VehicleNumber  string    `json:"vehicleNumber"`
	Status         string    `json:"status"`
	TotalPrice     float64   `json:"totalPrice"`
	OccurredAt     time.Time `json:"occurredAt"`
}

package models

import (
	"fmt"
	"time"

	"github.com/parkeasy/booking-service/internal/domain"
)

// BookingResponse модель бронирования для внешнего слоя
type BookingResponse struct {
	ID             int64      `json:"id"`
	UserID         int64      `json:"userId"`
	ParkingLotID   int64      `json:"parkingLotId"`
	ParkingLotName string     `json:"parkingLotName"`
	PricePerHour   float64    `json:"pricePerHour"`
	VehicleType    string     `json:"vehicleType"`
	VehicleNumber  string     `json:"vehicleNumber"`
	StartTime      time.Time  `json:"startTime"`
	EndTime        time.Time  `json:"endTime"`
	DurationHours  float64    `json:"duration"`
	TotalPrice     float64    `json:"totalPrice"`
	Status         string     `json:"status"`
	PaymentStatus  string     `json:"paymentStatus"`
	CancelledAt    *time.Time `json:"cancelledAt,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

// BookingListResponse список бронирований
type BookingListResponse struct {
	Bookings []*BookingResponse `json:"bookings"`
}

// PagedBookingListResponse постраничный список бронирований (админ)
type PagedBookingListResponse struct {
	Bookings []*BookingResponse `json:"bookings"`
	Total    int64              `json:"total"`
	Page     int                `json:"page"`
	Limit    int                `json:"limit"`
}

// CancelBookingRequest запрос на отмену бронирования
type CancelBookingRequest struct {
	UserID             int64
	Role               string
	CancellationReason *string
}

// UpdateStatusRequest запрос на смену статуса бронирования
type UpdateStatusRequest struct {
	UserID int64
	Role   string
	Status string
}

// UpdatePaymentStatusRequest запрос платежного коллаборатора (verify callback)
type UpdatePaymentStatusRequest struct {
	UserID int64
	Role   string
	Status string
}

// GetUserBookingsRequest запрос истории бронирований пользователя
type GetUserBookingsRequest struct {
	UserID   int64
	CallerID int64
	Role     string
	Status   *string
}

// GetLotBookingsRequest запрос бронирований парковки
type GetLotBookingsRequest struct {
	ParkingLotID int64
	CallerID     int64
	Role         string
	Status       *string
}

// GetOwnerBookingsRequest запрос бронирований по всем лотам владельца
type GetOwnerBookingsRequest struct {
	OwnerUserID int64
	CallerID    int64
	Role        string
}

// ListBookingsRequest постраничный листинг (только админ)
type ListBookingsRequest struct {
	CallerID int64
	Role     string
	Page     int
	Limit    int
}

// OwnerStatsResponse агрегированная статистика владельца
type OwnerStatsResponse struct {
	TotalBookings     int64   `json:"totalBookings"`
	ActiveBookings    int64   `json:"activeBookings"`
	CompletedBookings int64   `json:"completedBookings"`
	CancelledBookings int64   `json:"cancelledBookings"`
	ExpiredBookings   int64   `json:"expiredBookings"`
	TotalRevenue      float64 `json:"totalRevenue"`
}

// FromDomainBooking конвертирует domain.Booking в response-модель
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	return &BookingResponse{
		ID:             b.ID,
		UserID:         b.UserID,
		ParkingLotID:   b.ParkingLotID,
		ParkingLotName: b.ParkingLotName,
		PricePerHour:   b.PricePerHour,
		VehicleType:    string(b.VehicleType),
		VehicleNumber:  b.VehicleNumber,
		StartTime:      b.StartTime,
		EndTime:        b.EndTime,
		DurationHours:  b.DurationHours,
		TotalPrice:     b.TotalPrice,
		Status:         string(b.Status),
		PaymentStatus:  string(b.PaymentStatus),
		CancelledAt:    b.CancelledAt,
		CreatedAt:      b.CreatedAt,
		UpdatedAt:      b.UpdatedAt,
	}
}

// FromDomainBookingList конвертирует список бронирований
func FromDomainBookingList(list []*domain.Booking) *BookingListResponse {
	out := make([]*BookingResponse, 0, len(list))
	for _, b := range list {
		out = append(out, FromDomainBooking(b))
	}
	return &BookingListResponse{Bookings: out}
}

// FromDomainOwnerStats конвертирует статистику владельца
func FromDomainOwnerStats(s *domain.OwnerStats) *OwnerStatsResponse {
	return &OwnerStatsResponse{
		TotalBookings:     s.TotalBookings,
		ActiveBookings:    s.ActiveBookings,
		CompletedBookings: s.CompletedBookings,
		CancelledBookings: s.CancelledBookings,
		ExpiredBookings:   s.ExpiredBookings,
		TotalRevenue:      s.TotalRevenue,
	}
}

// ToDomainBookingStatus валидирует и конвертирует строковый статус
func ToDomainBookingStatus(s string) (domain.BookingStatus, error) {
	status := domain.BookingStatus(s)
	if !domain.IsValidBookingStatus(status) {
		return "", fmt.Errorf("unknown booking status %q", s)
	}
	return status, nil
}

// ToDomainPaymentStatus валидирует и конвертирует строковый статус оплаты
func ToDomainPaymentStatus(s string) (domain.PaymentStatus, error) {
	status := domain.PaymentStatus(s)
	if !domain.IsValidPaymentStatus(status) {
		return "", fmt.Errorf("unknown payment status %q", s)
	}
	return status, nil
}

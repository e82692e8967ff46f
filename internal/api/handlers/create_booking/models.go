package create_booking

import (
	"time"

	"github.com/parkeasy/booking-service/internal/domain"
	uc "github.com/parkeasy/booking-service/internal/usecase/create_booking"
)

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	ParkingLotID  int64     `json:"parkingLotId"`
	VehicleType   string    `json:"vehicleType"`
	VehicleNumber string    `json:"vehicleNumber"`
	StartTime     time.Time `json:"startTime"`
	EndTime       time.Time `json:"endTime"`
	Duration      *float64  `json:"duration,omitempty"` // часы; не указан = вывести из окна
}

// ToUseCaseRequest конвертирует HTTP request в модель usecase
func (r *CreateBookingRequest) ToUseCaseRequest(userID int64) *uc.Request {
	return &uc.Request{
		UserID:        userID,
		ParkingLotID:  r.ParkingLotID,
		VehicleType:   domain.VehicleType(r.VehicleType),
		VehicleNumber: r.VehicleNumber,
		StartTime:     r.StartTime,
		EndTime:       r.EndTime,
		DurationHours: r.Duration,
	}
}

// CreateBookingResponse HTTP response model
type CreateBookingResponse struct {
	ID             int64     `json:"id"`
	UserID         int64     `json:"userId"`
	ParkingLotID   int64     `json:"parkingLotId"`
	ParkingLotName string    `json:"parkingLotName"`
	PricePerHour   float64   `json:"pricePerHour"`
	VehicleType    string    `json:"vehicleType"`
	VehicleNumber  string    `json:"vehicleNumber"`
	StartTime      time.Time `json:"startTime"`
	EndTime        time.Time `json:"endTime"`
	Duration       float64   `json:"duration"`
	TotalPrice     float64   `json:"totalPrice"`
	Status         string    `json:"status"`
	PaymentStatus  string    `json:"paymentStatus"`
	CreatedAt      time.Time `json:"createdAt"`
}

// FromUseCaseResponse конвертирует ответ usecase в HTTP response
func FromUseCaseResponse(resp *uc.Response) *CreateBookingResponse {
	return &CreateBookingResponse{
		ID:             resp.ID,
		UserID:         resp.UserID,
		ParkingLotID:   resp.ParkingLotID,
		ParkingLotName: resp.ParkingLotName,
		PricePerHour:   resp.PricePerHour,
		VehicleType:    resp.VehicleType,
		VehicleNumber:  resp.VehicleNumber,
		StartTime:      resp.StartTime,
		EndTime:        resp.EndTime,
		Duration:       resp.DurationHours,
		TotalPrice:     resp.TotalPrice,
		Status:         resp.Status,
		PaymentStatus:  resp.PaymentStatus,
		CreatedAt:      resp.CreatedAt,
	}
}

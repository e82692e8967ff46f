package cancel_booking

import (
	"github.com/parkeasy/booking-service/internal/service/bookings/models"
)

// CancelBookingRequest HTTP request model
type CancelBookingRequest struct {
	Reason *string `json:"reason,omitempty"`
}

// ToServiceRequest конвертирует HTTP request в модель сервиса
func (r *CancelBookingRequest) ToServiceRequest(callerID int64, role string) *models.CancelBookingRequest {
	return &models.CancelBookingRequest{
		UserID:             callerID,
		Role:               role,
		CancellationReason: r.Reason,
	}
}

package update_booking_status

import (
	"github.com/parkeasy/booking-service/internal/service/bookings/models"
)

// UpdateStatusRequest HTTP request model
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// ToServiceRequest конвертирует HTTP request в модель сервиса
func (r *UpdateStatusRequest) ToServiceRequest(callerID int64, role string) *models.UpdateStatusRequest {
	return &models.UpdateStatusRequest{
		UserID: callerID,
		Role:   role,
		Status: r.Status,
	}
}

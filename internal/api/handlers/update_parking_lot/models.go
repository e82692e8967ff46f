package update_parking_lot

import (
	"github.com/parkeasy/booking-service/internal/service/parkinglots/models"
)

// UpdateLotRequest HTTP request model
type UpdateLotRequest struct {
	Name         string  `json:"name"`
	TotalSlots   int     `json:"totalSlots"`
	PricePerHour float64 `json:"pricePerHour"`
}

// ToServiceRequest конвертирует HTTP request в модель сервиса
func (r *UpdateLotRequest) ToServiceRequest(callerID int64, role string) *models.UpdateLotRequest {
	return &models.UpdateLotRequest{
		CallerID:     callerID,
		Role:         role,
		Name:         r.Name,
		TotalSlots:   r.TotalSlots,
		PricePerHour: r.PricePerHour,
	}
}

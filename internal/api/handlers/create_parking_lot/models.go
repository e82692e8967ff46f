package create_parking_lot

import (
	"github.com/parkeasy/booking-service/internal/service/parkinglots/models"
)

// CreateLotRequest HTTP request model
type CreateLotRequest struct {
	Name         string  `json:"name"`
	Address      *string `json:"address,omitempty"`
	City         *string `json:"city,omitempty"`
	TotalSlots   int     `json:"totalSlots"`
	PricePerHour float64 `json:"pricePerHour"`
}

// ToServiceRequest конвертирует HTTP request в модель сервиса
func (r *CreateLotRequest) ToServiceRequest(callerID int64, role string) *models.CreateLotRequest {
	return &models.CreateLotRequest{
		CallerID:     callerID,
		Role:         role,
		Name:         r.Name,
		Address:      r.Address,
		City:         r.City,
		TotalSlots:   r.TotalSlots,
		PricePerHour: r.PricePerHour,
	}
}

package update_payment_status

import (
	"github.com/parkeasy/booking-service/internal/service/bookings/models"
)

// UpdatePaymentStatusRequest HTTP request model (callback платежного коллаборатора)
type UpdatePaymentStatusRequest struct {
	PaymentStatus string `json:"paymentStatus"`
}

// ToServiceRequest конвертирует HTTP request в модель сервиса
func (r *UpdatePaymentStatusRequest) ToServiceRequest(callerID int64, role string) *models.UpdatePaymentStatusRequest {
	return &models.UpdatePaymentStatusRequest{
		UserID: callerID,
		Role:   role,
		Status: r.PaymentStatus,
	}
}

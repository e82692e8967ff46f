package get_owner_stats

import (
	"context"

	"github.com/parkeasy/booking-service/internal/service/bookings/models"
)

type BookingService interface {
	GetOwnerStats(ctx context.Context, req *models.GetOwnerBookingsRequest) (*models.OwnerStatsResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

package get_parking_lot

import (
	"context"

	"github.com/parkeasy/booking-service/internal/service/parkinglots/models"
)

type LotService interface {
	GetByID(ctx context.Context, id int64) (*models.LotResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

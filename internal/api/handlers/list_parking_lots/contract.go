package list_parking_lots

import (
	"context"

	"github.com/parkeasy/booking-service/internal/service/parkinglots/models"
)

type LotService interface {
	List(ctx context.Context) (*models.LotListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

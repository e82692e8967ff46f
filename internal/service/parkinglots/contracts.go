package parkinglots

import (
	"context"

	"github.com/parkeasy/booking-service/internal/domain"
)

// LotRepository интерфейс репозитория парковок
type LotRepository interface {
	Create(ctx context.Context, lot *domain.ParkingLot) (*domain.ParkingLot, error)
	GetByID(ctx context.Context, id int64) (*domain.ParkingLot, error)
	List(ctx context.Context) ([]*domain.ParkingLot, error)
	GetByOwner(ctx context.Context, ownerUserID int64) ([]*domain.ParkingLot, error)
	Update(ctx context.Context, id int64, name string, totalSlots int, pricePerHour float64) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

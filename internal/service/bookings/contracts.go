package bookings

import (
	"context"
	"time"

	"github.com/parkeasy/booking-service/internal/domain"
	"github.com/parkeasy/booking-service/internal/infra/events"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	GetByUserID(ctx context.Context, filter domain.UserBookingsFilter) ([]*domain.Booking, error)
	GetByLotID(ctx context.Context, filter domain.LotBookingsFilter) ([]*domain.Booking, error)
	GetByOwner(ctx context.Context, ownerUserID int64) ([]*domain.Booking, error)
	List(ctx context.Context, filter domain.ListBookingsFilter) ([]*domain.Booking, int64, error)
	TransitionFromActive(ctx context.Context, id int64, target domain.BookingStatus) (bool, error)
	Cancel(ctx context.Context, id int64, reason *string) (bool, error)
	UpdatePaymentStatus(ctx context.Context, id int64, status domain.PaymentStatus) error
	GetOwnerStats(ctx context.Context, ownerUserID int64) (*domain.OwnerStats, error)
}

// LotRepository интерфейс slot ledger и чтения лотов
type LotRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.ParkingLot, error)
	Release(ctx context.Context, id int64) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// EventPublisher интерфейс публикации событий жизненного цикла
type EventPublisher interface {
	Publish(ctx context.Context, event events.BookingEvent) error
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}

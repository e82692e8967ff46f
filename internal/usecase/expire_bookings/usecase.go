package expire_bookings

import (
	"context"
	"errors"
	"fmt"

	"github.com/parkeasy/booking-service/internal/domain"
	"github.com/parkeasy/booking-service/internal/infra/events"
	lotRepo "github.com/parkeasy/booking-service/internal/infra/storage/parkinglot"
)

// UseCase reconciler: находит активные бронирования с истекшим окном,
// финализирует их и освобождает места. Идемпотентен - повторный проход
// по уже обработанному набору ничего не меняет.
type UseCase struct {
	bookingRepo  BookingRepository
	lotRepo      LotRepository
	publisher    EventPublisher
	txManager    TransactionManager
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	lotRepo LotRepository,
	publisher EventPublisher,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		lotRepo:      lotRepo,
		publisher:    publisher,
		txManager:    txManager,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет один проход sweep.
// Каждое бронирование обрабатывается независимо в своей транзакции:
// ошибка по одному не прерывает обработку остальных.
func (uc *UseCase) Execute(ctx context.Context) (*Result, error) {
	now := uc.timeProvider.Now()

	due, err := uc.bookingRepo.FindDueForExpiration(ctx, now)
	if err != nil {
		uc.logger.Error("ExpireBookings: failed to find due bookings: %v", err)
		return nil, fmt.Errorf("%w: failed to find due bookings: %v", ErrInternal, err)
	}

	if len(due) == 0 {
		return &Result{}, nil
	}

	uc.logger.Info("ExpireBookings: found %d bookings past end time", len(due))

	result := &Result{}

	for _, b := range due {
		expired, err := uc.expireOne(ctx, b)
		if err != nil {
			result.ErrorCount++
			uc.logger.Error("ExpireBookings: failed to expire booking id=%d: %v", b.ID, err)
			continue
		}
		if !expired {
			// Проиграли гонку cancel/complete - место уже освобождено там
			uc.logger.Info("ExpireBookings: booking id=%d already finalized, skipping", b.ID)
			continue
		}

		result.UpdatedCount++

		_ = uc.publisher.Publish(ctx, events.BookingEvent{
			Type:           events.TypeBookingExpired,
			BookingID:      b.ID,
			UserID:         b.UserID,
			ParkingLotID:   b.ParkingLotID,
			ParkingLotName: b.ParkingLotName,
			VehicleNumber:  b.VehicleNumber,
			Status:         string(domain.StatusExpired),
			TotalPrice:     b.TotalPrice,
			OccurredAt:     now,
		})
	}

	uc.logger.Info("ExpireBookings: sweep done, expired=%d, errors=%d",
		result.UpdatedCount, result.ErrorCount)

	return result, nil
}

// expireOne финализирует одно бронирование. Переход статуса условный:
// ноль затронутых строк означает, что бронирование уже финализировано
// конкурентной отменой - тогда место НЕ освобождается повторно.
func (uc *UseCase) expireOne(ctx context.Context, b *domain.Booking) (bool, error) {
	var transitioned bool

	err := uc.txManager.Do(ctx, func(txCtx context.Context) error {
		ok, err := uc.bookingRepo.TransitionFromActive(txCtx, b.ID, domain.StatusExpired)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		transitioned = true

		if err := uc.lotRepo.Release(txCtx, b.ParkingLotID); err != nil {
			// Счетчик на нуле - walk-in рассинхрон, фиксируем и не падаем
			if errors.Is(err, lotRepo.ErrNothingToRelease) {
				uc.logger.Warn("ExpireBookings: lot id=%d counter already at zero for booking id=%d",
					b.ParkingLotID, b.ID)
				return nil
			}
			return err
		}
		return nil
	})

	if err != nil {
		return false, err
	}
	return transitioned, nil
}

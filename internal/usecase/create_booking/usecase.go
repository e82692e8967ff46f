package create_booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/parkeasy/booking-service/internal/domain"
	"github.com/parkeasy/booking-service/internal/infra/events"
	lotRepo "github.com/parkeasy/booking-service/internal/infra/storage/parkinglot"
)

// UseCase use case для создания бронирования
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

// Execute выполняет use case создания бронирования.
// Резервирование места и вставка бронирования выполняются в одной транзакции:
// либо фиксируются обе стороны, либо ни одна - не бывает ни брони без занятого
// места, ни занятого места без брони.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: user=%d, lot=%d, vehicle=%s %s, window=[%s, %s]",
		req.UserID, req.ParkingLotID, req.VehicleType, req.VehicleNumber,
		req.StartTime.Format("2006-01-02 15:04"), req.EndTime.Format("2006-01-02 15:04"))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	var result *domain.Booking

	// 2. Резервирование места и создание брони в одной транзакции
	err := uc.txManager.Do(ctx, func(txCtx context.Context) error {
		// 2.1. Читаем лот: снапшот имени и цены на момент создания
		lot, err := uc.lotRepo.GetByID(txCtx, req.ParkingLotID)
		if err != nil {
			if errors.Is(err, lotRepo.ErrLotNotFound) {
				uc.logger.Warn("CreateBooking: lot id=%d not found", req.ParkingLotID)
				return ErrLotNotFound
			}
			uc.logger.Error("CreateBooking: failed to get lot id=%d: %v", req.ParkingLotID, err)
			return fmt.Errorf("%w: failed to get lot: %v", ErrInternal, err)
		}

		// 2.2. Атомарно занимаем место в ledger
		if err := uc.lotRepo.Reserve(txCtx, lot.ID); err != nil {
			if errors.Is(err, lotRepo.ErrNoSlotsAvailable) {
				uc.logger.Warn("CreateBooking: no slots available in lot id=%d (%d/%d parked)",
					lot.ID, lot.CarsParked, lot.TotalSlots)
				return ErrNoSlotsAvailable
			}
			uc.logger.Error("CreateBooking: failed to reserve slot in lot id=%d: %v", lot.ID, err)
			return fmt.Errorf("%w: failed to reserve slot: %v", ErrInternal, err)
		}

		// 2.3. Длительность и цена по снапшоту
		duration := resolveDuration(req)
		booking := &domain.Booking{
			UserID:         req.UserID,
			ParkingLotID:   lot.ID,
			ParkingLotName: lot.Name,
			PricePerHour:   lot.PricePerHour,
			VehicleType:    req.VehicleType,
			VehicleNumber:  req.VehicleNumber,
			StartTime:      req.StartTime,
			EndTime:        req.EndTime,
			DurationHours:  duration,
			TotalPrice:     domain.TotalPriceFor(lot.PricePerHour, duration),
			Status:         domain.StatusActive,
			PaymentStatus:  domain.PaymentPending,
		}

		// 2.4. Сохраняем бронирование; откат транзакции вернет место
		created, err := uc.bookingRepo.Create(txCtx, booking)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to create booking: %v", err)
			return fmt.Errorf("%w: failed to create booking: %v", ErrInternal, err)
		}

		result = created
		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.logger.Info("CreateBooking: successfully created booking id=%d, total=%.2f",
		result.ID, result.TotalPrice)

	// 3. Событие после коммита; ошибки доставки не ломают запрос
	_ = uc.publisher.Publish(ctx, events.BookingEvent{
		Type:           events.TypeBookingCreated,
		BookingID:      result.ID,
		UserID:         result.UserID,
		ParkingLotID:   result.ParkingLotID,
		ParkingLotName: result.ParkingLotName,
		VehicleNumber:  result.VehicleNumber,
		Status:         string(result.Status),
		TotalPrice:     result.TotalPrice,
		OccurredAt:     uc.timeProvider.Now(),
	})

	return &Response{
		ID:             result.ID,
		UserID:         result.UserID,
		ParkingLotID:   result.ParkingLotID,
		ParkingLotName: result.ParkingLotName,
		PricePerHour:   result.PricePerHour,
		VehicleType:    string(result.VehicleType),
		VehicleNumber:  result.VehicleNumber,
		StartTime:      result.StartTime,
		EndTime:        result.EndTime,
		DurationHours:  result.DurationHours,
		TotalPrice:     result.TotalPrice,
		Status:         string(result.Status),
		PaymentStatus:  string(result.PaymentStatus),
		CreatedAt:      result.CreatedAt,
		UpdatedAt:      result.UpdatedAt,
	}, nil
}

package bookings

import (
	"context"
	"errors"
	"fmt"

	"github.com/parkeasy/booking-service/internal/domain"
	"github.com/parkeasy/booking-service/internal/infra/events"
	bookingRepo "github.com/parkeasy/booking-service/internal/infra/storage/booking"
	lotRepo "github.com/parkeasy/booking-service/internal/infra/storage/parkinglot"
	"github.com/parkeasy/booking-service/internal/service/bookings/models"
)

// Service сервис жизненного цикла и чтения бронирований.
// Все переходы из active выполняются условным UPDATE на статусе:
// победитель гонки cancel/complete/expire освобождает место ровно один раз,
// проигравший получает ErrAlreadyFinalized.
type Service struct {
	bookingRepo  BookingRepository
	lotRepo      LotRepository
	publisher    EventPublisher
	txManager    TransactionManager
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	lotRepo LotRepository,
	publisher EventPublisher,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo:  bookingRepo,
		lotRepo:      lotRepo,
		publisher:    publisher,
		txManager:    txManager,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// GetByID получает бронирование по ID.
// Доступ: владелец брони, владелец парковки или админ.
func (s *Service) GetByID(ctx context.Context, id int64, callerID int64, role string) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%d for user=%d", id, callerID)

	booking, err := s.getBooking(ctx, id, "GetByID")
	if err != nil {
		return nil, err
	}

	if err := s.checkBookingAccess(ctx, booking, callerID, role); err != nil {
		s.logger.Warn("GetByID: access denied for user=%d to booking id=%d", callerID, id)
		return nil, err
	}

	return models.FromDomainBooking(booking), nil
}

// GetUserBookings получает историю бронирований пользователя.
// Статус хранимый - никакого пересчета по таймстемпам в read path.
func (s *Service) GetUserBookings(ctx context.Context, req *models.GetUserBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("GetUserBookings: fetching bookings for user=%d, status=%v", req.UserID, req.Status)

	if req.CallerID != req.UserID && req.Role != domain.RoleAdmin {
		s.logger.Warn("GetUserBookings: access denied for user=%d to history of user=%d", req.CallerID, req.UserID)
		return nil, ErrAccessDenied
	}

	filter := domain.UserBookingsFilter{UserID: req.UserID}
	if req.Status != nil {
		status, err := models.ToDomainBookingStatus(*req.Status)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
		}
		filter.Status = &status
	}

	bookings, err := s.bookingRepo.GetByUserID(ctx, filter)
	if err != nil {
		s.logger.Error("GetUserBookings: repository error for user=%d: %v", req.UserID, err)
		return nil, fmt.Errorf("%w: GetUserBookings - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainBookingList(bookings), nil
}

// GetLotBookings получает бронирования парковки.
// Доступ: владелец парковки или админ.
func (s *Service) GetLotBookings(ctx context.Context, req *models.GetLotBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("GetLotBookings: fetching bookings for lot=%d, user=%d", req.ParkingLotID, req.CallerID)

	lot, err := s.lotRepo.GetByID(ctx, req.ParkingLotID)
	if err != nil {
		if errors.Is(err, lotRepo.ErrLotNotFound) {
			return nil, ErrLotNotFound
		}
		s.logger.Error("GetLotBookings: failed to get lot id=%d: %v", req.ParkingLotID, err)
		return nil, fmt.Errorf("%w: GetLotBookings - repository error: %v", ErrInternal, err)
	}

	if req.Role != domain.RoleAdmin && !lot.IsOwnedBy(req.CallerID) {
		s.logger.Warn("GetLotBookings: user=%d does not own lot=%d", req.CallerID, req.ParkingLotID)
		return nil, ErrAccessDenied
	}

	filter := domain.LotBookingsFilter{ParkingLotID: req.ParkingLotID}
	if req.Status != nil {
		status, err := models.ToDomainBookingStatus(*req.Status)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
		}
		filter.Status = &status
	}

	bookings, err := s.bookingRepo.GetByLotID(ctx, filter)
	if err != nil {
		s.logger.Error("GetLotBookings: repository error for lot=%d: %v", req.ParkingLotID, err)
		return nil, fmt.Errorf("%w: GetLotBookings - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainBookingList(bookings), nil
}

// GetOwnerBookings получает бронирования по всем парковкам владельца
func (s *Service) GetOwnerBookings(ctx context.Context, req *models.GetOwnerBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("GetOwnerBookings: fetching bookings for owner=%d", req.OwnerUserID)

	if req.CallerID != req.OwnerUserID && req.Role != domain.RoleAdmin {
		return nil, ErrAccessDenied
	}
	if req.Role != domain.RoleOwner && req.Role != domain.RoleAdmin {
		return nil, ErrAccessDenied
	}

	bookings, err := s.bookingRepo.GetByOwner(ctx, req.OwnerUserID)
	if err != nil {
		s.logger.Error("GetOwnerBookings: repository error for owner=%d: %v", req.OwnerUserID, err)
		return nil, fmt.Errorf("%w: GetOwnerBookings - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainBookingList(bookings), nil
}

// GetOwnerStats получает агрегированную статистику по лотам владельца
func (s *Service) GetOwnerStats(ctx context.Context, req *models.GetOwnerBookingsRequest) (*models.OwnerStatsResponse, error) {
	s.logger.Info("GetOwnerStats: fetching stats for owner=%d", req.OwnerUserID)

	if req.CallerID != req.OwnerUserID && req.Role != domain.RoleAdmin {
		return nil, ErrAccessDenied
	}
	if req.Role != domain.RoleOwner && req.Role != domain.RoleAdmin {
		return nil, ErrAccessDenied
	}

	stats, err := s.bookingRepo.GetOwnerStats(ctx, req.OwnerUserID)
	if err != nil {
		s.logger.Error("GetOwnerStats: repository error for owner=%d: %v", req.OwnerUserID, err)
		return nil, fmt.Errorf("%w: GetOwnerStats - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainOwnerStats(stats), nil
}

// ListBookings постраничный листинг всех бронирований (только админ)
func (s *Service) ListBookings(ctx context.Context, req *models.ListBookingsRequest) (*models.PagedBookingListResponse, error) {
	if req.Role != domain.RoleAdmin {
		s.logger.Warn("ListBookings: access denied for user=%d", req.CallerID)
		return nil, ErrAccessDenied
	}

	page := req.Page
	if page < 1 {
		page = domain.DefaultPage
	}
	limit := req.Limit
	if limit < 1 {
		limit = domain.DefaultLimit
	}
	if limit > domain.MaxLimit {
		limit = domain.MaxLimit
	}

	bookings, total, err := s.bookingRepo.List(ctx, domain.ListBookingsFilter{Page: page, Limit: limit})
	if err != nil {
		s.logger.Error("ListBookings: repository error: %v", err)
		return nil, fmt.Errorf("%w: ListBookings - repository error: %v", ErrInternal, err)
	}

	list := models.FromDomainBookingList(bookings)
	return &models.PagedBookingListResponse{
		Bookings: list.Bookings,
		Total:    total,
		Page:     page,
		Limit:    limit,
	}, nil
}

// Cancel отменяет активное бронирование и освобождает место.
// Повторная отмена и отмена финализированной брони - Conflict, не no-op:
// двойная отмена указывает на баг или гонку, молча глотать ее нельзя.
func (s *Service) Cancel(ctx context.Context, bookingID int64, req *models.CancelBookingRequest) error {
	s.logger.Info("Cancel: cancelling booking id=%d by user=%d", bookingID, req.UserID)

	booking, err := s.getBooking(ctx, bookingID, "Cancel")
	if err != nil {
		return err
	}

	if booking.UserID != req.UserID && req.Role != domain.RoleAdmin {
		s.logger.Warn("Cancel: access denied for user=%d to booking id=%d", req.UserID, bookingID)
		return ErrAccessDenied
	}

	if !booking.CanBeCancelled() {
		s.logger.Warn("Cancel: booking id=%d cannot be cancelled, status=%s", bookingID, booking.Status)
		return ErrAlreadyFinalized
	}

	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		ok, err := s.bookingRepo.Cancel(txCtx, bookingID, req.CancellationReason)
		if err != nil {
			return fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
		}
		if !ok {
			// Гонка с reconciler'ом или конкурентной отменой: место уже
			// освобождено победителем, повторный release недопустим
			return ErrAlreadyFinalized
		}

		if err := s.releaseSlot(txCtx, booking.ParkingLotID, bookingID); err != nil {
			return err
		}

		// Возврат платежа учитывается после освобождения места и не влияет на него
		if booking.IsPaid() {
			if err := s.bookingRepo.UpdatePaymentStatus(txCtx, bookingID, domain.PaymentRefunded); err != nil {
				return fmt.Errorf("%w: Cancel - refund bookkeeping: %v", ErrInternal, err)
			}
		}
		return nil
	})

	if err != nil {
		return err
	}

	s.logger.Info("Cancel: successfully cancelled booking id=%d", bookingID)

	_ = s.publisher.Publish(ctx, events.BookingEvent{
		Type:           events.TypeBookingCancelled,
		BookingID:      booking.ID,
		UserID:         booking.UserID,
		ParkingLotID:   booking.ParkingLotID,
		ParkingLotName: booking.ParkingLotName,
		VehicleNumber:  booking.VehicleNumber,
		Status:         string(domain.StatusCancelled),
		TotalPrice:     booking.TotalPrice,
		OccurredAt:     s.timeProvider.Now(),
	})

	return nil
}

// UpdateStatus переводит бронирование в запрошенный статус.
// Разрешенные цели: completed (пользователь, владелец лота или админ)
// и cancelled (через Cancel-ветку); expired ставит только reconciler.
func (s *Service) UpdateStatus(ctx context.Context, bookingID int64, req *models.UpdateStatusRequest) error {
	s.logger.Info("UpdateStatus: updating booking id=%d to status=%s by user=%d",
		bookingID, req.Status, req.UserID)

	target, err := models.ToDomainBookingStatus(req.Status)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidStatus, err)
	}

	switch target {
	case domain.StatusCancelled:
		return s.Cancel(ctx, bookingID, &models.CancelBookingRequest{
			UserID: req.UserID,
			Role:   req.Role,
		})
	case domain.StatusCompleted:
		// Ниже
	default:
		// active и expired снаружи не выставляются
		return ErrInvalidStatus
	}

	booking, err := s.getBooking(ctx, bookingID, "UpdateStatus")
	if err != nil {
		return err
	}

	if err := s.checkBookingAccess(ctx, booking, req.UserID, req.Role); err != nil {
		s.logger.Warn("UpdateStatus: access denied for user=%d to booking id=%d", req.UserID, bookingID)
		return err
	}

	if !booking.CanTransitionTo(domain.StatusCompleted) {
		s.logger.Warn("UpdateStatus: booking id=%d cannot be completed, status=%s", bookingID, booking.Status)
		return ErrAlreadyFinalized
	}

	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		ok, err := s.bookingRepo.TransitionFromActive(txCtx, bookingID, domain.StatusCompleted)
		if err != nil {
			return fmt.Errorf("%w: UpdateStatus - repository error: %v", ErrInternal, err)
		}
		if !ok {
			return ErrAlreadyFinalized
		}
		return s.releaseSlot(txCtx, booking.ParkingLotID, bookingID)
	})

	if err != nil {
		return err
	}

	s.logger.Info("UpdateStatus: successfully completed booking id=%d", bookingID)

	_ = s.publisher.Publish(ctx, events.BookingEvent{
		Type:           events.TypeBookingCompleted,
		BookingID:      booking.ID,
		UserID:         booking.UserID,
		ParkingLotID:   booking.ParkingLotID,
		ParkingLotName: booking.ParkingLotName,
		VehicleNumber:  booking.VehicleNumber,
		Status:         string(domain.StatusCompleted),
		TotalPrice:     booking.TotalPrice,
		OccurredAt:     s.timeProvider.Now(),
	})

	return nil
}

// UpdatePaymentStatus записывает статус оплаты от платежного коллаборатора.
// Подписи платежей сервис не проверяет - это зона ответственности шлюза.
func (s *Service) UpdatePaymentStatus(ctx context.Context, bookingID int64, req *models.UpdatePaymentStatusRequest) error {
	s.logger.Info("UpdatePaymentStatus: booking id=%d -> %s", bookingID, req.Status)

	status, err := models.ToDomainPaymentStatus(req.Status)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPaymentStatus, err)
	}

	booking, err := s.getBooking(ctx, bookingID, "UpdatePaymentStatus")
	if err != nil {
		return err
	}

	if booking.UserID != req.UserID && req.Role != domain.RoleAdmin {
		return ErrAccessDenied
	}

	if err := s.bookingRepo.UpdatePaymentStatus(ctx, bookingID, status); err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			return ErrBookingNotFound
		}
		s.logger.Error("UpdatePaymentStatus: repository error for booking id=%d: %v", bookingID, err)
		return fmt.Errorf("%w: UpdatePaymentStatus - repository error: %v", ErrInternal, err)
	}

	return nil
}

// Вспомогательные методы

func (s *Service) getBooking(ctx context.Context, id int64, method string) (*domain.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("%s: booking id=%d not found", method, id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("%s: repository error for booking id=%d: %v", method, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, method, err)
	}
	return booking, nil
}

// checkBookingAccess доступ к брони: ее владелец, владелец парковки или админ
func (s *Service) checkBookingAccess(ctx context.Context, booking *domain.Booking, callerID int64, role string) error {
	if booking.UserID == callerID || role == domain.RoleAdmin {
		return nil
	}

	lot, err := s.lotRepo.GetByID(ctx, booking.ParkingLotID)
	if err != nil {
		if errors.Is(err, lotRepo.ErrLotNotFound) {
			return ErrAccessDenied
		}
		return fmt.Errorf("%w: checkBookingAccess - repository error: %v", ErrInternal, err)
	}

	if role == domain.RoleOwner && lot.IsOwnedBy(callerID) {
		return nil
	}
	return ErrAccessDenied
}

// releaseSlot освобождает одно место; нулевой счетчик не считается ошибкой
func (s *Service) releaseSlot(ctx context.Context, lotID, bookingID int64) error {
	if err := s.lotRepo.Release(ctx, lotID); err != nil {
		if errors.Is(err, lotRepo.ErrNothingToRelease) {
			s.logger.Warn("releaseSlot: lot id=%d counter already at zero for booking id=%d", lotID, bookingID)
			return nil
		}
		return fmt.Errorf("%w: releaseSlot - ledger error: %v", ErrInternal, err)
	}
	return nil
}

package parkinglots

import (
	"context"
	"errors"
	"fmt"

	"github.com/parkeasy/booking-service/internal/domain"
	lotRepo "github.com/parkeasy/booking-service/internal/infra/storage/parkinglot"
	"github.com/parkeasy/booking-service/internal/service/parkinglots/models"
	"github.com/parkeasy/booking-service/pkg/ptr"
)

// Service сервис для работы с парковками.
// Счетчики лота здесь только читаются; мутации ledger идут исключительно
// через Reservation Service и reconciler.
type Service struct {
	lotRepo LotRepository
	logger  Logger
}

// NewService создает новый экземпляр сервиса парковок
func NewService(lotRepo LotRepository, logger Logger) *Service {
	return &Service{lotRepo: lotRepo, logger: logger}
}

// Create регистрирует новую парковку владельца
func (s *Service) Create(ctx context.Context, req *models.CreateLotRequest) (*models.LotResponse, error) {
	s.logger.Info("CreateLot: user=%d, name=%q, slots=%d, price=%.2f",
		req.CallerID, req.Name, req.TotalSlots, req.PricePerHour)

	if req.Role != domain.RoleOwner && req.Role != domain.RoleAdmin {
		s.logger.Warn("CreateLot: access denied for user=%d with role=%s", req.CallerID, req.Role)
		return nil, ErrAccessDenied
	}

	if err := validateLot(req.Name, req.TotalSlots, req.PricePerHour); err != nil {
		s.logger.Warn("CreateLot: validation failed: %v", err)
		return nil, err
	}

	lot := &domain.ParkingLot{
		Name:         req.Name,
		Address:      req.Address,
		City:         req.City,
		TotalSlots:   req.TotalSlots,
		CarsParked:   0,
		PricePerHour: req.PricePerHour,
		OwnerUserID:  ptr.Ptr(req.CallerID),
	}

	created, err := s.lotRepo.Create(ctx, lot)
	if err != nil {
		s.logger.Error("CreateLot: repository error: %v", err)
		return nil, fmt.Errorf("%w: Create - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("CreateLot: successfully created lot id=%d", created.ID)
	return models.FromDomainLot(created), nil
}

// GetByID получает парковку по ID (публичное чтение)
func (s *Service) GetByID(ctx context.Context, id int64) (*models.LotResponse, error) {
	lot, err := s.lotRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, lotRepo.ErrLotNotFound) {
			return nil, ErrLotNotFound
		}
		s.logger.Error("GetLot: repository error for lot id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}
	return models.FromDomainLot(lot), nil
}

// List возвращает все парковки (публичное чтение; геопоиск вне core)
func (s *Service) List(ctx context.Context) (*models.LotListResponse, error) {
	lots, err := s.lotRepo.List(ctx)
	if err != nil {
		s.logger.Error("ListLots: repository error: %v", err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}
	return models.FromDomainLotList(lots), nil
}

// Update редактирует парковку. Владелец может менять имя, цену и вместимость;
// вместимость не может опуститься ниже текущей занятости.
func (s *Service) Update(ctx context.Context, id int64, req *models.UpdateLotRequest) (*models.LotResponse, error) {
	s.logger.Info("UpdateLot: lot=%d, user=%d", id, req.CallerID)

	lot, err := s.lotRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, lotRepo.ErrLotNotFound) {
			return nil, ErrLotNotFound
		}
		s.logger.Error("UpdateLot: repository error for lot id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: Update - repository error: %v", ErrInternal, err)
	}

	if req.Role != domain.RoleAdmin && !lot.IsOwnedBy(req.CallerID) {
		s.logger.Warn("UpdateLot: user=%d does not own lot=%d", req.CallerID, id)
		return nil, ErrAccessDenied
	}

	if err := validateLot(req.Name, req.TotalSlots, req.PricePerHour); err != nil {
		s.logger.Warn("UpdateLot: validation failed: %v", err)
		return nil, err
	}

	if err := s.lotRepo.Update(ctx, id, req.Name, req.TotalSlots, req.PricePerHour); err != nil {
		switch {
		case errors.Is(err, lotRepo.ErrLotNotFound):
			return nil, ErrLotNotFound
		case errors.Is(err, lotRepo.ErrCapacityBelowOccupied):
			s.logger.Warn("UpdateLot: lot=%d capacity %d below parked cars", id, req.TotalSlots)
			return nil, ErrCapacityBelowOccupied
		default:
			s.logger.Error("UpdateLot: repository error for lot id=%d: %v", id, err)
			return nil, fmt.Errorf("%w: Update - repository error: %v", ErrInternal, err)
		}
	}

	updated, err := s.lotRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: Update - reread lot: %v", ErrInternal, err)
	}

	s.logger.Info("UpdateLot: successfully updated lot id=%d", id)
	return models.FromDomainLot(updated), nil
}

func validateLot(name string, totalSlots int, pricePerHour float64) error {
	if name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if len(name) > domain.MaxLotNameLength {
		return fmt.Errorf("%w: name is too long", ErrInvalidInput)
	}
	if totalSlots < 0 {
		return fmt.Errorf("%w: totalSlots must be non-negative", ErrInvalidInput)
	}
	if pricePerHour <= 0 {
		return fmt.Errorf("%w: pricePerHour must be positive", ErrInvalidInput)
	}
	return nil
}

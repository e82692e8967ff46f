package create_booking

import (
	"fmt"

	"github.com/parkeasy/booking-service/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.UserID <= 0 {
		return fmt.Errorf("%w: userID must be positive", ErrInvalidInput)
	}

	if req.ParkingLotID <= 0 {
		return fmt.Errorf("%w: parkingLotID must be positive", ErrInvalidInput)
	}

	if !domain.IsValidVehicleType(req.VehicleType) {
		return fmt.Errorf("%w: %q", ErrInvalidVehicleType, req.VehicleType)
	}

	if req.VehicleNumber == "" {
		return fmt.Errorf("%w: vehicleNumber is required", ErrInvalidInput)
	}
	if len(req.VehicleNumber) > domain.MaxVehicleNumberLength {
		return fmt.Errorf("%w: vehicleNumber is too long", ErrInvalidInput)
	}

	if req.StartTime.IsZero() || req.EndTime.IsZero() {
		return fmt.Errorf("%w: startTime and endTime are required", ErrInvalidInput)
	}

	if !req.EndTime.After(req.StartTime) {
		return ErrInvalidTimeRange
	}

	if req.DurationHours != nil && *req.DurationHours < domain.MinDurationHours {
		return fmt.Errorf("%w: duration must be at least %.1f hours", ErrInvalidInput, domain.MinDurationHours)
	}

	return nil
}

// resolveDuration возвращает явно переданную длительность либо выводит ее из окна
func resolveDuration(req *Request) float64 {
	if req.DurationHours != nil {
		return *req.DurationHours
	}
	return domain.DeriveDurationHours(req.StartTime, req.EndTime)
}

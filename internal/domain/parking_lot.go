package domain

import "time"

// ParkingLot represents a parking lot with its slot ledger.
// CarsParked - единственный хранимый счетчик занятости;
// availableSlots всегда выводится как TotalSlots - CarsParked,
// чтобы два счетчика не могли разойтись при частичных сбоях.
type ParkingLot struct {
	ID           int64
	Name         string
	Address      *string
	City         *string
	TotalSlots   int
	CarsParked   int
	PricePerHour float64
	OwnerUserID  *int64 // nil = legacy/seed lot without an owner

	CreatedAt time.Time
	UpdatedAt time.Time
}

// AvailableSlots returns the number of currently free slots
func (l *ParkingLot) AvailableSlots() int {
	available := l.TotalSlots - l.CarsParked
	if available < 0 {
		return 0
	}
	return available
}

// IsFull returns true if the lot has no free slots
func (l *ParkingLot) IsFull() bool {
	return l.AvailableSlots() <= 0
}

// IsOwnedBy returns true if the lot belongs to the given user
func (l *ParkingLot) IsOwnedBy(userID int64) bool {
	return l.OwnerUserID != nil && *l.OwnerUserID == userID
}

// OccupancyRate returns the occupancy rate as a percentage (0-100)
func (l *ParkingLot) OccupancyRate() float64 {
	if l.TotalSlots == 0 {
		return 0
	}
	return float64(l.CarsParked) / float64(l.TotalSlots) * 100
}

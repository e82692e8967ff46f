package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAvailableSlots(t *testing.T) {
	tests := []struct {
		name       string
		totalSlots int
		carsParked int
		want       int
	}{
		{"empty lot", 10, 0, 10},
		{"half full", 10, 5, 5},
		{"full", 10, 10, 0},
		{"over capacity clamps to zero", 10, 12, 0},
		{"zero capacity", 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := &ParkingLot{TotalSlots: tt.totalSlots, CarsParked: tt.carsParked}
			assert.Equal(t, tt.want, l.AvailableSlots())
		})
	}
}

func TestIsFull(t *testing.T) {
	assert.False(t, (&ParkingLot{TotalSlots: 2, CarsParked: 1}).IsFull())
	assert.True(t, (&ParkingLot{TotalSlots: 2, CarsParked: 2}).IsFull())
	assert.True(t, (&ParkingLot{TotalSlots: 0, CarsParked: 0}).IsFull())
}

func TestIsOwnedBy(t *testing.T) {
	ownerID := int64(42)
	owned := &ParkingLot{OwnerUserID: &ownerID}
	assert.True(t, owned.IsOwnedBy(42))
	assert.False(t, owned.IsOwnedBy(7))

	orphan := &ParkingLot{}
	assert.False(t, orphan.IsOwnedBy(42))
}

func TestOccupancyRate(t *testing.T) {
	assert.Equal(t, 50.0, (&ParkingLot{TotalSlots: 10, CarsParked: 5}).OccupancyRate())
	assert.Equal(t, 0.0, (&ParkingLot{TotalSlots: 0, CarsParked: 0}).OccupancyRate())
	assert.Equal(t, 100.0, (&ParkingLot{TotalSlots: 4, CarsParked: 4}).OccupancyRate())
}

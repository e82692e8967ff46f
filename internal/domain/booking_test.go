package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCanTransitionTo(t *testing.T) {
	tests := []struct {
		name   string
		from   BookingStatus
		target BookingStatus
		want   bool
	}{
		{"active to completed", StatusActive, StatusCompleted, true},
		{"active to cancelled", StatusActive, StatusCancelled, true},
		{"active to expired", StatusActive, StatusExpired, true},
		{"active to active", StatusActive, StatusActive, false},
		{"completed to cancelled", StatusCompleted, StatusCancelled, false},
		{"completed to active", StatusCompleted, StatusActive, false},
		{"cancelled to completed", StatusCancelled, StatusCompleted, false},
		{"cancelled to expired", StatusCancelled, StatusExpired, false},
		{"expired to active", StatusExpired, StatusActive, false},
		{"expired to completed", StatusExpired, StatusCompleted, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := &Booking{Status: tt.from}
			assert.Equal(t, tt.want, b.CanTransitionTo(tt.target))
		})
	}
}

func TestIsTerminal(t *testing.T) {
	assert.False(t, (&Booking{Status: StatusActive}).IsTerminal())
	for _, s := range TerminalStatuses {
		assert.True(t, (&Booking{Status: s}).IsTerminal(), "status %s", s)
	}
}

func TestCanBeCancelled(t *testing.T) {
	assert.True(t, (&Booking{Status: StatusActive}).CanBeCancelled())
	for _, s := range TerminalStatuses {
		assert.False(t, (&Booking{Status: s}).CanBeCancelled(), "status %s", s)
	}
}

func TestDeriveDurationHours(t *testing.T) {
	base := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		end  time.Time
		want float64
	}{
		{"exact hour", base.Add(1 * time.Hour), 1},
		{"exact two hours", base.Add(2 * time.Hour), 2},
		{"partial hour rounds up", base.Add(90 * time.Minute), 2},
		{"one minute rounds up to minimum", base.Add(1 * time.Minute), MinDurationHours},
		{"just over two hours", base.Add(2*time.Hour + time.Second), 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DeriveDurationHours(base, tt.end))
		})
	}
}

func TestTotalPriceFor(t *testing.T) {
	assert.Equal(t, 100.0, TotalPriceFor(50, 2))
	assert.Equal(t, 25.0, TotalPriceFor(50, 0.5))
	assert.Equal(t, 0.0, TotalPriceFor(0, 3))
}

func TestIsValidVehicleType(t *testing.T) {
	for _, v := range ValidVehicleTypes {
		assert.True(t, IsValidVehicleType(v))
	}
	assert.False(t, IsValidVehicleType("boat"))
	assert.False(t, IsValidVehicleType(""))
}

func TestIsPaid(t *testing.T) {
	assert.True(t, (&Booking{PaymentStatus: PaymentPaid}).IsPaid())
	assert.False(t, (&Booking{PaymentStatus: PaymentPending}).IsPaid())
	assert.False(t, (&Booking{PaymentStatus: PaymentRefunded}).IsPaid())
}

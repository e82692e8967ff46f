package parkinglots

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parkeasy/booking-service/internal/domain"
	lotRepo "github.com/parkeasy/booking-service/internal/infra/storage/parkinglot"
	"github.com/parkeasy/booking-service/internal/service/parkinglots/models"
	"github.com/parkeasy/booking-service/pkg/ptr"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fakeLotRepo struct {
	lots   map[int64]*domain.ParkingLot
	nextID int64
}

func (f *fakeLotRepo) Create(_ context.Context, lot *domain.ParkingLot) (*domain.ParkingLot, error) {
	f.nextID++
	stored := *lot
	stored.ID = f.nextID
	f.lots[stored.ID] = &stored
	return &stored, nil
}

func (f *fakeLotRepo) GetByID(_ context.Context, id int64) (*domain.ParkingLot, error) {
	l, ok := f.lots[id]
	if !ok {
		return nil, lotRepo.ErrLotNotFound
	}
	copied := *l
	return &copied, nil
}

func (f *fakeLotRepo) List(_ context.Context) ([]*domain.ParkingLot, error) {
	var out []*domain.ParkingLot
	for _, l := range f.lots {
		out = append(out, l)
	}
	return out, nil
}

func (f *fakeLotRepo) GetByOwner(_ context.Context, ownerUserID int64) ([]*domain.ParkingLot, error) {
	var out []*domain.ParkingLot
	for _, l := range f.lots {
		if l.IsOwnedBy(ownerUserID) {
			out = append(out, l)
		}
	}
	return out, nil
}

func (f *fakeLotRepo) Update(_ context.Context, id int64, name string, totalSlots int, pricePerHour float64) error {
	l, ok := f.lots[id]
	if !ok {
		return lotRepo.ErrLotNotFound
	}
	if totalSlots < l.CarsParked {
		return lotRepo.ErrCapacityBelowOccupied
	}
	l.Name = name
	l.TotalSlots = totalSlots
	l.PricePerHour = pricePerHour
	return nil
}

const ownerID = int64(2)

func newFixture() (*Service, *fakeLotRepo) {
	repo := &fakeLotRepo{lots: map[int64]*domain.ParkingLot{}, nextID: 0}
	repo.nextID = 100
	repo.lots[100] = &domain.ParkingLot{
		ID:           100,
		Name:         "Central Plaza",
		TotalSlots:   10,
		CarsParked:   4,
		PricePerHour: 50,
		OwnerUserID:  ptr.Ptr(ownerID),
	}
	return NewService(repo, nopLogger{}), repo
}

func TestCreate_OwnerAndAdminOnly(t *testing.T) {
	svc, _ := newFixture()

	_, err := svc.Create(context.Background(), &models.CreateLotRequest{
		CallerID: 7, Role: domain.RoleUser, Name: "North Gate", TotalSlots: 20, PricePerHour: 30,
	})
	assert.ErrorIs(t, err, ErrAccessDenied)

	resp, err := svc.Create(context.Background(), &models.CreateLotRequest{
		CallerID: ownerID, Role: domain.RoleOwner, Name: "North Gate", TotalSlots: 20, PricePerHour: 30,
	})
	require.NoError(t, err)
	assert.Equal(t, "North Gate", resp.Name)
	assert.Equal(t, 20, resp.TotalSlots)
	assert.Equal(t, 20, resp.AvailableSlots)
	require.NotNil(t, resp.OwnerUserID)
	assert.Equal(t, ownerID, *resp.OwnerUserID)
}

func TestCreate_Validation(t *testing.T) {
	svc, _ := newFixture()

	tests := []struct {
		name string
		req  *models.CreateLotRequest
	}{
		{"empty name", &models.CreateLotRequest{
			CallerID: ownerID, Role: domain.RoleOwner, Name: "", TotalSlots: 5, PricePerHour: 10,
		}},
		{"negative slots", &models.CreateLotRequest{
			CallerID: ownerID, Role: domain.RoleOwner, Name: "Lot", TotalSlots: -1, PricePerHour: 10,
		}},
		{"zero price", &models.CreateLotRequest{
			CallerID: ownerID, Role: domain.RoleOwner, Name: "Lot", TotalSlots: 5, PricePerHour: 0,
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), tt.req)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestGetByID(t *testing.T) {
	svc, _ := newFixture()

	resp, err := svc.GetByID(context.Background(), 100)
	require.NoError(t, err)
	assert.Equal(t, "Central Plaza", resp.Name)
	assert.Equal(t, 6, resp.AvailableSlots)
	assert.Equal(t, 4, resp.CarsParked)

	_, err = svc.GetByID(context.Background(), 42)
	assert.ErrorIs(t, err, ErrLotNotFound)
}

func TestList(t *testing.T) {
	svc, _ := newFixture()
	resp, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, resp.Lots, 1)
}

func TestUpdate_OwnershipRequired(t *testing.T) {
	svc, _ := newFixture()

	_, err := svc.Update(context.Background(), 100, &models.UpdateLotRequest{
		CallerID: 7, Role: domain.RoleOwner, Name: "Renamed", TotalSlots: 10, PricePerHour: 60,
	})
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestUpdate_Success(t *testing.T) {
	svc, repo := newFixture()

	resp, err := svc.Update(context.Background(), 100, &models.UpdateLotRequest{
		CallerID: ownerID, Role: domain.RoleOwner, Name: "Renamed", TotalSlots: 12, PricePerHour: 60,
	})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", resp.Name)
	assert.Equal(t, 12, resp.TotalSlots)
	assert.Equal(t, 60.0, resp.PricePerHour)

	// Занятость не тронута
	assert.Equal(t, 4, repo.lots[100].CarsParked)
	assert.Equal(t, 8, resp.AvailableSlots)
}

func TestUpdate_CapacityBelowOccupied(t *testing.T) {
	svc, repo := newFixture()

	_, err := svc.Update(context.Background(), 100, &models.UpdateLotRequest{
		CallerID: ownerID, Role: domain.RoleOwner, Name: "Central Plaza", TotalSlots: 3, PricePerHour: 50,
	})
	assert.ErrorIs(t, err, ErrCapacityBelowOccupied)
	assert.Equal(t, 10, repo.lots[100].TotalSlots)
}

func TestUpdate_NotFound(t *testing.T) {
	svc, _ := newFixture()
	_, err := svc.Update(context.Background(), 42, &models.UpdateLotRequest{
		CallerID: ownerID, Role: domain.RoleOwner, Name: "Ghost", TotalSlots: 1, PricePerHour: 1,
	})
	assert.ErrorIs(t, err, ErrLotNotFound)
}

package create_booking

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parkeasy/booking-service/internal/domain"
	"github.com/parkeasy/booking-service/internal/infra/events"
	lotRepo "github.com/parkeasy/booking-service/internal/infra/storage/parkinglot"
	"github.com/parkeasy/booking-service/pkg/ptr"
)

// --- Моки -------------------------------------------------------------

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

// fakeLedger in-memory ledger с семантикой условного UPDATE
type fakeLedger struct {
	mu  sync.Mutex
	lot *domain.ParkingLot
}

func (f *fakeLedger) GetByID(_ context.Context, id int64) (*domain.ParkingLot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.lot == nil || f.lot.ID != id {
		return nil, lotRepo.ErrLotNotFound
	}
	copied := *f.lot
	return &copied, nil
}

func (f *fakeLedger) Reserve(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.lot == nil || f.lot.ID != id {
		return lotRepo.ErrLotNotFound
	}
	if f.lot.CarsParked >= f.lot.TotalSlots {
		return lotRepo.ErrNoSlotsAvailable
	}
	f.lot.CarsParked++
	return nil
}

type fakeBookingRepo struct {
	mu       sync.Mutex
	nextID   int64
	created  []*domain.Booking
	createFn func(*domain.Booking) error
}

func (f *fakeBookingRepo) Create(_ context.Context, b *domain.Booking) (*domain.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createFn != nil {
		if err := f.createFn(b); err != nil {
			return nil, err
		}
	}
	f.nextID++
	stored := *b
	stored.ID = f.nextID
	stored.CreatedAt = time.Now()
	stored.UpdatedAt = stored.CreatedAt
	f.created = append(f.created, &stored)
	return &stored, nil
}

// passthroughTx выполняет fn без реальной транзакции
type passthroughTx struct{}

func (passthroughTx) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.BookingEvent
}

func (p *recordingPublisher) Publish(_ context.Context, e events.BookingEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

func newTestLot(id int64, slots int, price float64) *domain.ParkingLot {
	return &domain.ParkingLot{
		ID:           id,
		Name:         "Central Plaza",
		TotalSlots:   slots,
		PricePerHour: price,
		OwnerUserID:  ptr.Ptr(int64(900)),
	}
}

func validRequest() *Request {
	start := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	return &Request{
		UserID:        1,
		ParkingLotID:  10,
		VehicleType:   domain.VehicleCar,
		VehicleNumber: "AB123CD",
		StartTime:     start,
		EndTime:       start.Add(2 * time.Hour),
	}
}

// --- Тесты ------------------------------------------------------------

func TestExecute_Success(t *testing.T) {
	ledger := &fakeLedger{lot: newTestLot(10, 5, 50)}
	repo := &fakeBookingRepo{}
	pub := &recordingPublisher{}
	uc := NewUseCase(repo, ledger, pub, passthroughTx{}, nopLogger{})

	resp, err := uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	assert.Equal(t, int64(1), resp.ID)
	assert.Equal(t, "Central Plaza", resp.ParkingLotName)
	assert.Equal(t, 50.0, resp.PricePerHour)
	assert.Equal(t, 2.0, resp.DurationHours)
	assert.Equal(t, 100.0, resp.TotalPrice)
	assert.Equal(t, string(domain.StatusActive), resp.Status)
	assert.Equal(t, string(domain.PaymentPending), resp.PaymentStatus)

	// Место занято в ledger
	assert.Equal(t, 1, ledger.lot.CarsParked)

	// Событие опубликовано
	require.Len(t, pub.events, 1)
	assert.Equal(t, events.TypeBookingCreated, pub.events[0].Type)
}

func TestExecute_ExplicitDuration(t *testing.T) {
	ledger := &fakeLedger{lot: newTestLot(10, 5, 40)}
	uc := NewUseCase(&fakeBookingRepo{}, ledger, &recordingPublisher{}, passthroughTx{}, nopLogger{})

	req := validRequest()
	req.DurationHours = ptr.Ptr(0.5)

	resp, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 0.5, resp.DurationHours)
	assert.Equal(t, 20.0, resp.TotalPrice)
}

func TestExecute_PriceSnapshotIndependentOfLotChanges(t *testing.T) {
	ledger := &fakeLedger{lot: newTestLot(10, 5, 50)}
	repo := &fakeBookingRepo{}
	uc := NewUseCase(repo, ledger, &recordingPublisher{}, passthroughTx{}, nopLogger{})

	resp, err := uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	// Лот дорожает после создания - бронь хранит старую цену
	ledger.lot.PricePerHour = 500
	assert.Equal(t, 50.0, resp.PricePerHour)
	assert.Equal(t, 100.0, resp.TotalPrice)
}

func TestExecute_LotNotFound(t *testing.T) {
	ledger := &fakeLedger{lot: newTestLot(99, 5, 50)}
	uc := NewUseCase(&fakeBookingRepo{}, ledger, &recordingPublisher{}, passthroughTx{}, nopLogger{})

	_, err := uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrLotNotFound)
}

func TestExecute_NoSlotsAvailable(t *testing.T) {
	lot := newTestLot(10, 2, 50)
	lot.CarsParked = 2
	ledger := &fakeLedger{lot: lot}
	repo := &fakeBookingRepo{}
	uc := NewUseCase(repo, ledger, &recordingPublisher{}, passthroughTx{}, nopLogger{})

	_, err := uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrNoSlotsAvailable)

	// Бронь не создана, счетчик не тронут
	assert.Empty(t, repo.created)
	assert.Equal(t, 2, ledger.lot.CarsParked)
}

func TestExecute_Validation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Request)
		wantErr error
	}{
		{"zero user", func(r *Request) { r.UserID = 0 }, ErrInvalidInput},
		{"zero lot", func(r *Request) { r.ParkingLotID = 0 }, ErrInvalidInput},
		{"unknown vehicle type", func(r *Request) { r.VehicleType = "boat" }, ErrInvalidVehicleType},
		{"empty vehicle number", func(r *Request) { r.VehicleNumber = "" }, ErrInvalidInput},
		{"vehicle number too long", func(r *Request) {
			r.VehicleNumber = "ABCDEFGHIJKLMNOPQRSTU"
		}, ErrInvalidInput},
		{"zero start time", func(r *Request) { r.StartTime = time.Time{} }, ErrInvalidInput},
		{"end before start", func(r *Request) {
			r.EndTime = r.StartTime.Add(-time.Hour)
		}, ErrInvalidTimeRange},
		{"end equals start", func(r *Request) { r.EndTime = r.StartTime }, ErrInvalidTimeRange},
		{"duration below minimum", func(r *Request) {
			r.DurationHours = ptr.Ptr(0.25)
		}, ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ledger := &fakeLedger{lot: newTestLot(10, 5, 50)}
			repo := &fakeBookingRepo{}
			uc := NewUseCase(repo, ledger, &recordingPublisher{}, passthroughTx{}, nopLogger{})

			req := validRequest()
			tt.mutate(req)

			_, err := uc.Execute(context.Background(), req)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, repo.created)
		})
	}
}

func TestExecute_RepositoryFailureReturnsInternal(t *testing.T) {
	ledger := &fakeLedger{lot: newTestLot(10, 5, 50)}
	repo := &fakeBookingRepo{createFn: func(*domain.Booking) error {
		return errors.New("connection reset")
	}}
	uc := NewUseCase(repo, ledger, &recordingPublisher{}, passthroughTx{}, nopLogger{})

	_, err := uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrInternal)
}

// Свойство отсутствия овербукинга: при N конкурентных запросах на лот
// с k местами проходит ровно k, остальные получают ErrNoSlotsAvailable.
func TestExecute_ConcurrentNoOverbooking(t *testing.T) {
	const (
		totalSlots = 7
		requests   = 50
	)

	ledger := &fakeLedger{lot: newTestLot(10, totalSlots, 50)}
	repo := &fakeBookingRepo{}
	uc := NewUseCase(repo, ledger, &recordingPublisher{}, passthroughTx{}, nopLogger{})

	var wg sync.WaitGroup
	errs := make([]error, requests)

	for i := 0; i < requests; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			req := validRequest()
			req.UserID = int64(i + 1)
			_, err := uc.Execute(context.Background(), req)
			errs[i] = err
		}(i)
	}
	wg.Wait()

	succeeded, rejected := 0, 0
	for _, err := range errs {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, ErrNoSlotsAvailable):
			rejected++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}

	assert.Equal(t, totalSlots, succeeded)
	assert.Equal(t, requests-totalSlots, rejected)
	assert.Equal(t, totalSlots, ledger.lot.CarsParked)
	assert.Len(t, repo.created, totalSlots)
}

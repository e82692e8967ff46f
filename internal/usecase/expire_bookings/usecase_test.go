package expire_bookings

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parkeasy/booking-service/internal/domain"
	"github.com/parkeasy/booking-service/internal/infra/events"
	lotRepo "github.com/parkeasy/booking-service/internal/infra/storage/parkinglot"
)

// --- Моки -------------------------------------------------------------

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type passthroughTx struct{}

func (passthroughTx) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type recordingPublisher struct {
	events []events.BookingEvent
}

func (p *recordingPublisher) Publish(_ context.Context, e events.BookingEvent) error {
	p.events = append(p.events, e)
	return nil
}

// fakeBookingRepo хранит статусы; TransitionFromActive повторяет
// семантику условного UPDATE
type fakeBookingRepo struct {
	bookings     map[int64]*domain.Booking
	transitionFn func(id int64) error
}

func (f *fakeBookingRepo) FindDueForExpiration(_ context.Context, now time.Time) ([]*domain.Booking, error) {
	var due []*domain.Booking
	for _, b := range f.bookings {
		if b.Status == domain.StatusActive && !b.EndTime.After(now) {
			due = append(due, b)
		}
	}
	return due, nil
}

func (f *fakeBookingRepo) TransitionFromActive(_ context.Context, id int64, target domain.BookingStatus) (bool, error) {
	if f.transitionFn != nil {
		if err := f.transitionFn(id); err != nil {
			return false, err
		}
	}
	b, ok := f.bookings[id]
	if !ok || b.Status != domain.StatusActive {
		return false, nil
	}
	b.Status = target
	return true, nil
}

type fakeLedger struct {
	released  map[int64]int
	releaseFn func(id int64) error
}

func (f *fakeLedger) Release(_ context.Context, id int64) error {
	if f.releaseFn != nil {
		if err := f.releaseFn(id); err != nil {
			return err
		}
	}
	if f.released == nil {
		f.released = map[int64]int{}
	}
	f.released[id]++
	return nil
}

func activeBooking(id, lotID int64, endTime time.Time) *domain.Booking {
	return &domain.Booking{
		ID:           id,
		UserID:       id * 10,
		ParkingLotID: lotID,
		EndTime:      endTime,
		Status:       domain.StatusActive,
	}
}

// --- Тесты ------------------------------------------------------------

func TestExecute_ExpiresDueBookings(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	repo := &fakeBookingRepo{bookings: map[int64]*domain.Booking{
		1: activeBooking(1, 100, now.Add(-time.Hour)),   // истекла
		2: activeBooking(2, 100, now.Add(-time.Minute)), // истекла
		3: activeBooking(3, 200, now.Add(time.Hour)),    // еще активна
	}}
	ledger := &fakeLedger{}
	pub := &recordingPublisher{}

	uc := NewUseCase(repo, ledger, pub, passthroughTx{}, nopLogger{})
	uc.timeProvider = &fixedTime{now}

	result, err := uc.Execute(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, result.UpdatedCount)
	assert.Equal(t, 0, result.ErrorCount)

	assert.Equal(t, domain.StatusExpired, repo.bookings[1].Status)
	assert.Equal(t, domain.StatusExpired, repo.bookings[2].Status)
	assert.Equal(t, domain.StatusActive, repo.bookings[3].Status)

	// По одному release на каждое истекшее бронирование
	assert.Equal(t, 2, ledger.released[100])
	assert.Equal(t, 0, ledger.released[200])

	assert.Len(t, pub.events, 2)
	for _, e := range pub.events {
		assert.Equal(t, events.TypeBookingExpired, e.Type)
	}
}

func TestExecute_SecondSweepIsNoop(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	repo := &fakeBookingRepo{bookings: map[int64]*domain.Booking{
		1: activeBooking(1, 100, now.Add(-time.Hour)),
	}}
	ledger := &fakeLedger{}

	uc := NewUseCase(repo, ledger, &recordingPublisher{}, passthroughTx{}, nopLogger{})
	uc.timeProvider = &fixedTime{now}

	first, err := uc.Execute(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, first.UpdatedCount)

	second, err := uc.Execute(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, second.UpdatedCount)

	// Место освобождено ровно один раз
	assert.Equal(t, 1, ledger.released[100])
}

func TestExecute_RaceLoserDoesNotRelease(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	b := activeBooking(1, 100, now.Add(-time.Hour))
	repo := &fakeBookingRepo{bookings: map[int64]*domain.Booking{1: b}}
	ledger := &fakeLedger{}

	// Конкурентная отмена финализирует бронь между FindDueForExpiration
	// и TransitionFromActive
	repo.transitionFn = func(id int64) error {
		b.Status = domain.StatusCancelled
		return nil
	}

	uc := NewUseCase(repo, ledger, &recordingPublisher{}, passthroughTx{}, nopLogger{})
	uc.timeProvider = &fixedTime{now}

	result, err := uc.Execute(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 0, result.UpdatedCount)
	assert.Equal(t, 0, result.ErrorCount)
	assert.Empty(t, ledger.released)
	assert.Equal(t, domain.StatusCancelled, b.Status)
}

func TestExecute_PerItemFailureDoesNotAbortSweep(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	repo := &fakeBookingRepo{bookings: map[int64]*domain.Booking{
		1: activeBooking(1, 100, now.Add(-time.Hour)),
		2: activeBooking(2, 200, now.Add(-time.Hour)),
	}}
	repo.transitionFn = func(id int64) error {
		if id == 1 {
			return errors.New("deadlock detected")
		}
		return nil
	}
	ledger := &fakeLedger{}

	uc := NewUseCase(repo, ledger, &recordingPublisher{}, passthroughTx{}, nopLogger{})
	uc.timeProvider = &fixedTime{now}

	result, err := uc.Execute(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, result.UpdatedCount)
	assert.Equal(t, 1, result.ErrorCount)
	assert.Equal(t, domain.StatusExpired, repo.bookings[2].Status)
}

func TestExecute_ZeroCounterToleratedOnRelease(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	repo := &fakeBookingRepo{bookings: map[int64]*domain.Booking{
		1: activeBooking(1, 100, now.Add(-time.Hour)),
	}}
	ledger := &fakeLedger{releaseFn: func(int64) error {
		return lotRepo.ErrNothingToRelease
	}}

	uc := NewUseCase(repo, ledger, &recordingPublisher{}, passthroughTx{}, nopLogger{})
	uc.timeProvider = &fixedTime{now}

	result, err := uc.Execute(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, result.UpdatedCount)
	assert.Equal(t, 0, result.ErrorCount)
	assert.Equal(t, domain.StatusExpired, repo.bookings[1].Status)
}

type fixedTime struct {
	now time.Time
}

func (f *fixedTime) Now() time.Time { return f.now }

package expire_bookings

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
	"github.com/m04kA/SMC-ParkingService/internal/infra/storage/memory"
	"github.com/m04kA/SMC-ParkingService/internal/service/lifecycle"
	"github.com/m04kA/SMC-ParkingService/pkg/logger"
)

type fixture struct {
	uc       *UseCase
	slots    *memory.SlotRepository
	bookings *memory.BookingRepository
	slotID   int64
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	f := &fixture{
		slots:    memory.NewSlotRepository(store),
		bookings: memory.NewBookingRepository(store),
	}
	lc := lifecycle.NewService(f.bookings, f.slots, memory.NewTxManager(store), nil, logger.NewNop())
	f.uc = NewUseCase(f.bookings, lc, nil, logger.NewNop())

	slot, err := f.slots.Create(context.Background(), &domain.Slot{Label: "A1"})
	require.NoError(t, err)
	f.slotID = slot.ID
	return f
}

func (f *fixture) booking(t *testing.T, start, end time.Time, status domain.BookingStatus) *domain.Booking {
	t.Helper()
	b, err := f.bookings.Create(context.Background(), &domain.Booking{
		SlotID: f.slotID, StartTime: start, EndTime: end, Status: status,
	})
	require.NoError(t, err)
	return b
}

func TestExecute_ExpiresOnlyPastActive(t *testing.T) {
	f := newFixture(t)
	now := time.Now()
	ctx := context.Background()

	past := f.booking(t, now.Add(-5*time.Hour), now.Add(-4*time.Hour), domain.StatusActive)
	current := f.booking(t, now.Add(-time.Hour), now.Add(time.Hour), domain.StatusActive)
	inside := f.booking(t, now.Add(-3*time.Hour), now.Add(-2*time.Hour), domain.StatusCheckedIn)

	resp, err := f.uc.Execute(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Expired)
	assert.Equal(t, 0, resp.Skipped)

	got, err := f.bookings.GetByID(ctx, past.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, got.Status)
	assert.NotNil(t, got.CheckOutTime)

	got, err = f.bookings.GetByID(ctx, current.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusActive, got.Status)

	got, err = f.bookings.GetByID(ctx, inside.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCheckedIn, got.Status)
}

func TestExecute_Idempotent(t *testing.T) {
	f := newFixture(t)
	now := time.Now()
	f.booking(t, now.Add(-5*time.Hour), now.Add(-4*time.Hour), domain.StatusActive)
	f.booking(t, now.Add(-3*time.Hour), now.Add(-2*time.Hour), domain.StatusActive)

	first, err := f.uc.Execute(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, first.Expired)

	second, err := f.uc.Execute(context.Background())
	require.NoError(t, err)
	assert.Equal(t, &Response{}, second)
}

// raceLifecycle эмулирует бронь, которую успели отменить между выборкой и переходом
type raceLifecycle struct {
	conflictID int64
	next       Lifecycle
}

func (l raceLifecycle) Expire(ctx context.Context, id int64) (*domain.Booking, error) {
	if id == l.conflictID {
		return nil, domain.ErrIllegalTransition
	}
	return l.next.Expire(ctx, id)
}

func TestExecute_SkipsConcurrentlyChanged(t *testing.T) {
	f := newFixture(t)
	now := time.Now()
	a := f.booking(t, now.Add(-5*time.Hour), now.Add(-4*time.Hour), domain.StatusActive)
	f.booking(t, now.Add(-3*time.Hour), now.Add(-2*time.Hour), domain.StatusActive)

	uc := NewUseCase(f.bookings, raceLifecycle{conflictID: a.ID, next: f.uc.lifecycle}, nil, logger.NewNop())

	resp, err := uc.Execute(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Expired)
	assert.Equal(t, 1, resp.Skipped)
}

type failingRepo struct{}

func (failingRepo) FindExpired(context.Context, time.Time) ([]*domain.Booking, error) {
	return nil, errors.New("db down")
}

func TestExecute_RepositoryError(t *testing.T) {
	f := newFixture(t)
	uc := NewUseCase(failingRepo{}, f.uc.lifecycle, nil, logger.NewNop())

	_, err := uc.Execute(context.Background())
	assert.ErrorIs(t, err, ErrInternal)
}

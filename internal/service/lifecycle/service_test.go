package lifecycle

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
	"github.com/m04kA/SMC-ParkingService/internal/infra/storage/memory"
	"github.com/m04kA/SMC-ParkingService/pkg/logger"
)

type fixedTime struct{ t time.Time }

func (f *fixedTime) Now() time.Time { return f.t }

type recordingMetrics struct {
	calls []string
}

func (m *recordingMetrics) RecordTransition(event, result string) {
	m.calls = append(m.calls, event+":"+result)
}

var start = time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)

type fixture struct {
	svc      *Service
	clock    *fixedTime
	metrics  *recordingMetrics
	slots    *memory.SlotRepository
	bookings *memory.BookingRepository
	slotID   int64
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	f := &fixture{
		clock:    &fixedTime{t: start},
		metrics:  &recordingMetrics{},
		slots:    memory.NewSlotRepository(store),
		bookings: memory.NewBookingRepository(store),
	}
	f.svc = NewService(f.bookings, f.slots, memory.NewTxManager(store), f.metrics, logger.NewNop())
	f.svc.timeProvider = f.clock

	slot, err := f.slots.Create(context.Background(), &domain.Slot{Label: "A1"})
	require.NoError(t, err)
	f.slotID = slot.ID
	return f
}

func (f *fixture) booking(t *testing.T, status domain.BookingStatus) *domain.Booking {
	t.Helper()
	b, err := f.bookings.Create(context.Background(), &domain.Booking{
		Name:      "Ann",
		RFIDTag:   "T1",
		SlotID:    f.slotID,
		StartTime: start,
		EndTime:   start.Add(2 * time.Hour),
		Status:    status,
	})
	require.NoError(t, err)
	return b
}

func (f *fixture) occupied(t *testing.T) bool {
	t.Helper()
	slot, err := f.slots.GetByID(context.Background(), f.slotID)
	require.NoError(t, err)
	return slot.Occupied
}

func TestService_CheckInThenComplete(t *testing.T) {
	f := newFixture(t)
	b := f.booking(t, domain.StatusActive)
	ctx := context.Background()

	f.clock.t = start.Add(5 * time.Minute)
	checkedIn, err := f.svc.CheckIn(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCheckedIn, checkedIn.Status)
	require.NotNil(t, checkedIn.CheckInTime)
	assert.True(t, f.occupied(t))

	f.clock.t = start.Add(time.Hour)
	completed, err := f.svc.Complete(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, completed.Status)
	require.NotNil(t, completed.CheckOutTime)
	assert.False(t, f.occupied(t))

	assert.Equal(t, []string{"check_in:ok", "check_out:ok"}, f.metrics.calls)
}

func TestService_CheckIn_Guards(t *testing.T) {
	f := newFixture(t)
	b := f.booking(t, domain.StatusActive)
	ctx := context.Background()

	f.clock.t = start.Add(-time.Minute)
	_, err := f.svc.CheckIn(ctx, b.ID)
	assert.ErrorIs(t, err, ErrEarlyCheckIn)
	assert.ErrorIs(t, err, domain.ErrConflict)

	got, err := f.bookings.GetByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusActive, got.Status)
	assert.False(t, f.occupied(t))
}

func TestService_CheckIn_AfterWindowEnd(t *testing.T) {
	f := newFixture(t)
	b := f.booking(t, domain.StatusActive)

	// ручной заезд по ещё не истёкшей брони
	f.clock.t = start.Add(2*time.Hour + time.Minute)
	got, err := f.svc.CheckIn(context.Background(), b.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCheckedIn, got.Status)
	assert.True(t, f.occupied(t))
}

func TestService_Cancel(t *testing.T) {
	tests := []struct {
		name    string
		status  domain.BookingStatus
		wantErr bool
	}{
		{"active", domain.StatusActive, false},
		{"checked in", domain.StatusCheckedIn, true},
		{"completed", domain.StatusCompleted, true},
		{"cancelled", domain.StatusCancelled, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			b := f.booking(t, tt.status)
			if tt.status == domain.StatusCheckedIn {
				require.NoError(t, f.slots.SetOccupied(context.Background(), f.slotID, true))
			}

			got, err := f.svc.Cancel(context.Background(), b.ID)
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrIllegalTransition)
				assert.ErrorIs(t, err, domain.ErrConflict)

				stored, getErr := f.bookings.GetByID(context.Background(), b.ID)
				require.NoError(t, getErr)
				assert.Equal(t, tt.status, stored.Status)
				assert.Equal(t, tt.status == domain.StatusCheckedIn, f.occupied(t))
				return
			}

			require.NoError(t, err)
			assert.Equal(t, domain.StatusCancelled, got.Status)
			assert.False(t, f.occupied(t))
		})
	}
}

func TestService_Complete_ActiveNotExpired(t *testing.T) {
	f := newFixture(t)
	b := f.booking(t, domain.StatusActive)

	f.clock.t = start.Add(time.Hour)
	_, err := f.svc.Complete(context.Background(), b.ID)
	assert.ErrorIs(t, err, ErrCannotComplete)
}

func TestService_Complete_ExpiredActive(t *testing.T) {
	f := newFixture(t)
	b := f.booking(t, domain.StatusActive)

	f.clock.t = start.Add(3 * time.Hour)
	got, err := f.svc.Complete(context.Background(), b.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, got.Status)
	assert.Equal(t, []string{"expire:ok"}, f.metrics.calls)
}

func TestService_Expire(t *testing.T) {
	f := newFixture(t)
	b := f.booking(t, domain.StatusActive)
	ctx := context.Background()

	f.clock.t = start.Add(time.Hour)
	_, err := f.svc.Expire(ctx, b.ID)
	assert.ErrorIs(t, err, ErrNotExpired)

	f.clock.t = start.Add(3 * time.Hour)
	got, err := f.svc.Expire(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, got.Status)

	_, err = f.svc.Expire(ctx, b.ID)
	assert.ErrorIs(t, err, domain.ErrIllegalTransition)
}

func TestService_ScanAdvance(t *testing.T) {
	f := newFixture(t)
	b := f.booking(t, domain.StatusActive)
	ctx := context.Background()

	f.clock.t = start.Add(2 * time.Hour)
	_, err := f.svc.ScanAdvance(ctx, b.ID)
	assert.ErrorIs(t, err, ErrWindowOver)
	assert.False(t, f.occupied(t))

	f.clock.t = start.Add(time.Minute)
	got, err := f.svc.ScanAdvance(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCheckedIn, got.Status)

	got, err = f.svc.ScanAdvance(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, got.Status)

	_, err = f.svc.ScanAdvance(ctx, b.ID)
	assert.ErrorIs(t, err, domain.ErrIllegalTransition)
}

func TestService_NotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.CheckIn(context.Background(), 404)
	assert.ErrorIs(t, err, ErrBookingNotFound)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestService_Cancel_KeepsSlotOccupiedByAnotherCar(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	inside, err := f.bookings.Create(ctx, &domain.Booking{
		RFIDTag: "T0", SlotID: f.slotID,
		StartTime: start.Add(-2 * time.Hour), EndTime: start,
		Status: domain.StatusCheckedIn,
	})
	require.NoError(t, err)
	require.NoError(t, f.slots.SetOccupied(ctx, f.slotID, true))

	next := f.booking(t, domain.StatusActive)

	_, err = f.svc.Cancel(ctx, next.ID)
	require.NoError(t, err)
	assert.True(t, f.occupied(t))

	_, err = f.svc.Complete(ctx, inside.ID)
	require.NoError(t, err)
	assert.False(t, f.occupied(t))
}

package search_slots

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
	"github.com/m04kA/SMC-ParkingService/internal/infra/storage/memory"
	"github.com/m04kA/SMC-ParkingService/pkg/logger"
)

func at(hour int) time.Time {
	return time.Date(2026, 3, 10, hour, 0, 0, 0, time.UTC)
}

type fixture struct {
	uc       *UseCase
	slots    *memory.SlotRepository
	bookings *memory.BookingRepository
}

func newFixture() *fixture {
	store := memory.NewStore()
	f := &fixture{
		slots:    memory.NewSlotRepository(store),
		bookings: memory.NewBookingRepository(store),
	}
	f.uc = NewUseCase(f.slots, f.bookings, logger.NewNop())
	return f
}

func (f *fixture) slot(t *testing.T, label string) *domain.Slot {
	t.Helper()
	s, err := f.slots.Create(context.Background(), &domain.Slot{Label: label})
	require.NoError(t, err)
	return s
}

func (f *fixture) booking(t *testing.T, slotID int64, from, to int, status domain.BookingStatus) {
	t.Helper()
	_, err := f.bookings.Create(context.Background(), &domain.Booking{
		SlotID: slotID, StartTime: at(from), EndTime: at(to), Status: status,
	})
	require.NoError(t, err)
}

func labels(resp *Response) []string {
	out := make([]string, 0, len(resp.Slots))
	for _, s := range resp.Slots {
		out = append(out, s.Label)
	}
	return out
}

func TestExecute_ActiveBookingBlocksOverlappingWindow(t *testing.T) {
	f := newFixture()
	a := f.slot(t, "A")
	f.slot(t, "B")
	f.booking(t, a.ID, 10, 12, domain.StatusActive)

	resp, err := f.uc.Execute(context.Background(), &Request{StartTime: at(11), EndTime: at(13)})
	require.NoError(t, err)
	assert.Equal(t, []string{"B"}, labels(resp))

	resp, err = f.uc.Execute(context.Background(), &Request{StartTime: at(12), EndTime: at(14)})
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, labels(resp))
}

func TestExecute_CheckedInBlocksUntilItsEnd(t *testing.T) {
	f := newFixture()
	a := f.slot(t, "A")
	f.booking(t, a.ID, 8, 12, domain.StatusCheckedIn)

	resp, err := f.uc.Execute(context.Background(), &Request{StartTime: at(11), EndTime: at(15)})
	require.NoError(t, err)
	assert.Empty(t, resp.Slots)

	resp, err = f.uc.Execute(context.Background(), &Request{StartTime: at(12), EndTime: at(15)})
	require.NoError(t, err)
	assert.Equal(t, []string{"A"}, labels(resp))
}

func TestExecute_TerminalBookingsDoNotBlock(t *testing.T) {
	f := newFixture()
	a := f.slot(t, "A")
	f.booking(t, a.ID, 10, 12, domain.StatusCancelled)
	f.booking(t, a.ID, 10, 12, domain.StatusCompleted)

	resp, err := f.uc.Execute(context.Background(), &Request{StartTime: at(10), EndTime: at(12)})
	require.NoError(t, err)
	assert.Equal(t, []string{"A"}, labels(resp))
}

func TestExecute_OccupiedSlotExcluded(t *testing.T) {
	f := newFixture()
	a := f.slot(t, "A")
	f.slot(t, "C")
	f.slot(t, "B")
	require.NoError(t, f.slots.SetOccupied(context.Background(), a.ID, true))

	resp, err := f.uc.Execute(context.Background(), &Request{StartTime: at(10), EndTime: at(11)})
	require.NoError(t, err)
	assert.Equal(t, []string{"B", "C"}, labels(resp))
}

func TestExecute_NoFreeSlots(t *testing.T) {
	f := newFixture()
	a := f.slot(t, "A")
	require.NoError(t, f.slots.SetOccupied(context.Background(), a.ID, true))

	resp, err := f.uc.Execute(context.Background(), &Request{StartTime: at(10), EndTime: at(11)})
	require.NoError(t, err)
	assert.NotNil(t, resp.Slots)
	assert.Empty(t, resp.Slots)
}

func TestExecute_InvalidWindow(t *testing.T) {
	f := newFixture()

	for _, req := range []*Request{
		{StartTime: at(12), EndTime: at(11)},
		{StartTime: at(12), EndTime: at(12)},
		{EndTime: at(12)},
	} {
		_, err := f.uc.Execute(context.Background(), req)
		assert.ErrorIs(t, err, ErrInvalidInput)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	}
}

type failingBookings struct{}

func (failingBookings) FindBlockingSlotIDs(context.Context, domain.Window) ([]int64, error) {
	return nil, errors.New("db down")
}

func TestExecute_RepositoryError(t *testing.T) {
	f := newFixture()
	f.slot(t, "A")
	uc := NewUseCase(f.slots, failingBookings{}, logger.NewNop())

	_, err := uc.Execute(context.Background(), &Request{StartTime: at(10), EndTime: at(11)})
	assert.ErrorIs(t, err, ErrInternal)
}

package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPhaseOf(t *testing.T) {
	assert.Equal(t, PhaseAwaitingEntry, PhaseOf(StatusActive))
	assert.Equal(t, PhaseAwaitingExit, PhaseOf(StatusCheckedIn))
	assert.Equal(t, PhaseNone, PhaseOf(StatusCompleted))
	assert.Equal(t, PhaseNone, PhaseOf(StatusCancelled))

	ev, action, ok := ScanEvent(PhaseAwaitingEntry)
	assert.True(t, ok)
	assert.Equal(t, EventCheckIn, ev)
	assert.Equal(t, ActionCheckedIn, action)

	_, _, ok = ScanEvent(PhaseNone)
	assert.False(t, ok)
}

func TestIsScanRelevant(t *testing.T) {
	b := &Booking{Status: StatusActive, StartTime: at(10), EndTime: at(12)}
	assert.True(t, IsScanRelevant(b, at(10)))
	assert.False(t, IsScanRelevant(b, at(9)))
	assert.False(t, IsScanRelevant(b, at(12)))

	b.Status = StatusCheckedIn
	assert.True(t, IsScanRelevant(b, at(13)))

	b.Status = StatusCompleted
	assert.False(t, IsScanRelevant(b, at(11)))
}

func TestPickForScan(t *testing.T) {
	early := &Booking{ID: 1, Status: StatusActive, StartTime: at(9)}
	late := &Booking{ID: 2, Status: StatusActive, StartTime: at(10)}
	inside := &Booking{ID: 3, Status: StatusCheckedIn, StartTime: at(11)}

	chosen, ambiguous := PickForScan([]*Booking{late, early})
	assert.Equal(t, int64(1), chosen.ID)
	assert.True(t, ambiguous)

	chosen, _ = PickForScan([]*Booking{late, inside, early})
	assert.Equal(t, int64(3), chosen.ID)

	chosen, ambiguous = PickForScan([]*Booking{late})
	assert.Equal(t, int64(2), chosen.ID)
	assert.False(t, ambiguous)

	chosen, _ = PickForScan(nil)
	assert.Nil(t, chosen)
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "0h 0m", FormatDuration(0))
	assert.Equal(t, "0h 45m", FormatDuration(45*time.Minute))
	assert.Equal(t, "2h 5m", FormatDuration(2*time.Hour+5*time.Minute+30*time.Second))
	assert.Equal(t, "0h 0m", FormatDuration(-time.Minute))
}

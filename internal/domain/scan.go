package domain

import (
	"fmt"
	"sort"
	"time"
)

// GatePhase фаза шлагбаума для брони
type GatePhase string

const (
	PhaseAwaitingEntry GatePhase = "awaiting_entry"
	PhaseAwaitingExit  GatePhase = "awaiting_exit"
	PhaseNone          GatePhase = ""
)

// ScanAction результат скана
type ScanAction string

const (
	ActionCheckedIn ScanAction = "checked_in"
	ActionCompleted ScanAction = "completed"
)

// PhaseOf фаза выводится из статуса, отдельно не хранится
func PhaseOf(status BookingStatus) GatePhase {
	switch status {
	case StatusActive:
		return PhaseAwaitingEntry
	case StatusCheckedIn:
		return PhaseAwaitingExit
	}
	return PhaseNone
}

// ScanEvent событие, которое скан порождает в данной фазе
func ScanEvent(phase GatePhase) (Event, ScanAction, bool) {
	switch phase {
	case PhaseAwaitingEntry:
		return EventCheckIn, ActionCheckedIn, true
	case PhaseAwaitingExit:
		return EventCheckOut, ActionCompleted, true
	}
	return "", "", false
}

// IsScanRelevant бронь отвечает на скан: активна и сейчас внутри окна, либо машина на месте
func IsScanRelevant(b *Booking, now time.Time) bool {
	switch b.Status {
	case StatusCheckedIn:
		return true
	case StatusActive:
		return b.Window().Contains(now)
	}
	return false
}

// PickForScan выбирает одну бронь из подходящих: сначала checked_in,
// затем самая ранняя по началу. ambiguous = кандидатов было больше одного
func PickForScan(candidates []*Booking) (chosen *Booking, ambiguous bool) {
	if len(candidates) == 0 {
		return nil, false
	}
	sorted := make([]*Booking, len(candidates))
	copy(sorted, candidates)
	sort.SliceStable(sorted, func(i, j int) bool {
		ci := sorted[i].Status == StatusCheckedIn
		cj := sorted[j].Status == StatusCheckedIn
		if ci != cj {
			return ci
		}
		if !sorted[i].StartTime.Equal(sorted[j].StartTime) {
			return sorted[i].StartTime.Before(sorted[j].StartTime)
		}
		return sorted[i].ID < sorted[j].ID
	})
	return sorted[0], len(sorted) > 1
}

// FormatDuration формат "2h 5m"
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int(d / time.Minute)
	return fmt.Sprintf("%dh %dm", total/60, total%60)
}

package domain

import (
	"fmt"
	"time"
)

// Event событие жизненного цикла брони
type Event string

const (
	EventCheckIn  Event = "check_in"
	EventCheckOut Event = "check_out"
	EventExpire   Event = "expire"
	EventCancel   Event = "cancel"
)

// ErrIllegalTransition событие недопустимо в текущем статусе
var ErrIllegalTransition = fmt.Errorf("%w: illegal booking transition", ErrConflict)

// Transition допустимый переход
type Transition struct {
	From  BookingStatus
	Event Event
	To    BookingStatus
}

// Transitions полная таблица переходов, всё остальное запрещено
var Transitions = []Transition{
	{From: StatusActive, Event: EventCheckIn, To: StatusCheckedIn},
	{From: StatusCheckedIn, Event: EventCheckOut, To: StatusCompleted},
	{From: StatusActive, Event: EventExpire, To: StatusCompleted},
	{From: StatusActive, Event: EventCancel, To: StatusCancelled},
}

// NextStatus возвращает целевой статус или ErrIllegalTransition
func NextStatus(from BookingStatus, ev Event) (BookingStatus, error) {
	for _, t := range Transitions {
		if t.From == from && t.Event == ev {
			return t.To, nil
		}
	}
	return "", fmt.Errorf("%w: %s from %s", ErrIllegalTransition, ev, from)
}

// SlotOccupancyAfter значение Slot.Occupied после события
func SlotOccupancyAfter(ev Event) bool {
	return ev == EventCheckIn
}

// StatusChange применение перехода к хранимой брони.
// Обновление выполняется только если статус в хранилище всё ещё From
type StatusChange struct {
	BookingID    int64
	From         BookingStatus
	To           BookingStatus
	CheckInTime  *time.Time
	CheckOutTime *time.Time
	At           time.Time
}

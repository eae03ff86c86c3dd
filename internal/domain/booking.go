package domain

import "time"

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	StatusActive    BookingStatus = "active"
	StatusCheckedIn BookingStatus = "checked_in"
	StatusCompleted BookingStatus = "completed"
	StatusCancelled BookingStatus = "cancelled"
)

// IsValid returns true for a known status
func (s BookingStatus) IsValid() bool {
	switch s {
	case StatusActive, StatusCheckedIn, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// IsTerminal returns true if no transition leaves the status
func (s BookingStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// Booking represents a reservation of one slot for a time window
type Booking struct {
	ID        int64
	Name      string
	Email     string
	RFIDTag   string
	SlotID    int64
	StartTime time.Time
	EndTime   time.Time
	Status    BookingStatus

	CheckInTime  *time.Time
	CheckOutTime *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Window returns the reservation window [StartTime, EndTime)
func (b *Booking) Window() Window {
	return Window{Start: b.StartTime, End: b.EndTime}
}

// IsHolding returns true if the booking still claims its slot
func (b *Booking) IsHolding() bool {
	return b.Status == StatusActive || b.Status == StatusCheckedIn
}

// IsExpired returns true for an active booking whose window has passed
func (b *Booking) IsExpired(now time.Time) bool {
	return b.Status == StatusActive && b.EndTime.Before(now)
}

// BookingFilter фильтр списка бронирований, пустые поля не ограничивают выборку
type BookingFilter struct {
	Email    *string
	RFIDTag  *string
	SlotID   *int64
	Statuses []BookingStatus
}

// HoldingStatuses статусы, при которых бронь занимает слот
var HoldingStatuses = []BookingStatus{StatusActive, StatusCheckedIn}

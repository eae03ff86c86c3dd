package domain

import (
	"fmt"
	"time"
)

var (
	// ErrInvalidWindow начало окна не раньше конца или время не задано
	ErrInvalidWindow = fmt.Errorf("%w: start time must be before end time", ErrInvalidInput)
)

// Window полуинтервал [Start, End)
type Window struct {
	Start time.Time
	End   time.Time
}

// Validate проверяет, что окно задано и Start < End
func (w Window) Validate() error {
	if w.Start.IsZero() || w.End.IsZero() {
		return fmt.Errorf("%w: start and end are required", ErrInvalidInput)
	}
	if !w.Start.Before(w.End) {
		return ErrInvalidWindow
	}
	return nil
}

// Overlaps пересечение полуинтервалов: смежные окна не пересекаются
func (w Window) Overlaps(other Window) bool {
	return w.Start.Before(other.End) && other.Start.Before(w.End)
}

// Contains start <= t < end
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

// Duration длительность окна
func (w Window) Duration() time.Duration {
	return w.End.Sub(w.Start)
}

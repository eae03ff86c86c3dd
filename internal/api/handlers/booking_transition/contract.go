package booking_transition

import (
	"context"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
)

type Lifecycle interface {
	CheckIn(ctx context.Context, bookingID int64) (*domain.Booking, error)
	Complete(ctx context.Context, bookingID int64) (*domain.Booking, error)
	Cancel(ctx context.Context, bookingID int64) (*domain.Booking, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

package get_booking_by_tag

import (
	"context"

	"github.com/m04kA/SMC-ParkingService/internal/service/bookings/models"
)

type BookingService interface {
	FindByTag(ctx context.Context, tag string) (*models.BookingResponse, error)
	VerifyTag(ctx context.Context, tag string) (*models.VerifyTagResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

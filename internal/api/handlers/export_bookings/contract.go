package export_bookings

import (
	"context"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
)

type ReportService interface {
	ExportBookings(ctx context.Context, filter domain.BookingFilter) ([]byte, error)
	FileName() string
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

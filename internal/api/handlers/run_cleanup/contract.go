package run_cleanup

import (
	"context"

	"github.com/m04kA/SMC-ParkingService/internal/usecase/expire_bookings"
)

type ExpireUseCase interface {
	Execute(ctx context.Context) (*expire_bookings.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

package scan_rfid

import (
	"context"

	"github.com/m04kA/SMC-ParkingService/internal/usecase/handle_scan"
)

type ScanUseCase interface {
	Execute(ctx context.Context, req *handle_scan.Request) (*handle_scan.Response, error)
}

// Guard подавление повторных сканов
type Guard interface {
	Allow(ctx context.Context, tag string) (bool, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

package gate

import (
	"context"

	"github.com/m04kA/SMC-ParkingService/internal/usecase/handle_scan"
)

// ScanUseCase обработка скана метки
type ScanUseCase interface {
	Execute(ctx context.Context, req *handle_scan.Request) (*handle_scan.Response, error)
}

// Guard подавление повторных сканов
type Guard interface {
	Allow(ctx context.Context, tag string) (bool, error)
}

// Publisher отправка ответа шлагбауму
type Publisher interface {
	Publish(topic string, qos byte, payload []byte) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

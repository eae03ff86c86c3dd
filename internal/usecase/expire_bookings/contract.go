package expire_bookings

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	FindExpired(ctx context.Context, now time.Time) ([]*domain.Booking, error)
}

// Lifecycle переходы брони
type Lifecycle interface {
	Expire(ctx context.Context, bookingID int64) (*domain.Booking, error)
}

// Metrics счётчики прогонов очистки
type Metrics interface {
	RecordSweep(expired, skipped int)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}

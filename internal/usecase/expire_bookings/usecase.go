package expire_bookings

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
)

// UseCase закрывает active брони, окно которых прошло без заезда
type UseCase struct {
	bookingRepo  BookingRepository
	lifecycle    Lifecycle
	metrics      Metrics
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(bookingRepo BookingRepository, lifecycle Lifecycle, metrics Metrics, logger Logger) *UseCase {
	if metrics == nil {
		metrics = noopMetrics{}
	}
	return &UseCase{
		bookingRepo:  bookingRepo,
		lifecycle:    lifecycle,
		metrics:      metrics,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет один прогон. Каждая бронь переводится отдельно:
// брони, изменившиеся после выборки, пропускаются, остальные не затрагиваются
func (uc *UseCase) Execute(ctx context.Context) (*Response, error) {
	expired, err := uc.bookingRepo.FindExpired(ctx, uc.timeProvider.Now())
	if err != nil {
		uc.logger.Error("ExpireBookings: failed to find expired bookings: %v", err)
		return nil, fmt.Errorf("%w: failed to find expired bookings: %v", ErrInternal, err)
	}

	resp := &Response{}
	for _, booking := range expired {
		if ctx.Err() != nil {
			break
		}

		_, err := uc.lifecycle.Expire(ctx, booking.ID)
		switch {
		case err == nil:
			resp.Expired++
		case errors.Is(err, domain.ErrConflict), errors.Is(err, domain.ErrNotFound):
			uc.logger.Info("ExpireBookings: booking id=%d skipped: %v", booking.ID, err)
			resp.Skipped++
		default:
			uc.logger.Error("ExpireBookings: booking id=%d failed: %v", booking.ID, err)
			resp.Failed++
		}
	}

	uc.metrics.RecordSweep(resp.Expired, resp.Skipped)
	if len(expired) > 0 {
		uc.logger.Info("ExpireBookings: expired=%d skipped=%d failed=%d", resp.Expired, resp.Skipped, resp.Failed)
	}
	return resp, nil
}

type noopMetrics struct{}

func (noopMetrics) RecordSweep(int, int) {}

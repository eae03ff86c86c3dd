package handle_scan

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
)

// UseCase диспетчер RFID-сканов: один скан продвигает бронь на один шаг
// (заезд для active, выезд для checked_in)
type UseCase struct {
	bookingRepo  BookingRepository
	slotRepo     SlotRepository
	lifecycle    Lifecycle
	metrics      Metrics
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	slotRepo SlotRepository,
	lifecycle Lifecycle,
	metrics Metrics,
	logger Logger,
) *UseCase {
	if metrics == nil {
		metrics = noopMetrics{}
	}
	return &UseCase{
		bookingRepo:  bookingRepo,
		slotRepo:     slotRepo,
		lifecycle:    lifecycle,
		metrics:      metrics,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute обрабатывает скан метки
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	tag := strings.TrimSpace(req.Tag)
	if tag == "" {
		uc.metrics.RecordScan("invalid")
		return nil, ErrInvalidInput
	}
	uc.logger.Info("HandleScan: tag=%s source=%s", tag, req.Source)

	// 1. Брони метки, которые могут ответить на скан
	candidates, err := uc.bookingRepo.FindScanCandidates(ctx, tag, uc.timeProvider.Now())
	if err != nil {
		uc.logger.Error("HandleScan: failed to find bookings for tag=%s: %v", tag, err)
		uc.metrics.RecordScan("error")
		return nil, fmt.Errorf("%w: failed to find bookings: %v", ErrInternal, err)
	}

	// 2. Выбор одной брони: машина внутри важнее, затем самая ранняя
	chosen, ambiguous := domain.PickForScan(candidates)
	if chosen == nil {
		uc.logger.Warn("HandleScan: no valid booking for tag=%s", tag)
		uc.metrics.RecordScan("not_found")
		return nil, ErrNoBooking
	}
	if ambiguous {
		uc.logger.Warn("HandleScan: tag=%s matches %d bookings, using booking id=%d (%s)",
			tag, len(candidates), chosen.ID, chosen.Status)
	}

	// 3. Переход по фазе шлагбаума
	booking, err := uc.lifecycle.ScanAdvance(ctx, chosen.ID)
	if err != nil {
		if errors.Is(err, domain.ErrConflict) || errors.Is(err, domain.ErrNotFound) {
			uc.logger.Warn("HandleScan: booking id=%d rejected: %v", chosen.ID, err)
			uc.metrics.RecordScan("rejected")
			return nil, err
		}
		uc.logger.Error("HandleScan: transition failed for booking id=%d: %v", chosen.ID, err)
		uc.metrics.RecordScan("error")
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	resp := &Response{
		BookingID:    booking.ID,
		Name:         booking.Name,
		SlotID:       booking.SlotID,
		Status:       booking.Status,
		CheckInTime:  booking.CheckInTime,
		CheckOutTime: booking.CheckOutTime,
	}

	// Метка слота нужна только для сообщения, ошибка не отменяет переход
	if slot, err := uc.slotRepo.GetByID(ctx, booking.SlotID); err == nil {
		resp.SlotLabel = slot.Label
	} else {
		uc.logger.Warn("HandleScan: failed to load slot id=%d: %v", booking.SlotID, err)
	}

	switch booking.Status {
	case domain.StatusCheckedIn:
		resp.Action = domain.ActionCheckedIn
		resp.Message = fmt.Sprintf("Welcome, %s!", booking.Name)
	case domain.StatusCompleted:
		resp.Action = domain.ActionCompleted
		resp.Message = fmt.Sprintf("Thank you, %s! Come again.", booking.Name)
		if booking.CheckInTime != nil && booking.CheckOutTime != nil {
			resp.Duration = domain.FormatDuration(booking.CheckOutTime.Sub(*booking.CheckInTime))
		}
	}

	uc.metrics.RecordScan(string(resp.Action))
	uc.logger.Info("HandleScan: booking id=%d %s (slot=%s)", booking.ID, resp.Action, resp.SlotLabel)
	return resp, nil
}

type noopMetrics struct{}

func (noopMetrics) RecordScan(string) {}

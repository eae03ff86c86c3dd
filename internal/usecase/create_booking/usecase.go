package create_booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-ParkingService/internal/infra/storage/booking"
)

// UseCase use case для создания бронирования
type UseCase struct {
	bookingRepo  BookingRepository
	slotRepo     SlotRepository
	notifier     Notifier
	txManager    TransactionManager
	metrics      Metrics
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	slotRepo SlotRepository,
	notifier Notifier,
	txManager TransactionManager,
	metrics Metrics,
	logger Logger,
) *UseCase {
	if notifier == nil {
		notifier = noopNotifier{}
	}
	if metrics == nil {
		metrics = noopMetrics{}
	}
	return &UseCase{
		bookingRepo:  bookingRepo,
		slotRepo:     slotRepo,
		notifier:     notifier,
		txManager:    txManager,
		metrics:      metrics,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case создания бронирования.
// Проверки пересечений выполняются под блокировкой строки слота.
// Брони одной метки на разных слотах окончательно отсекает хранилище
// при вставке (ErrTagOverlap)
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	normalizeRequest(req)
	uc.logger.Info("CreateBooking: email=%s, tag=%s, slot=%d, window=%s..%s",
		req.Email, req.RFIDTag, req.SlotID,
		req.StartTime.Format(domain.DateTimeFormat), req.EndTime.Format(domain.DateTimeFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Валидация окна относительно текущего времени
	window := domain.Window{Start: req.StartTime, End: req.EndTime}
	if err := validateWindow(window, uc.timeProvider.Now()); err != nil {
		uc.logger.Warn("CreateBooking: window validation failed: %v", err)
		return nil, err
	}

	var (
		created *domain.Booking
		slot    *domain.Slot
	)

	// 3. Проверки и вставка под блокировкой слота
	err := uc.txManager.Do(ctx, func(txCtx context.Context) error {
		var err error
		slot, err = uc.slotRepo.GetForUpdate(txCtx, req.SlotID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return ErrSlotNotFound
			}
			return fmt.Errorf("%w: failed to lock slot: %v", ErrInternal, err)
		}

		if slot.Occupied {
			return ErrSlotOccupied
		}

		overlapping, err := uc.bookingRepo.FindOverlapping(txCtx, slot.ID, window)
		if err != nil {
			return fmt.Errorf("%w: failed to find overlapping bookings: %v", ErrInternal, err)
		}
		if len(overlapping) > 0 {
			uc.logger.Warn("CreateBooking: slot id=%d overlaps booking id=%d", slot.ID, overlapping[0].ID)
			return ErrOverlap
		}

		sameTag, err := uc.bookingRepo.FindOverlappingByTag(txCtx, req.RFIDTag, window)
		if err != nil {
			return fmt.Errorf("%w: failed to find bookings by tag: %v", ErrInternal, err)
		}
		if len(sameTag) > 0 {
			uc.logger.Warn("CreateBooking: tag=%s already used by booking id=%d", req.RFIDTag, sameTag[0].ID)
			return ErrTagInUse
		}

		created, err = uc.bookingRepo.Create(txCtx, &domain.Booking{
			Name:      req.Name,
			Email:     req.Email,
			RFIDTag:   req.RFIDTag,
			SlotID:    slot.ID,
			StartTime: window.Start,
			EndTime:   window.End,
			Status:    domain.StatusActive,
		})
		if err != nil {
			switch {
			case errors.Is(err, bookingRepo.ErrTagOverlap):
				uc.logger.Warn("CreateBooking: tag=%s taken concurrently", req.RFIDTag)
				return ErrTagInUse
			case errors.Is(err, domain.ErrConflict):
				return ErrOverlap
			}
			return fmt.Errorf("%w: failed to create booking: %v", ErrInternal, err)
		}
		return nil
	})

	if err != nil {
		switch {
		case errors.Is(err, ErrInternal):
			uc.logger.Error("CreateBooking: %v", err)
			uc.metrics.RecordTransition("create", "error")
		case errors.Is(err, domain.ErrConflict), errors.Is(err, domain.ErrNotFound):
			uc.logger.Warn("CreateBooking: rejected: %v", err)
			uc.metrics.RecordTransition("create", "rejected")
		default:
			uc.logger.Error("CreateBooking: transaction failed: %v", err)
			uc.metrics.RecordTransition("create", "error")
			return nil, fmt.Errorf("%w: %v", ErrInternal, err)
		}
		return nil, err
	}

	uc.metrics.RecordTransition("create", "ok")
	uc.logger.Info("CreateBooking: successfully created booking id=%d on slot id=%d", created.ID, slot.ID)

	// 4. Уведомление после коммита, не влияет на результат
	uc.notifier.BookingCreated(created, slot)

	return &Response{
		ID:        created.ID,
		Name:      created.Name,
		Email:     created.Email,
		RFIDTag:   created.RFIDTag,
		SlotID:    created.SlotID,
		SlotLabel: slot.Label,
		StartTime: created.StartTime,
		EndTime:   created.EndTime,
		Status:    string(created.Status),
		CreatedAt: created.CreatedAt,
	}, nil
}

type noopNotifier struct{}

func (noopNotifier) BookingCreated(*domain.Booking, *domain.Slot) {}

type noopMetrics struct{}

func (noopMetrics) RecordTransition(string, string) {}

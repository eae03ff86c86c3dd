package search_slots

import (
	"context"
	"fmt"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
)

// UseCase поиск слотов, свободных на заданное окно
type UseCase struct {
	slotRepo    SlotRepository
	bookingRepo BookingRepository
	logger      Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(slotRepo SlotRepository, bookingRepo BookingRepository, logger Logger) *UseCase {
	return &UseCase{
		slotRepo:    slotRepo,
		bookingRepo: bookingRepo,
		logger:      logger,
	}
}

// Execute возвращает физически свободные слоты без удерживающих броней в окне.
// Активная бронь блокирует слот при пересечении с окном, бронь с машиной
// на месте блокирует его, пока её конец позже начала окна.
// Результат упорядочен по метке слота
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	window := domain.Window{Start: req.StartTime, End: req.EndTime}
	if err := window.Validate(); err != nil {
		uc.logger.Warn("SearchSlots: invalid window: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	resp := &Response{StartTime: window.Start, EndTime: window.End, Slots: []*domain.Slot{}}

	// 1. Физически свободные слоты (repo возвращает их по метке)
	free, err := uc.slotRepo.List(ctx, domain.SlotFilter{OnlyFree: true})
	if err != nil {
		uc.logger.Error("SearchSlots: failed to list free slots: %v", err)
		return nil, fmt.Errorf("%w: failed to list slots: %v", ErrInternal, err)
	}
	if len(free) == 0 {
		uc.logger.Info("SearchSlots: no physically free slots")
		return resp, nil
	}

	// 2. Слоты с удерживающими бронями в окне
	blockingIDs, err := uc.bookingRepo.FindBlockingSlotIDs(ctx, window)
	if err != nil {
		uc.logger.Error("SearchSlots: failed to find blocking bookings: %v", err)
		return nil, fmt.Errorf("%w: failed to find blocking bookings: %v", ErrInternal, err)
	}

	blocked := make(map[int64]struct{}, len(blockingIDs))
	for _, id := range blockingIDs {
		blocked[id] = struct{}{}
	}

	// 3. Разность с сохранением порядка
	for _, slot := range free {
		if _, ok := blocked[slot.ID]; ok {
			continue
		}
		resp.Slots = append(resp.Slots, slot)
	}

	uc.logger.Info("SearchSlots: %d of %d free slots available for %s..%s",
		len(resp.Slots), len(free),
		window.Start.Format(domain.DateTimeFormat), window.End.Format(domain.DateTimeFormat))
	return resp, nil
}

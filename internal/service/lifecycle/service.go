package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
)

// decideFunc выбирает событие для брони в момент now или отклоняет переход
type decideFunc func(b *domain.Booking, now time.Time) (domain.Event, error)

// Service применяет переходы жизненного цикла брони.
// Каждый переход: блокировка слота, повторное чтение брони, проверка,
// compare-and-set статуса и запись занятости слота в одной транзакции
type Service struct {
	bookingRepo  BookingRepository
	slotRepo     SlotRepository
	txManager    TransactionManager
	metrics      Metrics
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса жизненного цикла
func NewService(
	bookingRepo BookingRepository,
	slotRepo SlotRepository,
	txManager TransactionManager,
	metrics Metrics,
	logger Logger,
) *Service {
	if metrics == nil {
		metrics = noopMetrics{}
	}
	return &Service{
		bookingRepo:  bookingRepo,
		slotRepo:     slotRepo,
		txManager:    txManager,
		metrics:      metrics,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// CheckIn заезд: active -> checked_in, слот занят.
// Ручной заезд после конца окна допустим, пока бронь не истекла
func (s *Service) CheckIn(ctx context.Context, bookingID int64) (*domain.Booking, error) {
	return s.transition(ctx, "CheckIn", bookingID, func(b *domain.Booking, now time.Time) (domain.Event, error) {
		if b.Status == domain.StatusActive && now.Before(b.StartTime) {
			return "", ErrEarlyCheckIn
		}
		return domain.EventCheckIn, nil
	})
}

// Complete завершение: выезд из checked_in или истечение просроченной active
func (s *Service) Complete(ctx context.Context, bookingID int64) (*domain.Booking, error) {
	return s.transition(ctx, "Complete", bookingID, func(b *domain.Booking, now time.Time) (domain.Event, error) {
		switch {
		case b.Status == domain.StatusCheckedIn:
			return domain.EventCheckOut, nil
		case b.IsExpired(now):
			return domain.EventExpire, nil
		}
		return "", fmt.Errorf("%w: status %s", ErrCannotComplete, b.Status)
	})
}

// Cancel отмена: только из active, слот освобождается
func (s *Service) Cancel(ctx context.Context, bookingID int64) (*domain.Booking, error) {
	return s.transition(ctx, "Cancel", bookingID, func(b *domain.Booking, now time.Time) (domain.Event, error) {
		return domain.EventCancel, nil
	})
}

// Expire истечение active брони, окно которой закончилось
func (s *Service) Expire(ctx context.Context, bookingID int64) (*domain.Booking, error) {
	return s.transition(ctx, "Expire", bookingID, func(b *domain.Booking, now time.Time) (domain.Event, error) {
		if b.Status == domain.StatusActive && !b.IsExpired(now) {
			return "", ErrNotExpired
		}
		return domain.EventExpire, nil
	})
}

// ScanAdvance переход по скану метки: событие определяется фазой шлагбаума.
// Шлагбаум не впускает по брони, окно которой закончилось
func (s *Service) ScanAdvance(ctx context.Context, bookingID int64) (*domain.Booking, error) {
	return s.transition(ctx, "ScanAdvance", bookingID, func(b *domain.Booking, now time.Time) (domain.Event, error) {
		ev, _, ok := domain.ScanEvent(domain.PhaseOf(b.Status))
		if !ok {
			return "", fmt.Errorf("%w: booking is %s", domain.ErrIllegalTransition, b.Status)
		}
		if ev == domain.EventCheckIn {
			if now.Before(b.StartTime) {
				return "", ErrEarlyCheckIn
			}
			if !now.Before(b.EndTime) {
				return "", ErrWindowOver
			}
		}
		return ev, nil
	})
}

func (s *Service) transition(ctx context.Context, op string, bookingID int64, decide decideFunc) (*domain.Booking, error) {
	var (
		result *domain.Booking
		event  domain.Event
	)

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		// Слот брони не меняется, поэтому его можно узнать до блокировки
		current, err := s.bookingRepo.GetByID(txCtx, bookingID)
		if err != nil {
			return err
		}

		if _, err := s.slotRepo.GetForUpdate(txCtx, current.SlotID); err != nil {
			return err
		}

		// Под блокировкой слота читаем бронь заново
		booking, err := s.bookingRepo.GetByID(txCtx, bookingID)
		if err != nil {
			return err
		}

		now := s.timeProvider.Now()
		ev, err := decide(booking, now)
		if err != nil {
			return err
		}
		event = ev

		to, err := domain.NextStatus(booking.Status, ev)
		if err != nil {
			return err
		}

		change := domain.StatusChange{
			BookingID: booking.ID,
			From:      booking.Status,
			To:        to,
			At:        now,
		}
		switch ev {
		case domain.EventCheckIn:
			change.CheckInTime = &now
		case domain.EventCheckOut, domain.EventExpire:
			change.CheckOutTime = &now
		}

		if err := s.bookingRepo.ApplyStatusChange(txCtx, change); err != nil {
			return err
		}
		occupied, err := s.occupancyAfter(txCtx, booking.SlotID, ev)
		if err != nil {
			return err
		}
		if err := s.slotRepo.SetOccupied(txCtx, booking.SlotID, occupied); err != nil {
			return err
		}

		booking.Status = to
		booking.UpdatedAt = now
		if change.CheckInTime != nil {
			booking.CheckInTime = change.CheckInTime
		}
		if change.CheckOutTime != nil {
			booking.CheckOutTime = change.CheckOutTime
		}
		result = booking
		return nil
	})

	if err != nil {
		return nil, s.fail(op, bookingID, event, err)
	}

	s.metrics.RecordTransition(string(event), "ok")
	s.logger.Info("%s: booking id=%d %s -> %s (slot id=%d)", op, bookingID, event, result.Status, result.SlotID)
	return result, nil
}

// occupancyAfter слот остаётся занятым, пока на нём стоит машина по другой брони
func (s *Service) occupancyAfter(ctx context.Context, slotID int64, ev domain.Event) (bool, error) {
	if domain.SlotOccupancyAfter(ev) {
		return true, nil
	}

	inside, err := s.bookingRepo.List(ctx, domain.BookingFilter{
		SlotID:   &slotID,
		Statuses: []domain.BookingStatus{domain.StatusCheckedIn},
	})
	if err != nil {
		return false, err
	}
	return len(inside) > 0, nil
}

func (s *Service) fail(op string, bookingID int64, event domain.Event, err error) error {
	label := string(event)
	if label == "" {
		label = op
	}

	switch {
	case errors.Is(err, domain.ErrNotFound):
		s.logger.Warn("%s: booking id=%d not found", op, bookingID)
		s.metrics.RecordTransition(label, "rejected")
		return ErrBookingNotFound
	case errors.Is(err, domain.ErrConflict):
		s.logger.Warn("%s: booking id=%d rejected: %v", op, bookingID, err)
		s.metrics.RecordTransition(label, "rejected")
		if errors.Is(err, domain.ErrIllegalTransition) || isLifecycleError(err) {
			return err
		}
		return fmt.Errorf("%w: %v", ErrConcurrentUpdate, err)
	default:
		s.logger.Error("%s: booking id=%d failed: %v", op, bookingID, err)
		s.metrics.RecordTransition(label, "error")
		return fmt.Errorf("%w: %s: %v", ErrInternal, op, err)
	}
}

func isLifecycleError(err error) bool {
	return errors.Is(err, ErrEarlyCheckIn) ||
		errors.Is(err, ErrWindowOver) ||
		errors.Is(err, ErrCannotComplete) ||
		errors.Is(err, ErrNotExpired)
}

type noopMetrics struct{}

func (noopMetrics) RecordTransition(string, string) {}

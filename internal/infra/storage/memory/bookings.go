package memory

import (
	"context"
	"sort"
	"time"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-ParkingService/internal/infra/storage/booking"
)

// BookingRepository репозиторий броней поверх Store
type BookingRepository struct {
	store *Store
}

// NewBookingRepository создает репозиторий броней
func NewBookingRepository(store *Store) *BookingRepository {
	return &BookingRepository{store: store}
}

// Create сохраняет бронь. Как и ограничения в PostgreSQL, отклоняет
// удерживающую бронь, пересекающуюся с другой удерживающей бронью
// того же слота или той же метки
func (r *BookingRepository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if booking.IsHolding() {
		for _, existing := range s.bookings {
			if !existing.IsHolding() || !existing.Window().Overlaps(booking.Window()) {
				continue
			}
			if existing.SlotID == booking.SlotID {
				return nil, bookingRepo.ErrOverlap
			}
			if existing.RFIDTag == booking.RFIDTag {
				return nil, bookingRepo.ErrTagOverlap
			}
		}
	}

	now := s.now()
	s.nextBook++
	stored := copyBooking(booking)
	stored.ID = s.nextBook
	stored.CreatedAt = now
	stored.UpdatedAt = now
	s.bookings[stored.ID] = stored

	return copyBooking(stored), nil
}

// GetByID получает бронь по ID
func (r *BookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.bookings[id]
	if !ok {
		return nil, bookingRepo.ErrBookingNotFound
	}
	return copyBooking(b), nil
}

// List брони по фильтру, новые сверху
func (r *BookingRepository) List(ctx context.Context, filter domain.BookingFilter) ([]*domain.Booking, error) {
	list := r.collect(func(b *domain.Booking) bool {
		if filter.Email != nil && b.Email != *filter.Email {
			return false
		}
		if filter.RFIDTag != nil && b.RFIDTag != *filter.RFIDTag {
			return false
		}
		if filter.SlotID != nil && b.SlotID != *filter.SlotID {
			return false
		}
		if len(filter.Statuses) > 0 && !hasStatus(filter.Statuses, b.Status) {
			return false
		}
		return true
	})

	sort.Slice(list, func(i, j int) bool {
		if !list[i].StartTime.Equal(list[j].StartTime) {
			return list[i].StartTime.After(list[j].StartTime)
		}
		return list[i].ID > list[j].ID
	})
	return list, nil
}

// FindOverlapping удерживающие брони слота, пересекающиеся с окном
func (r *BookingRepository) FindOverlapping(ctx context.Context, slotID int64, window domain.Window) ([]*domain.Booking, error) {
	list := r.collect(func(b *domain.Booking) bool {
		return b.SlotID == slotID && b.IsHolding() && b.Window().Overlaps(window)
	})
	sortByStart(list)
	return list, nil
}

// FindOverlappingByTag удерживающие брони метки, пересекающиеся с окном
func (r *BookingRepository) FindOverlappingByTag(ctx context.Context, tag string, window domain.Window) ([]*domain.Booking, error) {
	list := r.collect(func(b *domain.Booking) bool {
		return b.RFIDTag == tag && b.IsHolding() && b.Window().Overlaps(window)
	})
	sortByStart(list)
	return list, nil
}

// FindBlockingSlotIDs слоты, недоступные в окне
func (r *BookingRepository) FindBlockingSlotIDs(ctx context.Context, window domain.Window) ([]int64, error) {
	list := r.collect(func(b *domain.Booking) bool {
		switch b.Status {
		case domain.StatusActive:
			return b.Window().Overlaps(window)
		case domain.StatusCheckedIn:
			return b.EndTime.After(window.Start)
		}
		return false
	})

	seen := make(map[int64]struct{}, len(list))
	ids := make([]int64, 0, len(list))
	for _, b := range list {
		if _, ok := seen[b.SlotID]; ok {
			continue
		}
		seen[b.SlotID] = struct{}{}
		ids = append(ids, b.SlotID)
	}
	return ids, nil
}

// FindScanCandidates брони метки, которые могут ответить на скан в момент now
func (r *BookingRepository) FindScanCandidates(ctx context.Context, tag string, now time.Time) ([]*domain.Booking, error) {
	list := r.collect(func(b *domain.Booking) bool {
		return b.RFIDTag == tag && domain.IsScanRelevant(b, now)
	})
	sortByStart(list)
	return list, nil
}

// FindExpired активные брони, окно которых закончилось до now
func (r *BookingRepository) FindExpired(ctx context.Context, now time.Time) ([]*domain.Booking, error) {
	list := r.collect(func(b *domain.Booking) bool {
		return b.IsExpired(now)
	})
	sort.Slice(list, func(i, j int) bool {
		if !list[i].EndTime.Equal(list[j].EndTime) {
			return list[i].EndTime.Before(list[j].EndTime)
		}
		return list[i].ID < list[j].ID
	})
	return list, nil
}

// ApplyStatusChange compare-and-set обновление статуса
func (r *BookingRepository) ApplyStatusChange(ctx context.Context, change domain.StatusChange) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.bookings[change.BookingID]
	if !ok || b.Status != change.From {
		return bookingRepo.ErrStatusChanged
	}

	b.Status = change.To
	b.UpdatedAt = change.At
	if change.CheckInTime != nil {
		t := *change.CheckInTime
		b.CheckInTime = &t
	}
	if change.CheckOutTime != nil {
		t := *change.CheckOutTime
		b.CheckOutTime = &t
	}
	return nil
}

func (r *BookingRepository) collect(match func(b *domain.Booking) bool) []*domain.Booking {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := make([]*domain.Booking, 0)
	for _, b := range s.bookings {
		if match(b) {
			list = append(list, copyBooking(b))
		}
	}
	return list
}

func sortByStart(list []*domain.Booking) {
	sort.Slice(list, func(i, j int) bool {
		if !list[i].StartTime.Equal(list[j].StartTime) {
			return list[i].StartTime.Before(list[j].StartTime)
		}
		return list[i].ID < list[j].ID
	})
}

func hasStatus(statuses []domain.BookingStatus, status domain.BookingStatus) bool {
	for _, s := range statuses {
		if s == status {
			return true
		}
	}
	return false
}

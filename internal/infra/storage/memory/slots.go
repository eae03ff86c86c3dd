package memory

import (
	"context"
	"sort"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
	slotRepo "github.com/m04kA/SMC-ParkingService/internal/infra/storage/slot"
)

// SlotRepository репозиторий слотов поверх Store
type SlotRepository struct {
	store *Store
}

// NewSlotRepository создает репозиторий слотов
func NewSlotRepository(store *Store) *SlotRepository {
	return &SlotRepository{store: store}
}

// Create создает слот с уникальной меткой
func (r *SlotRepository) Create(ctx context.Context, slot *domain.Slot) (*domain.Slot, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.slots {
		if existing.Label == slot.Label {
			return nil, slotRepo.ErrLabelTaken
		}
	}

	now := s.now()
	s.nextSlot++
	stored := copySlot(slot)
	stored.ID = s.nextSlot
	stored.CreatedAt = now
	stored.UpdatedAt = now
	s.slots[stored.ID] = stored

	return copySlot(stored), nil
}

// GetByID получает слот по ID
func (r *SlotRepository) GetByID(ctx context.Context, id int64) (*domain.Slot, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	slot, ok := s.slots[id]
	if !ok {
		return nil, slotRepo.ErrSlotNotFound
	}
	return copySlot(slot), nil
}

// GetForUpdate блокирует слот до конца TxManager.Do и возвращает его
func (r *SlotRepository) GetForUpdate(ctx context.Context, id int64) (*domain.Slot, error) {
	if _, err := r.GetByID(ctx, id); err != nil {
		return nil, err
	}
	if err := r.store.lockSlot(ctx, id); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

// List возвращает слоты, упорядоченные по метке
func (r *SlotRepository) List(ctx context.Context, filter domain.SlotFilter) ([]*domain.Slot, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	slots := make([]*domain.Slot, 0, len(s.slots))
	for _, slot := range s.slots {
		if filter.OnlyFree && slot.Occupied {
			continue
		}
		slots = append(slots, copySlot(slot))
	}
	sort.Slice(slots, func(i, j int) bool { return slots[i].Label < slots[j].Label })

	return slots, nil
}

// SetOccupied записывает физическую занятость слота
func (r *SlotRepository) SetOccupied(ctx context.Context, id int64, occupied bool) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	slot, ok := s.slots[id]
	if !ok {
		return slotRepo.ErrSlotNotFound
	}
	slot.Occupied = occupied
	slot.UpdatedAt = s.now()
	return nil
}

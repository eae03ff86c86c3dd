package domain

import "time"

// Slot represents a physical parking place
type Slot struct {
	ID    int64
	Label string
	// Occupied показания датчика/шлагбаума, а не наличие брони
	Occupied  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// SlotFilter фильтр списка слотов
type SlotFilter struct {
	OnlyFree bool // только физически свободные
}

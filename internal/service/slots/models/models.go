package models

import (
	"time"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
)

// CreateSlotRequest запрос на создание слота
type CreateSlotRequest struct {
	Label string `json:"slotNumber"`
}

// SlotResponse ответ с данными слота
type SlotResponse struct {
	ID        int64     `json:"id"`
	Label     string    `json:"slotNumber"`
	Occupied  bool      `json:"isOccupied"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// SlotListResponse ответ со списком слотов
type SlotListResponse struct {
	Slots []SlotResponse `json:"slots"`
}

// FromDomainSlot конвертирует domain модель в DTO
func FromDomainSlot(s *domain.Slot) *SlotResponse {
	if s == nil {
		return nil
	}
	return &SlotResponse{
		ID:        s.ID,
		Label:     s.Label,
		Occupied:  s.Occupied,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

// FromDomainSlotList конвертирует список слотов в DTO
func FromDomainSlotList(slots []*domain.Slot) *SlotListResponse {
	resp := &SlotListResponse{Slots: make([]SlotResponse, 0, len(slots))}
	for _, s := range slots {
		resp.Slots = append(resp.Slots, *FromDomainSlot(s))
	}
	return resp
}

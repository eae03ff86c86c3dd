package search_slots

import (
	"time"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
)

// Request окно, для которого ищутся свободные слоты
type Request struct {
	StartTime time.Time
	EndTime   time.Time
}

// Response слоты, которые можно забронировать на всё окно
type Response struct {
	StartTime time.Time
	EndTime   time.Time
	Slots     []*domain.Slot
}

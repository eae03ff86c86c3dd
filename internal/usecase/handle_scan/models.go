package handle_scan

import (
	"time"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
)

// Request скан RFID-метки на шлагбауме
type Request struct {
	Tag    string
	Source string // шлагбаум или "http"
}

// Response результат скана
type Response struct {
	BookingID    int64
	Name         string
	SlotID       int64
	SlotLabel    string
	Action       domain.ScanAction
	Status       domain.BookingStatus
	Message      string
	CheckInTime  *time.Time
	CheckOutTime *time.Time
	Duration     string // только при выезде, формат "1h 30m"
}

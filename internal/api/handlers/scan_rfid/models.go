package scan_rfid

import (
	"time"

	"github.com/m04kA/SMC-ParkingService/internal/usecase/handle_scan"
)

// ScanResponse HTTP response model
type ScanResponse struct {
	BookingID    int64      `json:"bookingId"`
	Name         string     `json:"name"`
	SlotID       int64      `json:"slotId"`
	SlotNumber   string     `json:"slotNumber,omitempty"`
	Action       string     `json:"action"`
	Status       string     `json:"status"`
	Message      string     `json:"message"`
	CheckInTime  *time.Time `json:"checkInTime,omitempty"`
	CheckOutTime *time.Time `json:"checkOutTime,omitempty"`
	Duration     string     `json:"duration,omitempty"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *handle_scan.Response) *ScanResponse {
	return &ScanResponse{
		BookingID:    resp.BookingID,
		Name:         resp.Name,
		SlotID:       resp.SlotID,
		SlotNumber:   resp.SlotLabel,
		Action:       string(resp.Action),
		Status:       string(resp.Status),
		Message:      resp.Message,
		CheckInTime:  resp.CheckInTime,
		CheckOutTime: resp.CheckOutTime,
		Duration:     resp.Duration,
	}
}

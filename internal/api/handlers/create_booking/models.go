package create_booking

import (
	"time"

	createBooking "github.com/m04kA/SMC-ParkingService/internal/usecase/create_booking"
)

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	RFIDTag   string `json:"rfidTag"`
	SlotID    int64  `json:"slotId"`
	StartTime string `json:"startTime"` // RFC3339, "2026-03-10T10:00:00Z"
	EndTime   string `json:"endTime"`
}

// BookingResponse HTTP response model
type BookingResponse struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	RFIDTag    string `json:"rfidTag"`
	SlotID     int64  `json:"slotId"`
	SlotNumber string `json:"slotNumber"`
	StartTime  string `json:"startTime"`
	EndTime    string `json:"endTime"`
	Status     string `json:"status"`
	CreatedAt  string `json:"createdAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateBookingRequest) ToUseCaseRequest() (*createBooking.Request, error) {
	start, err := time.Parse(time.RFC3339, r.StartTime)
	if err != nil {
		return nil, err
	}
	end, err := time.Parse(time.RFC3339, r.EndTime)
	if err != nil {
		return nil, err
	}

	return &createBooking.Request{
		Name:      r.Name,
		Email:     r.Email,
		RFIDTag:   r.RFIDTag,
		SlotID:    r.SlotID,
		StartTime: start,
		EndTime:   end,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createBooking.Response) *BookingResponse {
	return &BookingResponse{
		ID:         resp.ID,
		Name:       resp.Name,
		Email:      resp.Email,
		RFIDTag:    resp.RFIDTag,
		SlotID:     resp.SlotID,
		SlotNumber: resp.SlotLabel,
		StartTime:  resp.StartTime.Format(time.RFC3339),
		EndTime:    resp.EndTime.Format(time.RFC3339),
		Status:     resp.Status,
		CreatedAt:  resp.CreatedAt.Format(time.RFC3339),
	}
}

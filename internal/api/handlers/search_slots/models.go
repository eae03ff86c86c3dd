package search_slots

import (
	"time"

	"github.com/m04kA/SMC-ParkingService/internal/service/slots/models"
	searchSlots "github.com/m04kA/SMC-ParkingService/internal/usecase/search_slots"
)

// SearchSlotsRequest HTTP request model
type SearchSlotsRequest struct {
	StartTime string `json:"startTime"` // RFC3339
	EndTime   string `json:"endTime"`
}

// SearchSlotsResponse HTTP response model
type SearchSlotsResponse struct {
	StartTime string                `json:"startTime"`
	EndTime   string                `json:"endTime"`
	Slots     []models.SlotResponse `json:"slots"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *SearchSlotsRequest) ToUseCaseRequest() (*searchSlots.Request, error) {
	start, err := time.Parse(time.RFC3339, r.StartTime)
	if err != nil {
		return nil, err
	}
	end, err := time.Parse(time.RFC3339, r.EndTime)
	if err != nil {
		return nil, err
	}
	return &searchSlots.Request{StartTime: start, EndTime: end}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *searchSlots.Response) *SearchSlotsResponse {
	return &SearchSlotsResponse{
		StartTime: resp.StartTime.Format(time.RFC3339),
		EndTime:   resp.EndTime.Format(time.RFC3339),
		Slots:     models.FromDomainSlotList(resp.Slots).Slots,
	}
}

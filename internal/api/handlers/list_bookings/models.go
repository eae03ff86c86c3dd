package list_bookings

import (
	"net/url"
	"strconv"

	"github.com/m04kA/SMC-ParkingService/internal/service/bookings/models"
	"github.com/m04kA/SMC-ParkingService/pkg/ptr"
)

// parseFilter собирает фильтр из query: email, rfidTag, slotId, status
func parseFilter(q url.Values) (*models.ListBookingsRequest, error) {
	req := &models.ListBookingsRequest{}

	if v := q.Get("email"); v != "" {
		req.Email = ptr.Ptr(v)
	}
	if v := q.Get("rfidTag"); v != "" {
		req.RFIDTag = ptr.Ptr(v)
	}
	if v := q.Get("status"); v != "" {
		req.Status = ptr.Ptr(v)
	}
	if v := q.Get("slotId"); v != "" {
		slotID, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, err
		}
		req.SlotID = ptr.Ptr(slotID)
	}

	return req, nil
}

package set_slot_occupancy

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ParkingService/internal/api/handlers"
	"github.com/m04kA/SMC-ParkingService/internal/service/slots"
)

const (
	msgInvalidSlotID      = "некорректный ID парковочного места"
	msgInvalidRequestBody = "некорректное тело запроса, ожидается occupied"
	msgNotFound           = "парковочное место не найдено"
)

// SetOccupancyRequest HTTP request model.
// isOccupied принимается как синоним, в тон полю ответа
type SetOccupancyRequest struct {
	Occupied   *bool `json:"occupied"`
	IsOccupied *bool `json:"isOccupied"`
}

func (r SetOccupancyRequest) value() *bool {
	if r.Occupied != nil {
		return r.Occupied
	}
	return r.IsOccupied
}

type Handler struct {
	service SlotService
	logger  Logger
}

func NewHandler(service SlotService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/slots/{slotId}/occupy
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	slotID, err := handlers.PathInt64(r, "slotId")
	if err != nil {
		h.logger.Warn("PATCH /slots/{id}/occupy - Invalid slot ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidSlotID)
		return
	}

	var req SetOccupancyRequest
	if err := handlers.DecodeJSON(r, &req); err != nil || req.value() == nil {
		h.logger.Warn("PATCH /slots/{id}/occupy - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	slot, err := h.service.SetOccupied(r.Context(), slotID, *req.value())
	if err != nil {
		switch {
		case errors.Is(err, slots.ErrSlotNotFound):
			h.logger.Warn("PATCH /slots/{id}/occupy - Slot not found: slot_id=%d", slotID)
			handlers.RespondNotFound(w, msgNotFound)

		default:
			h.logger.Error("PATCH /slots/{id}/occupy - Failed to update slot: slot_id=%d, error=%v", slotID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /slots/{id}/occupy - Slot updated: slot_id=%d, occupied=%t", slotID, slot.Occupied)
	handlers.RespondJSON(w, http.StatusOK, slot)
}

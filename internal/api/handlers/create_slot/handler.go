package create_slot

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ParkingService/internal/api/handlers"
	"github.com/m04kA/SMC-ParkingService/internal/service/slots"
	"github.com/m04kA/SMC-ParkingService/internal/service/slots/models"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidLabel       = "номер места должен содержать от 1 до 10 символов"
	msgLabelTaken         = "место с таким номером уже существует"
)

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

// Handle POST /api/v1/slots
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req models.CreateSlotRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /slots - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	slot, err := h.service.Create(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, slots.ErrInvalidLabel):
			h.logger.Warn("POST /slots - Invalid label: %q", req.Label)
			handlers.RespondBadRequest(w, msgInvalidLabel)

		case errors.Is(err, slots.ErrLabelTaken):
			h.logger.Warn("POST /slots - Label taken: %q", req.Label)
			handlers.RespondConflict(w, msgLabelTaken)

		default:
			h.logger.Error("POST /slots - Failed to create slot: error=%v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /slots - Slot created successfully: slot_id=%d, label=%s", slot.ID, slot.Label)
	handlers.RespondJSON(w, http.StatusCreated, slot)
}

package list_slots

import (
	"net/http"

	"github.com/m04kA/SMC-ParkingService/internal/api/handlers"
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

// Handle GET /api/v1/slots
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, "GET /slots", false)
}

// HandleAvailable GET /api/v1/slots/available
// Только физически свободные места, без учёта будущих броней
func (h *Handler) HandleAvailable(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, "GET /slots/available", true)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request, route string, onlyFree bool) {
	result, err := h.service.List(r.Context(), onlyFree)
	if err != nil {
		h.logger.Error("%s - Failed to list slots: error=%v", route, err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

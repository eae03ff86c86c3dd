package get_booking_by_tag

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ParkingService/internal/api/handlers"
	"github.com/m04kA/SMC-ParkingService/internal/service/bookings"
	"github.com/m04kA/SMC-ParkingService/internal/service/bookings/models"
)

const (
	msgInvalidTag = "некорректная RFID-метка"
	msgNotFound   = "для этой RFID-метки нет действующей брони"
)

type Handler struct {
	service BookingService
	logger  Logger
}

func NewHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/bookings/rfid/{tag}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	tag := mux.Vars(r)["tag"]

	booking, err := h.service.FindByTag(r.Context(), tag)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrInvalidInput):
			h.logger.Warn("GET /bookings/rfid/{tag} - Invalid tag: %v", err)
			handlers.RespondBadRequest(w, msgInvalidTag)

		case errors.Is(err, bookings.ErrNoBookingForTag):
			h.logger.Warn("GET /bookings/rfid/{tag} - No booking: tag=%s", tag)
			handlers.RespondNotFound(w, msgNotFound)

		default:
			h.logger.Error("GET /bookings/rfid/{tag} - Failed to find booking: tag=%s, error=%v", tag, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, booking)
}

// HandleVerify GET /api/v1/bookings/verify-rfid/{tag}
// Метка без действующей брони даёт 200 с valid=false
func (h *Handler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	tag := mux.Vars(r)["tag"]

	result, err := h.service.VerifyTag(r.Context(), tag)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrInvalidInput):
			h.logger.Warn("GET /bookings/verify-rfid/{tag} - Invalid tag: %v", err)
			handlers.RespondBadRequest(w, msgInvalidTag)

		case errors.Is(err, bookings.ErrNoBookingForTag):
			h.logger.Info("GET /bookings/verify-rfid/{tag} - Tag not valid: tag=%s", tag)
			handlers.RespondJSON(w, http.StatusOK, &models.VerifyTagResponse{Valid: false})

		default:
			h.logger.Error("GET /bookings/verify-rfid/{tag} - Failed to verify tag: tag=%s, error=%v", tag, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

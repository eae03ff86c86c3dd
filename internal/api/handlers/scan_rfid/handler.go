package scan_rfid

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ParkingService/internal/api/handlers"
	"github.com/m04kA/SMC-ParkingService/internal/domain"
	"github.com/m04kA/SMC-ParkingService/internal/service/lifecycle"
	"github.com/m04kA/SMC-ParkingService/internal/usecase/handle_scan"
)

const (
	msgInvalidTag   = "некорректная RFID-метка"
	msgNoBooking    = "для этой RFID-метки нет действующей брони"
	msgEarlyCheckIn = "время брони ещё не наступило"
	msgWindowOver   = "время брони истекло"
	msgRejected     = "скан отклонён"
	msgRepeatedScan = "повторный скан, подождите несколько секунд"
)

type Handler struct {
	useCase ScanUseCase
	guard   Guard
	logger  Logger
}

// NewHandler guard может быть nil
func NewHandler(useCase ScanUseCase, guard Guard, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		guard:   guard,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/bookings/scan-rfid/{tag}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	tag := mux.Vars(r)["tag"]

	if h.guard != nil && tag != "" {
		allowed, err := h.guard.Allow(r.Context(), tag)
		if err != nil {
			h.logger.Warn("PATCH /bookings/scan-rfid/{tag} - Scan guard unavailable: %v", err)
		} else if !allowed {
			h.logger.Info("PATCH /bookings/scan-rfid/{tag} - Repeated scan: tag=%s", tag)
			handlers.RespondTooManyRequests(w, msgRepeatedScan)
			return
		}
	}

	result, err := h.useCase.Execute(r.Context(), &handle_scan.Request{Tag: tag, Source: "http"})
	if err != nil {
		switch {
		case errors.Is(err, handle_scan.ErrInvalidInput):
			h.logger.Warn("PATCH /bookings/scan-rfid/{tag} - Invalid tag")
			handlers.RespondBadRequest(w, msgInvalidTag)

		case errors.Is(err, domain.ErrNotFound):
			h.logger.Warn("PATCH /bookings/scan-rfid/{tag} - No booking: tag=%s", tag)
			handlers.RespondNotFound(w, msgNoBooking)

		case errors.Is(err, lifecycle.ErrEarlyCheckIn):
			handlers.RespondConflict(w, msgEarlyCheckIn)

		case errors.Is(err, lifecycle.ErrWindowOver):
			handlers.RespondConflict(w, msgWindowOver)

		case errors.Is(err, domain.ErrConflict):
			h.logger.Warn("PATCH /bookings/scan-rfid/{tag} - Rejected: tag=%s: %v", tag, err)
			handlers.RespondConflict(w, msgRejected)

		default:
			h.logger.Error("PATCH /bookings/scan-rfid/{tag} - Scan failed: tag=%s, error=%v", tag, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /bookings/scan-rfid/{tag} - %s: booking_id=%d", result.Action, result.BookingID)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}

package booking_transition

import (
	"context"
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ParkingService/internal/api/handlers"
	"github.com/m04kA/SMC-ParkingService/internal/domain"
	"github.com/m04kA/SMC-ParkingService/internal/service/bookings/models"
	"github.com/m04kA/SMC-ParkingService/internal/service/lifecycle"
)

const (
	msgInvalidBookingID   = "некорректный ID бронирования"
	msgNotFound           = "бронирование не найдено"
	msgEarlyCheckIn       = "время брони ещё не наступило"
	msgCannotCheckIn      = "заезд по этой брони невозможен"
	msgCannotComplete     = "бронирование не может быть завершено"
	msgCannotCancel       = "бронирование не может быть отменено"
	msgConcurrentModified = "бронирование было изменено, повторите запрос"
)

type transitionFunc func(ctx context.Context, bookingID int64) (*domain.Booking, error)

type Handler struct {
	lifecycle Lifecycle
	logger    Logger
}

func NewHandler(lifecycle Lifecycle, logger Logger) *Handler {
	return &Handler{
		lifecycle: lifecycle,
		logger:    logger,
	}
}

// HandleCheckIn PATCH /api/v1/bookings/{bookingId}/check-in
func (h *Handler) HandleCheckIn(w http.ResponseWriter, r *http.Request) {
	h.handle(w, r, "PATCH /bookings/{id}/check-in", h.lifecycle.CheckIn, msgCannotCheckIn)
}

// HandleComplete PATCH /api/v1/bookings/{bookingId}/complete
func (h *Handler) HandleComplete(w http.ResponseWriter, r *http.Request) {
	h.handle(w, r, "PATCH /bookings/{id}/complete", h.lifecycle.Complete, msgCannotComplete)
}

// HandleCancel PATCH /api/v1/bookings/{bookingId}/cancel и DELETE /api/v1/bookings/{bookingId}
func (h *Handler) HandleCancel(w http.ResponseWriter, r *http.Request) {
	route := "PATCH /bookings/{id}/cancel"
	if r.Method == http.MethodDelete {
		route = "DELETE /bookings/{id}"
	}
	h.handle(w, r, route, h.lifecycle.Cancel, msgCannotCancel)
}

func (h *Handler) handle(w http.ResponseWriter, r *http.Request, route string, transition transitionFunc, msgRejected string) {
	bookingID, err := handlers.PathInt64(r, "bookingId")
	if err != nil {
		h.logger.Warn("%s - Invalid booking ID: %v", route, err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	booking, err := transition(r.Context(), bookingID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			h.logger.Warn("%s - Booking not found: booking_id=%d", route, bookingID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, lifecycle.ErrEarlyCheckIn):
			h.logger.Warn("%s - Too early: booking_id=%d", route, bookingID)
			handlers.RespondConflict(w, msgEarlyCheckIn)

		case errors.Is(err, lifecycle.ErrConcurrentUpdate):
			h.logger.Warn("%s - Concurrent update: booking_id=%d", route, bookingID)
			handlers.RespondConflict(w, msgConcurrentModified)

		case errors.Is(err, domain.ErrConflict):
			h.logger.Warn("%s - Rejected: booking_id=%d: %v", route, bookingID, err)
			handlers.RespondConflict(w, msgRejected)

		default:
			h.logger.Error("%s - Transition failed: booking_id=%d, error=%v", route, bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("%s - Booking updated: booking_id=%d, status=%s", route, booking.ID, booking.Status)
	handlers.RespondJSON(w, http.StatusOK, models.FromDomainBooking(booking))
}

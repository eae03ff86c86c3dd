package export_bookings

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/m04kA/SMC-ParkingService/internal/api/handlers"
	"github.com/m04kA/SMC-ParkingService/internal/domain"
	"github.com/m04kA/SMC-ParkingService/internal/service/reports"
	"github.com/m04kA/SMC-ParkingService/pkg/ptr"
)

const (
	msgInvalidFilter = "некорректные параметры фильтра"
)

type Handler struct {
	service ReportService
	logger  Logger
}

func NewHandler(service ReportService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/admin/bookings/export?status=&email=&slotId=
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r)
	if err != nil {
		h.logger.Warn("GET /admin/bookings/export - Invalid query: %v", err)
		handlers.RespondBadRequest(w, msgInvalidFilter)
		return
	}

	data, err := h.service.ExportBookings(r.Context(), filter)
	if err != nil {
		switch {
		case errors.Is(err, reports.ErrInvalidInput):
			h.logger.Warn("GET /admin/bookings/export - Invalid filter: %v", err)
			handlers.RespondBadRequest(w, msgInvalidFilter)

		default:
			h.logger.Error("GET /admin/bookings/export - Export failed: error=%v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	w.Header().Set("Content-Type", reports.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", h.service.FileName()))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		h.logger.Warn("GET /admin/bookings/export - Failed to write response: %v", err)
	}
}

func parseFilter(r *http.Request) (domain.BookingFilter, error) {
	q := r.URL.Query()
	filter := domain.BookingFilter{}

	if v := q.Get("email"); v != "" {
		filter.Email = ptr.Ptr(v)
	}
	for _, st := range q["status"] {
		filter.Statuses = append(filter.Statuses, domain.BookingStatus(st))
	}
	if v := q.Get("slotId"); v != "" {
		slotID, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return filter, err
		}
		filter.SlotID = ptr.Ptr(slotID)
	}

	return filter, nil
}

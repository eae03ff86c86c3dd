package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/m04kA/SMC-ParkingService/internal/api/handlers"
	bookingTransitionHandler "github.com/m04kA/SMC-ParkingService/internal/api/handlers/booking_transition"
	createBookingHandler "github.com/m04kA/SMC-ParkingService/internal/api/handlers/create_booking"
	createSlotHandler "github.com/m04kA/SMC-ParkingService/internal/api/handlers/create_slot"
	exportBookingsHandler "github.com/m04kA/SMC-ParkingService/internal/api/handlers/export_bookings"
	getBookingHandler "github.com/m04kA/SMC-ParkingService/internal/api/handlers/get_booking"
	getBookingByTagHandler "github.com/m04kA/SMC-ParkingService/internal/api/handlers/get_booking_by_tag"
	getSlotHandler "github.com/m04kA/SMC-ParkingService/internal/api/handlers/get_slot"
	getUserHandler "github.com/m04kA/SMC-ParkingService/internal/api/handlers/get_user"
	getUserBookingsHandler "github.com/m04kA/SMC-ParkingService/internal/api/handlers/get_user_bookings"
	listBookingsHandler "github.com/m04kA/SMC-ParkingService/internal/api/handlers/list_bookings"
	listSlotsHandler "github.com/m04kA/SMC-ParkingService/internal/api/handlers/list_slots"
	listUsersHandler "github.com/m04kA/SMC-ParkingService/internal/api/handlers/list_users"
	registerUserHandler "github.com/m04kA/SMC-ParkingService/internal/api/handlers/register_user"
	runCleanupHandler "github.com/m04kA/SMC-ParkingService/internal/api/handlers/run_cleanup"
	scanRFIDHandler "github.com/m04kA/SMC-ParkingService/internal/api/handlers/scan_rfid"
	searchSlotsHandler "github.com/m04kA/SMC-ParkingService/internal/api/handlers/search_slots"
	setSlotOccupancyHandler "github.com/m04kA/SMC-ParkingService/internal/api/handlers/set_slot_occupancy"
	"github.com/m04kA/SMC-ParkingService/internal/api/middleware"
)

// Handlers все HTTP обработчики сервиса
type Handlers struct {
	CreateBooking     *createBookingHandler.Handler
	GetBooking        *getBookingHandler.Handler
	ListBookings      *listBookingsHandler.Handler
	GetUserBookings   *getUserBookingsHandler.Handler
	GetBookingByTag   *getBookingByTagHandler.Handler
	BookingTransition *bookingTransitionHandler.Handler
	ScanRFID          *scanRFIDHandler.Handler
	RunCleanup        *runCleanupHandler.Handler
	ExportBookings    *exportBookingsHandler.Handler

	ListSlots        *listSlotsHandler.Handler
	CreateSlot       *createSlotHandler.Handler
	GetSlot          *getSlotHandler.Handler
	SetSlotOccupancy *setSlotOccupancyHandler.Handler
	SearchSlots      *searchSlotsHandler.Handler

	RegisterUser *registerUserHandler.Handler
	ListUsers    *listUsersHandler.Handler
	GetUser      *getUserHandler.Handler
}

// Options необязательные части роутера; nil поля отключают соответствующий middleware
type Options struct {
	Metrics     middleware.HTTPMetrics
	MetricsPath string
	RateLimiter *middleware.IPRateLimiter
	AccessLog   middleware.Logger
}

// NewRouter собирает маршруты /api/v1, /health и endpoint метрик
func NewRouter(h *Handlers, opts Options) *mux.Router {
	r := mux.NewRouter()
	r.Use(middleware.RequestID)
	if opts.AccessLog != nil {
		r.Use(middleware.AccessLog(opts.AccessLog))
	}
	if opts.Metrics != nil {
		r.Use(middleware.Metrics(opts.Metrics))
	}

	r.HandleFunc("/health", health).Methods(http.MethodGet)
	if opts.MetricsPath != "" {
		r.Handle(opts.MetricsPath, promhttp.Handler()).Methods(http.MethodGet)
	}

	api := r.PathPrefix("/api/v1").Subrouter()
	if opts.RateLimiter != nil {
		api.Use(middleware.RateLimit(opts.RateLimiter))
	}

	// --- Бронирования ---
	// Статические пути регистрируются раньше /bookings/{bookingId}
	api.HandleFunc("/bookings", h.CreateBooking.Handle).Methods(http.MethodPost)
	api.HandleFunc("/bookings", h.ListBookings.Handle).Methods(http.MethodGet)
	api.HandleFunc("/bookings/active", h.ListBookings.HandleActive).Methods(http.MethodGet)
	api.HandleFunc("/bookings/rfid/{tag}", h.GetBookingByTag.Handle).Methods(http.MethodGet)
	api.HandleFunc("/bookings/verify-rfid/{tag}", h.GetBookingByTag.HandleVerify).Methods(http.MethodGet)
	api.HandleFunc("/bookings/scan-rfid/{tag}", h.ScanRFID.Handle).Methods(http.MethodPatch)

	api.HandleFunc("/bookings/{bookingId}", h.GetBooking.Handle).Methods(http.MethodGet)
	api.HandleFunc("/bookings/{bookingId}", h.BookingTransition.HandleCancel).Methods(http.MethodDelete)
	api.HandleFunc("/bookings/{bookingId}/check-in", h.BookingTransition.HandleCheckIn).Methods(http.MethodPatch)
	api.HandleFunc("/bookings/{bookingId}/complete", h.BookingTransition.HandleComplete).Methods(http.MethodPatch)
	api.HandleFunc("/bookings/{bookingId}/cancel", h.BookingTransition.HandleCancel).Methods(http.MethodPatch)

	// --- Пользователи ---
	api.HandleFunc("/users", h.ListUsers.Handle).Methods(http.MethodGet)
	api.HandleFunc("/users/register", h.RegisterUser.Handle).Methods(http.MethodPost)
	api.HandleFunc("/users/rfid/{uid}", h.GetUser.HandleByUID).Methods(http.MethodGet)
	api.HandleFunc("/users/{userId:[0-9]+}", h.GetUser.Handle).Methods(http.MethodGet)
	api.HandleFunc("/users/{email}/bookings", h.GetUserBookings.Handle).Methods(http.MethodGet)

	// --- Парковочные места ---
	api.HandleFunc("/slots", h.ListSlots.Handle).Methods(http.MethodGet)
	api.HandleFunc("/slots", h.CreateSlot.Handle).Methods(http.MethodPost)
	api.HandleFunc("/slots/available", h.ListSlots.HandleAvailable).Methods(http.MethodGet)
	api.HandleFunc("/slots/search", h.SearchSlots.Handle).Methods(http.MethodPost)
	api.HandleFunc("/slots/{slotId}", h.GetSlot.Handle).Methods(http.MethodGet)
	api.HandleFunc("/slots/{slotId}/occupy", h.SetSlotOccupancy.Handle).Methods(http.MethodPatch)

	// --- Обслуживание ---
	api.HandleFunc("/maintenance/cleanup", h.RunCleanup.Handle).Methods(http.MethodPost)
	api.HandleFunc("/admin/bookings/export", h.ExportBookings.Handle).Methods(http.MethodGet)

	return r
}

func health(w http.ResponseWriter, _ *http.Request) {
	handlers.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

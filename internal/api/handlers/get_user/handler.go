package get_user

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ParkingService/internal/api/handlers"
	"github.com/m04kA/SMC-ParkingService/internal/service/users"
	"github.com/m04kA/SMC-ParkingService/internal/service/users/models"
)

const (
	msgInvalidUserID = "некорректный ID пользователя"
	msgUIDRequired   = "RFID метка обязательна"
	msgNotFound      = "пользователь не найден"
)

type Handler struct {
	service UserService
	logger  Logger
}

func NewHandler(service UserService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/users/{userId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, err := handlers.PathInt64(r, "userId")
	if err != nil {
		h.logger.Warn("GET /users/{id} - Invalid user ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidUserID)
		return
	}

	user, err := h.service.Get(r.Context(), userID)
	h.respond(w, "GET /users/{id}", user, err)
}

// HandleByUID GET /api/v1/users/rfid/{uid}
func (h *Handler) HandleByUID(w http.ResponseWriter, r *http.Request) {
	uid := mux.Vars(r)["uid"]

	user, err := h.service.GetByUID(r.Context(), uid)
	h.respond(w, "GET /users/rfid/{uid}", user, err)
}

func (h *Handler) respond(w http.ResponseWriter, route string, user *models.UserResponse, err error) {
	if err != nil {
		switch {
		case errors.Is(err, users.ErrInvalidInput):
			h.logger.Warn("%s - Invalid input: %v", route, err)
			handlers.RespondBadRequest(w, msgUIDRequired)

		case errors.Is(err, users.ErrUserNotFound):
			h.logger.Warn("%s - User not found: %v", route, err)
			handlers.RespondNotFound(w, msgNotFound)

		default:
			h.logger.Error("%s - Failed to get user: error=%v", route, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, user)
}

package run_cleanup

import (
	"net/http"

	"github.com/m04kA/SMC-ParkingService/internal/api/handlers"
)

// CleanupResponse HTTP response model
type CleanupResponse struct {
	Expired int `json:"expired"`
	Skipped int `json:"skipped"`
	Failed  int `json:"failed"`
}

type Handler struct {
	useCase ExpireUseCase
	logger  Logger
}

func NewHandler(useCase ExpireUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/maintenance/cleanup
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	result, err := h.useCase.Execute(r.Context())
	if err != nil {
		h.logger.Error("POST /maintenance/cleanup - Sweep failed: error=%v", err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("POST /maintenance/cleanup - expired=%d, skipped=%d, failed=%d", result.Expired, result.Skipped, result.Failed)
	handlers.RespondJSON(w, http.StatusOK, &CleanupResponse{
		Expired: result.Expired,
		Skipped: result.Skipped,
		Failed:  result.Failed,
	})
}

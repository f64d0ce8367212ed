package cleanup_locks

import (
	"net/http"

	"github.com/avdeevsm/BMS-SlotService/internal/api/handlers"
)

type Handler struct {
	service LockService
	logger  Logger
}

func NewHandler(service LockService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/locks/cleanup
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.Cleanup(r.Context())
	if err != nil {
		h.logger.Error("POST /locks/cleanup - Failed to cleanup locks: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("POST /locks/cleanup - Removed %d expired locks", result.LocksRemoved)
	handlers.RespondJSON(w, http.StatusOK, result)
}

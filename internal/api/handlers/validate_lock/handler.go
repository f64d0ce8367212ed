package validate_lock

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/avdeevsm/BMS-SlotService/internal/api/handlers"
	"github.com/avdeevsm/BMS-SlotService/internal/service/locks"
)

const (
	msgInvalidLockID    = "некорректный ID блокировки"
	msgMissingSessionID = "отсутствует параметр sessionId"
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

// Handle GET /api/v1/locks/{lockId}/validate?sessionId=...
// Невалидная блокировка отдается с кодом 200 и valid=false:
// для вызывающей стороны это штатный исход, а не ошибка.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	lockID, err := strconv.ParseInt(vars["lockId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /locks/{id}/validate - Invalid lock ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidLockID)
		return
	}

	sessionID := r.URL.Query().Get("sessionId")
	if sessionID == "" {
		h.logger.Warn("GET /locks/{id}/validate - Missing session ID: lock_id=%d", lockID)
		handlers.RespondBadRequest(w, msgMissingSessionID)
		return
	}

	result, err := h.service.Validate(r.Context(), lockID, sessionID)
	if err != nil {
		switch {
		case errors.Is(err, locks.ErrInvalidInput):
			h.logger.Warn("GET /locks/{id}/validate - Invalid input: lock_id=%d, error=%v", lockID, err)
			handlers.RespondBadRequest(w, err.Error())

		default:
			h.logger.Error("GET /locks/{id}/validate - Failed to validate lock: lock_id=%d, error=%v", lockID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /locks/{id}/validate - Lock validated: lock_id=%d, valid=%t", lockID, result.Valid)
	handlers.RespondJSON(w, http.StatusOK, result)
}

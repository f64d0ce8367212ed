package acquire_lock

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/avdeevsm/BMS-SlotService/internal/api/handlers"
	acquireLock "github.com/avdeevsm/BMS-SlotService/internal/usecase/acquire_lock"
)

const (
	msgInvalidSlotID      = "некорректный ID слота"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgSlotNotFound       = "слот не найден"
	msgSlotUnavailable    = "слот недоступен для бронирования"
)

type Handler struct {
	useCase AcquireLockUseCase
	logger  Logger
}

func NewHandler(useCase AcquireLockUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/slots/{slotId}/locks
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	slotID, err := strconv.ParseInt(vars["slotId"], 10, 64)
	if err != nil {
		h.logger.Warn("POST /slots/{id}/locks - Invalid slot ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidSlotID)
		return
	}

	var req AcquireLockRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /slots/{id}/locks - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest(slotID))
	if err != nil {
		switch {
		case errors.Is(err, acquireLock.ErrSlotNotFound):
			h.logger.Warn("POST /slots/{id}/locks - Slot not found: slot_id=%d", slotID)
			handlers.RespondNotFound(w, msgSlotNotFound)

		case errors.Is(err, acquireLock.ErrSlotUnavailable):
			h.logger.Warn("POST /slots/{id}/locks - Slot unavailable: slot_id=%d", slotID)
			handlers.RespondConflict(w, msgSlotUnavailable)

		case errors.Is(err, acquireLock.ErrCapacityExceeded):
			// Текст ошибки содержит доступное и запрошенное количество
			h.logger.Warn("POST /slots/{id}/locks - Capacity exceeded: slot_id=%d, error=%v", slotID, err)
			handlers.RespondConflict(w, err.Error())

		case errors.Is(err, acquireLock.ErrInvalidInput):
			h.logger.Warn("POST /slots/{id}/locks - Invalid input: slot_id=%d, error=%v", slotID, err)
			handlers.RespondBadRequest(w, err.Error())

		default:
			h.logger.Error("POST /slots/{id}/locks - Failed to acquire lock: slot_id=%d, error=%v", slotID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /slots/{id}/locks - Lock acquired: lock_id=%d, slot_id=%d, qty=%d",
		result.LockID, slotID, result.ReservedQty)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}

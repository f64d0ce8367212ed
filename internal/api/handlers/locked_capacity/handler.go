package locked_capacity

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/avdeevsm/BMS-SlotService/internal/api/handlers"
	"github.com/avdeevsm/BMS-SlotService/internal/service/locks"
)

const (
	msgMissingSlotIDs = "отсутствует параметр slotIds"
	msgInvalidSlotIDs = "некорректный параметр slotIds, ожидается список ID через запятую"
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

// Handle GET /api/v1/slots/locked-capacity?slotIds=1,2,3
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("slotIds")
	if raw == "" {
		h.logger.Warn("GET /slots/locked-capacity - Missing slot IDs")
		handlers.RespondBadRequest(w, msgMissingSlotIDs)
		return
	}

	parts := strings.Split(raw, ",")
	slotIDs := make([]int64, 0, len(parts))
	for _, part := range parts {
		id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err != nil {
			h.logger.Warn("GET /slots/locked-capacity - Invalid slot IDs: %q", raw)
			handlers.RespondBadRequest(w, msgInvalidSlotIDs)
			return
		}
		slotIDs = append(slotIDs, id)
	}

	result, err := h.service.ActiveLockedCapacity(r.Context(), slotIDs)
	if err != nil {
		switch {
		case errors.Is(err, locks.ErrInvalidInput):
			h.logger.Warn("GET /slots/locked-capacity - Invalid input: %v", err)
			handlers.RespondBadRequest(w, err.Error())

		default:
			h.logger.Error("GET /slots/locked-capacity - Failed to get locked capacity: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /slots/locked-capacity - Fetched locked capacity for %d slots", len(slotIDs))
	handlers.RespondJSON(w, http.StatusOK, result)
}

package resync_capacity

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/avdeevsm/BMS-SlotService/internal/api/handlers"
	resyncCapacity "github.com/avdeevsm/BMS-SlotService/internal/usecase/resync_capacity"
)

const (
	msgInvalidServiceID     = "некорректный ID услуги"
	msgServiceNotFound      = "услуга не найдена"
	msgInvalidConfiguration = "услуга не использует общий пул вместимости"
)

type Handler struct {
	useCase ResyncCapacityUseCase
	logger  Logger
}

func NewHandler(useCase ResyncCapacityUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// HandleOne POST /api/v1/services/{serviceId}/resync-capacity
func (h *Handler) HandleOne(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	serviceID, err := strconv.ParseInt(vars["serviceId"], 10, 64)
	if err != nil {
		h.logger.Warn("POST /services/{id}/resync-capacity - Invalid service ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidServiceID)
		return
	}

	h.handle(w, r, serviceID)
}

// HandleAll POST /api/v1/services/resync-capacity
func (h *Handler) HandleAll(w http.ResponseWriter, r *http.Request) {
	h.handle(w, r, 0)
}

func (h *Handler) handle(w http.ResponseWriter, r *http.Request, serviceID int64) {
	result, err := h.useCase.Execute(r.Context(), &resyncCapacity.Request{ServiceID: serviceID})
	if err != nil {
		switch {
		case errors.Is(err, resyncCapacity.ErrServiceNotFound):
			h.logger.Warn("POST /services/resync-capacity - Service not found: service_id=%d", serviceID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, resyncCapacity.ErrInvalidConfiguration):
			h.logger.Warn("POST /services/resync-capacity - Invalid configuration: service_id=%d", serviceID)
			handlers.RespondBadRequest(w, msgInvalidConfiguration)

		case errors.Is(err, resyncCapacity.ErrInvalidInput):
			h.logger.Warn("POST /services/resync-capacity - Invalid input: %v", err)
			handlers.RespondBadRequest(w, err.Error())

		default:
			h.logger.Error("POST /services/resync-capacity - Failed to resync: service_id=%d, error=%v", serviceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /services/resync-capacity - Resynced %d services, %d slots updated",
		len(result.Services), result.TotalSlotsUpdated)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}

package generate_slots

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/avdeevsm/BMS-SlotService/internal/api/handlers"
	generateSlots "github.com/avdeevsm/BMS-SlotService/internal/usecase/generate_slots"
)

const (
	msgInvalidShiftID       = "некорректный ID смены"
	msgInvalidRequestBody   = "некорректное тело запроса"
	msgInvalidDate          = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgShiftNotFound        = "смена не найдена"
	msgInvalidConfiguration = "конфигурация смены не позволяет сгенерировать слоты"
)

type Handler struct {
	useCase GenerateSlotsUseCase
	logger  Logger
}

func NewHandler(useCase GenerateSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/shifts/{shiftId}/generate-slots
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	shiftID, err := strconv.ParseInt(vars["shiftId"], 10, 64)
	if err != nil {
		h.logger.Warn("POST /shifts/{id}/generate-slots - Invalid shift ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidShiftID)
		return
	}

	var req GenerateSlotsRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /shifts/{id}/generate-slots - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(shiftID)
	if err != nil {
		h.logger.Warn("POST /shifts/{id}/generate-slots - Failed to parse dates: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, generateSlots.ErrShiftNotFound):
			h.logger.Warn("POST /shifts/{id}/generate-slots - Shift not found: shift_id=%d", shiftID)
			handlers.RespondNotFound(w, msgShiftNotFound)

		case errors.Is(err, generateSlots.ErrInvalidConfiguration):
			h.logger.Warn("POST /shifts/{id}/generate-slots - Invalid configuration: shift_id=%d, error=%v", shiftID, err)
			handlers.RespondBadRequest(w, msgInvalidConfiguration)

		case errors.Is(err, generateSlots.ErrInvalidInput):
			h.logger.Warn("POST /shifts/{id}/generate-slots - Invalid input: shift_id=%d, error=%v", shiftID, err)
			handlers.RespondBadRequest(w, err.Error())

		default:
			h.logger.Error("POST /shifts/{id}/generate-slots - Failed to generate slots: shift_id=%d, error=%v", shiftID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /shifts/{id}/generate-slots - Generated %d slots for shift_id=%d (deleted %d)",
		result.SlotsCreated, shiftID, result.SlotsDeleted)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}

package create_booking

import (
	"errors"
	"net/http"

	"github.com/avdeevsm/BMS-SlotService/internal/api/handlers"
	"github.com/avdeevsm/BMS-SlotService/internal/api/middleware"
	transitionBooking "github.com/avdeevsm/BMS-SlotService/internal/usecase/transition_booking"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingTenantID    = "отсутствует ID тенанта"
	msgSlotNotFound       = "слот не найден"
	msgPackageExhausted   = "у пакетной подписки нет остатка по этой услуге"
)

type Handler struct {
	useCase CreateBookingUseCase
	logger  Logger
}

func NewHandler(useCase CreateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := middleware.GetTenantID(r.Context())
	if !ok {
		h.logger.Warn("POST /bookings - Missing tenant ID")
		handlers.RespondUnauthorized(w, msgMissingTenantID)
		return
	}

	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(tenantID)
	if err != nil {
		h.logger.Warn("POST /bookings - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, err.Error())
		return
	}

	result, err := h.useCase.Create(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, transitionBooking.ErrSlotNotFound):
			h.logger.Warn("POST /bookings - Slot not found: slot_id=%d", req.SlotID)
			handlers.RespondNotFound(w, msgSlotNotFound)

		case errors.Is(err, transitionBooking.ErrCapacityExceeded):
			h.logger.Warn("POST /bookings - Capacity exceeded: slot_id=%d, error=%v", req.SlotID, err)
			handlers.RespondConflict(w, err.Error())

		case errors.Is(err, transitionBooking.ErrPackageExhausted):
			h.logger.Warn("POST /bookings - Package exhausted: subscription_id=%v, service_id=%d",
				req.SubscriptionID, req.ServiceID)
			handlers.RespondConflict(w, msgPackageExhausted)

		case errors.Is(err, transitionBooking.ErrInvalidInput):
			h.logger.Warn("POST /bookings - Invalid input: %v", err)
			handlers.RespondBadRequest(w, err.Error())

		default:
			h.logger.Error("POST /bookings - Failed to create booking: tenant_id=%d, slot_id=%d, error=%v",
				tenantID, req.SlotID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings - Booking created: booking_id=%d, tenant_id=%d, slot_id=%d, status=%s",
		result.BookingID, tenantID, result.SlotID, result.Status)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}

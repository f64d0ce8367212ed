package transition_booking

import (
	"fmt"

	"github.com/avdeevsm/BMS-SlotService/internal/domain"
)

// validateCreateRequest валидирует запрос на создание бронирования
func validateCreateRequest(req *CreateRequest) error {
	if req.TenantID <= 0 {
		return fmt.Errorf("%w: tenantID must be positive", ErrInvalidInput)
	}
	if req.ServiceID <= 0 {
		return fmt.Errorf("%w: serviceID must be positive", ErrInvalidInput)
	}
	if req.SlotID <= 0 {
		return fmt.Errorf("%w: slotID must be positive", ErrInvalidInput)
	}
	if req.AdultCount < 0 || req.ChildCount < 0 {
		return fmt.Errorf("%w: adultCount and childCount must not be negative", ErrInvalidInput)
	}

	visitorCount := req.AdultCount + req.ChildCount
	if visitorCount <= 0 {
		return fmt.Errorf("%w: at least one visitor is required", ErrInvalidInput)
	}
	if visitorCount > domain.MaxVisitorCount {
		return fmt.Errorf("%w: visitor count must not exceed %d", ErrInvalidInput, domain.MaxVisitorCount)
	}

	// Создать бронирование можно только в начальных статусах графа
	if req.Status != domain.StatusPending && req.Status != domain.StatusConfirmed {
		return fmt.Errorf("%w: initial status must be %q or %q",
			ErrInvalidInput, domain.StatusPending, domain.StatusConfirmed)
	}

	return nil
}

// validateTransitionRequest валидирует запрос на смену статуса
func validateTransitionRequest(req *TransitionRequest) error {
	if req.BookingID <= 0 {
		return fmt.Errorf("%w: bookingID must be positive", ErrInvalidInput)
	}
	if _, known := domain.ToBookingStatus(string(req.NewStatus)); !known {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidInput, req.NewStatus)
	}
	return nil
}

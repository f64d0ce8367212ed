package create_booking

import (
	"context"

	transitionBooking "github.com/avdeevsm/BMS-SlotService/internal/usecase/transition_booking"
)

type CreateBookingUseCase interface {
	Create(ctx context.Context, req *transitionBooking.CreateRequest) (*transitionBooking.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

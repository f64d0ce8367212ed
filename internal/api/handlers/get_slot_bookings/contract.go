package get_slot_bookings

import (
	"context"

	"github.com/avdeevsm/BMS-SlotService/internal/service/bookings/models"
)

type BookingService interface {
	ListBySlot(ctx context.Context, slotID int64) (*models.SlotBookingsResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

package locked_capacity

import (
	"context"

	"github.com/avdeevsm/BMS-SlotService/internal/service/locks/models"
)

type LockService interface {
	ActiveLockedCapacity(ctx context.Context, slotIDs []int64) (*models.LockedCapacityResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

package resync_capacity

import (
	"context"

	resyncCapacity "github.com/avdeevsm/BMS-SlotService/internal/usecase/resync_capacity"
)

type ResyncCapacityUseCase interface {
	Execute(ctx context.Context, req *resyncCapacity.Request) (*resyncCapacity.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

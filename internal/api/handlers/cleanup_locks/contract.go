package cleanup_locks

import (
	"context"

	"github.com/avdeevsm/BMS-SlotService/internal/service/locks/models"
)

type LockService interface {
	Cleanup(ctx context.Context) (*models.CleanupResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

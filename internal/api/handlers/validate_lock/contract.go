package validate_lock

import (
	"context"

	"github.com/avdeevsm/BMS-SlotService/internal/service/locks/models"
)

type LockService interface {
	Validate(ctx context.Context, lockID int64, sessionID string) (*models.ValidateLockResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

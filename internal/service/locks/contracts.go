package locks

import (
	"context"
	"time"

	"github.com/avdeevsm/BMS-SlotService/internal/domain"
)

// LockRepository интерфейс репозитория блокировок
type LockRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.ReservationLock, error)
	SumActiveBySlotIDs(ctx context.Context, slotIDs []int64, now time.Time) (map[int64]int, error)
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// TimeProvider интерфейс для получения текущего времени
type TimeProvider interface {
	Now() time.Time
}

// RealTimeProvider реализация TimeProvider с реальным временем
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

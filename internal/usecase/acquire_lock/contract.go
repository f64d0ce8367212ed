package acquire_lock

import (
	"context"
	"time"

	"github.com/avdeevsm/BMS-SlotService/internal/domain"
)

// SlotRepository интерфейс репозитория слотов.
// GetByID внутри транзакции берет эксклюзивную блокировку строки слота.
type SlotRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Slot, error)
}

// LockRepository интерфейс репозитория резервационных блокировок
type LockRepository interface {
	DeleteExpiredBySlotID(ctx context.Context, slotID int64, now time.Time) (int64, error)
	SumActiveBySlotID(ctx context.Context, slotID int64, now time.Time) (int, error)
	Create(ctx context.Context, l *domain.ReservationLock) (*domain.ReservationLock, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}

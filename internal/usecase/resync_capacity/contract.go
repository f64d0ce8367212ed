package resync_capacity

import (
	"context"
	"time"

	"github.com/avdeevsm/BMS-SlotService/internal/domain"
)

// CatalogRepository интерфейс справочника услуг
type CatalogRepository interface {
	GetServiceByID(ctx context.Context, id int64) (*domain.Service, error)
	ListServiceBased(ctx context.Context) ([]*domain.Service, error)
}

// SlotRepository интерфейс репозитория слотов
type SlotRepository interface {
	ResyncFutureByService(ctx context.Context, serviceID int64, newCapacity int, from time.Time) (int64, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
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

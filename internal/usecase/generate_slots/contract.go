package generate_slots

import (
	"context"
	"time"

	"github.com/avdeevsm/BMS-SlotService/internal/domain"
)

// CatalogRepository интерфейс репозитория конфигурации расписания
type CatalogRepository interface {
	GetShiftByID(ctx context.Context, id int64) (*domain.Shift, error)
	GetServiceByID(ctx context.Context, id int64) (*domain.Service, error)
	GetAssignmentsByShiftID(ctx context.Context, shiftID int64) ([]*domain.EmployeeAssignment, error)
	GetAssignmentsByServiceUnscoped(ctx context.Context, serviceID int64) ([]*domain.EmployeeAssignment, error)
	GetActiveEmployeesByRole(ctx context.Context, tenantID int64, role string) ([]*domain.Employee, error)
}

// SlotRepository интерфейс репозитория слотов
type SlotRepository interface {
	DeleteByShiftAndDateRange(ctx context.Context, shiftID int64, from, to time.Time) (int64, error)
	InsertBatch(ctx context.Context, slots []*domain.Slot) (int, error)
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

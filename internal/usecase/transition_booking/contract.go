package transition_booking

import (
	"context"
	"time"

	"github.com/avdeevsm/BMS-SlotService/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований.
// GetByID внутри транзакции берет эксклюзивную блокировку строки бронирования.
type BookingRepository interface {
	Create(ctx context.Context, b *domain.Booking) (*domain.Booking, error)
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) error
	Cancel(ctx context.Context, id int64, reason *string) error
}

// SlotRepository интерфейс репозитория слотов.
// GetByID внутри транзакции берет эксклюзивную блокировку строки слота.
type SlotRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Slot, error)
	DebitCapacity(ctx context.Context, id int64, qty int) error
	RestoreCapacity(ctx context.Context, id int64, qty int) error
	RestoreOverlappingByEmployee(
		ctx context.Context,
		employeeID int64,
		slotDate time.Time,
		startAtUTC, endAtUTC time.Time,
		excludeSlotID int64,
		qty int,
	) (int64, error)
}

// PackageUsageRepository интерфейс репозитория леджера пакетных подписок
type PackageUsageRepository interface {
	Debit(ctx context.Context, subscriptionID, serviceID int64) error
	Credit(ctx context.Context, subscriptionID, serviceID int64, qty int) (int64, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

package lock

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/avdeevsm/BMS-SlotService/internal/domain"
	"github.com/avdeevsm/BMS-SlotService/pkg/dbmetrics"
	"github.com/avdeevsm/BMS-SlotService/pkg/psqlbuilder"
)

// Repository репозиторий резервационных блокировок слотов.
// Блокировка живёт только до expires_at; истёкшие строки игнорируются
// всеми агрегатами и удаляются задачей очистки.
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория блокировок
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новую блокировку
func (r *Repository) Create(ctx context.Context, l *domain.ReservationLock) (*domain.ReservationLock, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("slot_reservation_locks").
		Columns(
			"slot_id",
			"session_id",
			"reserved_qty",
			"expires_at",
		).
		Values(
			l.SlotID,
			l.SessionID,
			l.ReservedQty,
			l.ExpiresAt,
		).
		Suffix("RETURNING id, created_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&l.ID, &createdAt)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	l.CreatedAt = createdAt.Time

	return l, nil
}

// GetByID получает блокировку по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.ReservationLock, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"slot_id",
		"session_id",
		"reserved_qty",
		"created_at",
		"expires_at",
	).
		From("slot_reservation_locks").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	var l domain.ReservationLock
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&l.ID,
		&l.SlotID,
		&l.SessionID,
		&l.ReservedQty,
		&l.CreatedAt,
		&l.ExpiresAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrLockNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan lock: %v", ErrScanRow, err)
	}

	return &l, nil
}

// SumActiveBySlotID возвращает суммарное зарезервированное количество
// по всем неистёкшим блокировкам слота
func (r *Repository) SumActiveBySlotID(ctx context.Context, slotID int64, now time.Time) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("COALESCE(SUM(reserved_qty), 0)").
		From("slot_reservation_locks").
		Where(squirrel.Eq{"slot_id": slotID}).
		Where(squirrel.Gt{"expires_at": now}).
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: SumActiveBySlotID - build select query: %v", ErrBuildQuery, err)
	}

	var sum int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&sum); err != nil {
		return 0, fmt.Errorf("%w: SumActiveBySlotID - scan sum: %v", ErrScanRow, err)
	}

	return sum, nil
}

// SumActiveBySlotIDs возвращает суммарное зарезервированное количество
// по каждому из указанных слотов. Слоты без активных блокировок
// в результат не попадают — заполнение нулями остаётся за вызывающим.
func (r *Repository) SumActiveBySlotIDs(ctx context.Context, slotIDs []int64, now time.Time) (map[int64]int, error) {
	result := make(map[int64]int, len(slotIDs))
	if len(slotIDs) == 0 {
		return result, nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"slot_id",
		"COALESCE(SUM(reserved_qty), 0)",
	).
		From("slot_reservation_locks").
		Where(squirrel.Eq{"slot_id": slotIDs}).
		Where(squirrel.Gt{"expires_at": now}).
		GroupBy("slot_id").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: SumActiveBySlotIDs - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: SumActiveBySlotIDs - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	for rows.Next() {
		var slotID int64
		var sum int
		if err := rows.Scan(&slotID, &sum); err != nil {
			return nil, fmt.Errorf("%w: SumActiveBySlotIDs - scan row: %v", ErrScanRow, err)
		}
		result[slotID] = sum
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: SumActiveBySlotIDs - rows error: %v", ErrScanRow, err)
	}

	return result, nil
}

// DeleteExpired удаляет все истёкшие блокировки.
// Идемпотентна: ноль совпадений не является ошибкой.
func (r *Repository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("slot_reservation_locks").
		Where(squirrel.LtOrEq{"expires_at": now}).
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: DeleteExpired - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: DeleteExpired - execute delete: %v", ErrExecQuery, err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: DeleteExpired - get rows affected: %v", ErrExecQuery, err)
	}

	return deleted, nil
}

// DeleteExpiredBySlotID удаляет истёкшие блокировки одного слота.
// Ленивая очистка перед подсчётом свободной вместимости в acquireLock.
func (r *Repository) DeleteExpiredBySlotID(ctx context.Context, slotID int64, now time.Time) (int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("slot_reservation_locks").
		Where(squirrel.Eq{"slot_id": slotID}).
		Where(squirrel.LtOrEq{"expires_at": now}).
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: DeleteExpiredBySlotID - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: DeleteExpiredBySlotID - execute delete: %v", ErrExecQuery, err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: DeleteExpiredBySlotID - get rows affected: %v", ErrExecQuery, err)
	}

	return deleted, nil
}

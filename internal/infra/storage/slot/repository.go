package slot

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

// slotColumns общий список колонок таблицы slots
var slotColumns = []string{
	"id",
	"tenant_id",
	"shift_id",
	"service_id",
	"employee_id",
	"slot_date",
	"start_time",
	"end_time",
	"start_at_utc",
	"end_at_utc",
	"original_capacity",
	"available_capacity",
	"booked_count",
	"is_overbooked",
	"is_available",
	"created_at",
	"updated_at",
}

// Repository репозиторий слотов. Все изменяющие вместимость операции
// выполняются одним UPDATE с зажимом значений на стороне SQL, чтобы
// available_capacity никогда не выходил за пределы [0, original_capacity].
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория слотов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// InsertBatch вставляет пакет сгенерированных слотов и возвращает их количество
func (r *Repository) InsertBatch(ctx context.Context, slots []*domain.Slot) (int, error) {
	if len(slots) == 0 {
		return 0, nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	insertBuilder := psqlbuilder.Insert("slots").
		Columns(
			"tenant_id",
			"shift_id",
			"service_id",
			"employee_id",
			"slot_date",
			"start_time",
			"end_time",
			"start_at_utc",
			"end_at_utc",
			"original_capacity",
			"available_capacity",
			"booked_count",
			"is_overbooked",
			"is_available",
		)

	for _, s := range slots {
		insertBuilder = insertBuilder.Values(
			s.TenantID,
			s.ShiftID,
			s.ServiceID,
			s.EmployeeID,
			s.SlotDate,
			s.StartTime,
			s.EndTime,
			s.StartAtUTC,
			s.EndAtUTC,
			s.OriginalCapacity,
			s.AvailableCapacity,
			s.BookedCount,
			s.IsOverbooked,
			s.IsAvailable,
		)
	}

	query, args, err := insertBuilder.ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: InsertBatch - build insert query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: InsertBatch - execute insert: %v", ErrExecQuery, err)
	}

	inserted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: InsertBatch - get rows affected: %v", ErrExecQuery, err)
	}

	return int(inserted), nil
}

// DeleteByShiftAndDateRange удаляет слоты смены в диапазоне дат [from, to].
// Используется перед регенерацией, чтобы повторный вызов давал идентичный набор.
func (r *Repository) DeleteByShiftAndDateRange(ctx context.Context, shiftID int64, from, to time.Time) (int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("slots").
		Where(squirrel.Eq{"shift_id": shiftID}).
		Where(squirrel.GtOrEq{"slot_date": from}).
		Where(squirrel.LtOrEq{"slot_date": to}).
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: DeleteByShiftAndDateRange - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: DeleteByShiftAndDateRange - execute delete: %v", ErrExecQuery, err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: DeleteByShiftAndDateRange - get rows affected: %v", ErrExecQuery, err)
	}

	return deleted, nil
}

// GetByID получает слот по ID.
// Внутри транзакции строка блокируется через FOR UPDATE: любая проверка
// или изменение вместимости сериализуются на строке слота.
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Slot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(slotColumns...).
		From("slots").
		Where(squirrel.Eq{"id": id})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	var s domain.Slot
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&s.ID,
		&s.TenantID,
		&s.ShiftID,
		&s.ServiceID,
		&s.EmployeeID,
		&s.SlotDate,
		&s.StartTime,
		&s.EndTime,
		&s.StartAtUTC,
		&s.EndAtUTC,
		&s.OriginalCapacity,
		&s.AvailableCapacity,
		&s.BookedCount,
		&s.IsOverbooked,
		&s.IsAvailable,
		&createdAt,
		&updatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrSlotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan slot: %v", ErrScanRow, err)
	}

	s.CreatedAt = createdAt.Time
	s.UpdatedAt = updatedAt.Time

	return &s, nil
}

// DebitCapacity списывает qty мест со слота при подтверждении бронирования.
// available_capacity зажимается снизу нулём, booked_count растет,
// is_overbooked пересчитывается относительно текущего потолка.
func (r *Repository) DebitCapacity(ctx context.Context, id int64, qty int) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("slots").
		Set("available_capacity", squirrel.Expr("GREATEST(0, available_capacity - ?)", qty)).
		Set("booked_count", squirrel.Expr("booked_count + ?", qty)).
		Set("is_overbooked", squirrel.Expr("booked_count + ? > original_capacity", qty)).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: DebitCapacity - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: DebitCapacity - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: DebitCapacity - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrSlotNotFound
	}

	return nil
}

// RestoreCapacity возвращает qty мест слоту при отмене или завершении.
// Возврат best-effort: значения зажимаются, ошибка только при отсутствии слота.
func (r *Repository) RestoreCapacity(ctx context.Context, id int64, qty int) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("slots").
		Set("available_capacity", squirrel.Expr("LEAST(original_capacity, available_capacity + ?)", qty)).
		Set("booked_count", squirrel.Expr("GREATEST(0, booked_count - ?)", qty)).
		Set("is_overbooked", squirrel.Expr("GREATEST(0, booked_count - ?) > original_capacity", qty)).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: RestoreCapacity - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: RestoreCapacity - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: RestoreCapacity - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrSlotNotFound
	}

	return nil
}

// RestoreOverlappingByEmployee возвращает qty мест всем остальным слотам
// того же сотрудника на ту же дату, пересекающимся по времени с интервалом
// [startAtUTC, endAtUTC). Слоты сотрудника, сгенерированные встык, могут
// представлять пересекающиеся обязательства, неявно заблокированные
// подтверждённым бронированием.
func (r *Repository) RestoreOverlappingByEmployee(
	ctx context.Context,
	employeeID int64,
	slotDate time.Time,
	startAtUTC, endAtUTC time.Time,
	excludeSlotID int64,
	qty int,
) (int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("slots").
		Set("available_capacity", squirrel.Expr("LEAST(original_capacity, available_capacity + ?)", qty)).
		Set("booked_count", squirrel.Expr("GREATEST(0, booked_count - ?)", qty)).
		Set("is_overbooked", squirrel.Expr("GREATEST(0, booked_count - ?) > original_capacity", qty)).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"employee_id": employeeID}).
		Where(squirrel.Eq{"slot_date": slotDate}).
		Where(squirrel.NotEq{"id": excludeSlotID}).
		Where(squirrel.Lt{"start_at_utc": endAtUTC}).
		Where(squirrel.Gt{"end_at_utc": startAtUTC}).
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: RestoreOverlappingByEmployee - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: RestoreOverlappingByEmployee - execute update: %v", ErrExecQuery, err)
	}

	restored, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: RestoreOverlappingByEmployee - get rows affected: %v", ErrExecQuery, err)
	}

	return restored, nil
}

// ResyncFutureByService применяет новый пул вместимости услуги ко всем
// будущим service-based слотам (slot_date >= from). Прошлые слоты не трогаем.
func (r *Repository) ResyncFutureByService(ctx context.Context, serviceID int64, newCapacity int, from time.Time) (int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("slots").
		Set("original_capacity", newCapacity).
		Set("available_capacity", squirrel.Expr("GREATEST(0, ? - booked_count)", newCapacity)).
		Set("is_overbooked", squirrel.Expr("booked_count > ?", newCapacity)).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"service_id": serviceID}).
		Where(squirrel.Eq{"employee_id": nil}).
		Where(squirrel.GtOrEq{"slot_date": from}).
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: ResyncFutureByService - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: ResyncFutureByService - execute update: %v", ErrExecQuery, err)
	}

	updated, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: ResyncFutureByService - get rows affected: %v", ErrExecQuery, err)
	}

	return updated, nil
}

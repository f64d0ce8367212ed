package catalog

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/avdeevsm/BMS-SlotService/internal/domain"
	"github.com/avdeevsm/BMS-SlotService/pkg/dbmetrics"
	"github.com/avdeevsm/BMS-SlotService/pkg/psqlbuilder"
)

// Repository репозиторий конфигурации расписания: смены, услуги,
// назначения сотрудников. Данные создаются админским контуром,
// здесь доступны только на чтение.
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория конфигурации
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetShiftByID получает смену по ID
func (r *Repository) GetShiftByID(ctx context.Context, id int64) (*domain.Shift, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"tenant_id",
		"service_id",
		"weekdays",
		"start_time",
		"end_time",
		"timezone",
		"is_active",
	).
		From("shifts").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetShiftByID - build select query: %v", ErrBuildQuery, err)
	}

	var shift domain.Shift
	var weekdays pq.Int64Array

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&shift.ID,
		&shift.TenantID,
		&shift.ServiceID,
		&weekdays,
		&shift.StartTime,
		&shift.EndTime,
		&shift.Timezone,
		&shift.IsActive,
	)

	if err == sql.ErrNoRows {
		return nil, ErrShiftNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetShiftByID - scan shift: %v", ErrScanRow, err)
	}

	shift.Weekdays = make([]int, len(weekdays))
	for i, wd := range weekdays {
		shift.Weekdays[i] = int(wd)
	}

	return &shift, nil
}

// GetServiceByID получает услугу по ID
func (r *Repository) GetServiceByID(ctx context.Context, id int64) (*domain.Service, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"tenant_id",
		"name",
		"duration_minutes",
		"capacity_mode",
		"capacity_per_slot",
	).
		From("services").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetServiceByID - build select query: %v", ErrBuildQuery, err)
	}

	var service domain.Service

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&service.ID,
		&service.TenantID,
		&service.Name,
		&service.DurationMinutes,
		&service.CapacityMode,
		&service.CapacityPerSlot,
	)

	if err == sql.ErrNoRows {
		return nil, ErrServiceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetServiceByID - scan service: %v", ErrScanRow, err)
	}

	return &service, nil
}

// ListServiceBased получает все услуги с пулом вместимости на уровне услуги.
// Используется массовой пересинхронизацией вместимости слотов.
func (r *Repository) ListServiceBased(ctx context.Context) ([]*domain.Service, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"tenant_id",
		"name",
		"duration_minutes",
		"capacity_mode",
		"capacity_per_slot",
	).
		From("services").
		Where(squirrel.Eq{"capacity_mode": domain.CapacityModeServiceBased}).
		OrderBy("id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListServiceBased - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListServiceBased - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	services := make([]*domain.Service, 0)
	for rows.Next() {
		var service domain.Service
		if err := rows.Scan(
			&service.ID,
			&service.TenantID,
			&service.Name,
			&service.DurationMinutes,
			&service.CapacityMode,
			&service.CapacityPerSlot,
		); err != nil {
			return nil, fmt.Errorf("%w: ListServiceBased - scan service: %v", ErrScanRow, err)
		}
		services = append(services, &service)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListServiceBased - rows error: %v", ErrScanRow, err)
	}

	return services, nil
}

// GetAssignmentsByShiftID получает назначения сотрудников, привязанные к конкретной смене
func (r *Repository) GetAssignmentsByShiftID(ctx context.Context, shiftID int64) ([]*domain.EmployeeAssignment, error) {
	builder := r.assignmentSelect().Where(squirrel.Eq{"shift_id": shiftID})
	return r.queryAssignments(ctx, "GetAssignmentsByShiftID", builder)
}

// GetAssignmentsByServiceUnscoped получает назначения для услуги без привязки к смене
func (r *Repository) GetAssignmentsByServiceUnscoped(ctx context.Context, serviceID int64) ([]*domain.EmployeeAssignment, error) {
	builder := r.assignmentSelect().
		Where(squirrel.Eq{"service_id": serviceID}).
		Where(squirrel.Eq{"shift_id": nil})
	return r.queryAssignments(ctx, "GetAssignmentsByServiceUnscoped", builder)
}

// GetActiveEmployeesByRole получает активных сотрудников тенанта с указанной ролью.
// Последний уровень fallback-резолюции: когда назначений нет вовсе,
// слоты генерируются для всех сотрудников с ролью "employee".
func (r *Repository) GetActiveEmployeesByRole(ctx context.Context, tenantID int64, role string) ([]*domain.Employee, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"tenant_id",
		"role",
		"is_active",
	).
		From("employees").
		Where(squirrel.Eq{"tenant_id": tenantID}).
		Where(squirrel.Eq{"role": role}).
		Where(squirrel.Eq{"is_active": true}).
		OrderBy("id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetActiveEmployeesByRole - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetActiveEmployeesByRole - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	employees := make([]*domain.Employee, 0)
	for rows.Next() {
		var employee domain.Employee
		if err := rows.Scan(
			&employee.ID,
			&employee.TenantID,
			&employee.Role,
			&employee.IsActive,
		); err != nil {
			return nil, fmt.Errorf("%w: GetActiveEmployeesByRole - scan employee: %v", ErrScanRow, err)
		}
		employees = append(employees, &employee)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetActiveEmployeesByRole - rows error: %v", ErrScanRow, err)
	}

	return employees, nil
}

func (r *Repository) assignmentSelect() squirrel.SelectBuilder {
	return psqlbuilder.Select(
		"id",
		"tenant_id",
		"employee_id",
		"service_id",
		"shift_id",
		"duration_minutes",
		"capacity_per_slot",
	).
		From("employee_assignments").
		OrderBy("employee_id ASC")
}

func (r *Repository) queryAssignments(ctx context.Context, method string, builder squirrel.SelectBuilder) ([]*domain.EmployeeAssignment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, method, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s - execute query: %v", ErrExecQuery, method, err)
	}
	defer rows.Close()

	assignments := make([]*domain.EmployeeAssignment, 0)
	for rows.Next() {
		var assignment domain.EmployeeAssignment
		if err := rows.Scan(
			&assignment.ID,
			&assignment.TenantID,
			&assignment.EmployeeID,
			&assignment.ServiceID,
			&assignment.ShiftID,
			&assignment.DurationMinutes,
			&assignment.CapacityPerSlot,
		); err != nil {
			return nil, fmt.Errorf("%w: %s - scan assignment: %v", ErrScanRow, method, err)
		}
		assignments = append(assignments, &assignment)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s - rows error: %v", ErrScanRow, method, err)
	}

	return assignments, nil
}
